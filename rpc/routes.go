package rpc

import rpc "github.com/tendermint/tendermint/rpc/jsonrpc/server"

var Routes = map[string]*rpc.RPCFunc{
	"status":       rpc.NewRPCFunc(Status, ""),
	"period_state": rpc.NewRPCFunc(PeriodState, "version"),
	"metrics":      rpc.NewRPCFunc(JSONMetrics, "label"),
}
