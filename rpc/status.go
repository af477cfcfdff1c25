package rpc

import (
	rpctypes "github.com/tendermint/tendermint/rpc/jsonrpc/types"
)

type ResultStatus struct {
	Round    string `json:"round"`
	Instance uint64 `json:"instance"`
	Finished bool   `json:"finished"`

	PeriodVersion int64  `json:"period_version"`
	LastRound     string `json:"last_round"`
	DecisionEvent string `json:"decision_event"`
}

// Status reports where the round sequence currently is.
func Status(ctx *rpctypes.Context) (*ResultStatus, error) {
	seq := env.Sequence
	period := seq.Period()

	return &ResultStatus{
		Round:         seq.RoundID().String(),
		Instance:      seq.Instance(),
		Finished:      seq.IsFinished(),
		PeriodVersion: period.Version,
		LastRound:     period.LastRound.String(),
		DecisionEvent: period.DecisionEvent.String(),
	}, nil
}
