package rpc

import (
	"github.com/mahabubAlahi/final-assignment-service/consensus"
	"github.com/mahabubAlahi/final-assignment-service/libs/metric"
	"github.com/mahabubAlahi/final-assignment-service/state"
)

var env *Environment

func SetEnvironment(e *Environment) {
	env = e
}

// Environment carries the node components the RPC handlers read from.
// Handlers never mutate the sequence; the RPC surface is observational.
type Environment struct {
	Sequence *consensus.RoundSequence
	Store    *state.Store

	MetricSet *metric.MetricSet
}
