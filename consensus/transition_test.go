package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabubAlahi/final-assignment-service/types"
)

var workingRounds = []types.RoundID{
	types.DataPullRound,
	types.DecisionMakingRound,
	types.TxPreparationRound,
}

var allEvents = []types.Event{
	types.EventDone,
	types.EventTransact,
	types.EventError,
	types.EventNoMajority,
	types.EventRoundTimeout,
}

func TestTransitionTableIsTotal(t *testing.T) {
	for _, round := range workingRounds {
		for _, event := range allEvents {
			next, err := NextRound(round, event)
			require.NoErrorf(t, err, "(%v, %v) must have a transition", round, event)
			assert.NotZero(t, next)
		}
	}
}

func TestTransitionTableProgressEdges(t *testing.T) {
	cases := []struct {
		round types.RoundID
		event types.Event
		next  types.RoundID
	}{
		{types.DataPullRound, types.EventDone, types.DecisionMakingRound},
		{types.DecisionMakingRound, types.EventDone, types.FinishedDecisionMakingRound},
		{types.DecisionMakingRound, types.EventTransact, types.TxPreparationRound},
		{types.DecisionMakingRound, types.EventError, types.FinishedDecisionMakingRound},
		{types.TxPreparationRound, types.EventDone, types.FinishedTxPreparationRound},
	}

	for _, tc := range cases {
		next, err := NextRound(tc.round, tc.event)
		require.NoError(t, err)
		assert.Equalf(t, tc.next, next, "(%v, %v)", tc.round, tc.event)
	}
}

func TestTransitionTableSelfLoops(t *testing.T) {
	// NO_MAJORITY and ROUND_TIMEOUT repeat the round everywhere
	for _, round := range workingRounds {
		for _, event := range []types.Event{types.EventNoMajority, types.EventRoundTimeout} {
			next, err := NextRound(round, event)
			require.NoError(t, err)
			assert.Equalf(t, round, next, "(%v, %v) must self-loop", round, event)
		}
	}
}

func TestNextRoundRejectsTerminalRounds(t *testing.T) {
	for _, round := range []types.RoundID{types.FinishedDecisionMakingRound, types.FinishedTxPreparationRound} {
		for _, event := range allEvents {
			_, err := NextRound(round, event)
			assert.Errorf(t, err, "(%v, %v) must be rejected", round, event)
		}
	}
}
