package consensus

import (
	"fmt"

	"github.com/mahabubAlahi/final-assignment-service/types"
)

type transitionKey struct {
	Round types.RoundID
	Event types.Event
}

// transitions is the total transition function of the round sequence. Every
// (round, event) pair is enumerated; self-loops are intentional entries, not
// a missing-key fallback, so a lookup miss is a programming error rather
// than a silent stay-in-place.
var transitions = map[transitionKey]types.RoundID{
	{types.DataPullRound, types.EventDone}:         types.DecisionMakingRound,
	{types.DataPullRound, types.EventTransact}:     types.DataPullRound,
	{types.DataPullRound, types.EventError}:        types.DataPullRound,
	{types.DataPullRound, types.EventNoMajority}:   types.DataPullRound,
	{types.DataPullRound, types.EventRoundTimeout}: types.DataPullRound,

	{types.DecisionMakingRound, types.EventDone}:         types.FinishedDecisionMakingRound,
	{types.DecisionMakingRound, types.EventTransact}:     types.TxPreparationRound,
	{types.DecisionMakingRound, types.EventError}:        types.FinishedDecisionMakingRound,
	{types.DecisionMakingRound, types.EventNoMajority}:   types.DecisionMakingRound,
	{types.DecisionMakingRound, types.EventRoundTimeout}: types.DecisionMakingRound,

	{types.TxPreparationRound, types.EventDone}:         types.FinishedTxPreparationRound,
	{types.TxPreparationRound, types.EventTransact}:     types.TxPreparationRound,
	{types.TxPreparationRound, types.EventError}:        types.TxPreparationRound,
	{types.TxPreparationRound, types.EventNoMajority}:   types.TxPreparationRound,
	{types.TxPreparationRound, types.EventRoundTimeout}: types.TxPreparationRound,
}

// NextRound resolves the successor of (round, event). Terminal rounds and
// unknown pairs are errors: events must never be raised past a terminal
// state, and the table is meant to be total over the working rounds.
func NextRound(round types.RoundID, event types.Event) (types.RoundID, error) {
	if round.IsTerminal() {
		return round, fmt.Errorf("%v is terminal, no transition for %v", round, event)
	}
	next, ok := transitions[transitionKey{round, event}]
	if !ok {
		return round, fmt.Errorf("no transition entry for (%v, %v)", round, event)
	}
	return next, nil
}
