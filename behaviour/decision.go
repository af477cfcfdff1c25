package behaviour

import (
	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

// decide is pure over the period state: no I/O. Every honest agent computes
// the same event from the same snapshot; the round's majority vote guards
// against a faulty minority.
//
// Malformed upstream state is a logic error, not a transient one: it maps
// to ERROR, which the transition table routes to a terminal round, since
// retrying cannot repair it.
func (e *Executor) decide(period state.PeriodState) (types.Payload, error) {
	event := decisionEvent(period)
	e.logger.Info("decision computed", "event", event,
		"betting_result", period.BettingResult, "has_placed_bet", period.HasPlacedBet)
	return types.NewDecisionMakingPayload(e.sender, event), nil
}

func decisionEvent(period state.PeriodState) types.Event {
	if !period.HasOutput(types.DataPullRound) {
		return types.EventError
	}
	if period.BettingResult && !period.HasPlacedBet {
		return types.EventTransact
	}
	return types.EventDone
}
