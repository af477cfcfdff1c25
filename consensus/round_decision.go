package consensus

import (
	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

// decisionMakingRound agrees on the event each agent derived from the
// period state. The derivation is deterministic, so honest agents submit
// identical events; the majority vote guards against a faulty minority.
type decisionMakingRound struct {
	baseRound
}

func NewDecisionMakingRound(agents *types.AgentSet, period state.PeriodState) Round {
	return &decisionMakingRound{
		baseRound: newBaseRound(types.DecisionMakingRound, agents, period),
	}
}

func (r *decisionMakingRound) TryResolve() (types.Event, bool) {
	if r.resolved {
		return types.EventNone, false
	}
	if !r.hasQuorum() {
		return types.EventNone, false
	}

	winner, ok := r.majorityEvent()
	if !ok {
		if r.attainable(r.bestEventCount()) {
			// a pending payload can still tip the vote; keep collecting
			return types.EventNone, false
		}
		r.resolved = true
		r.logger.Info("quorum without event majority", "round", r.id)
		return types.EventNoMajority, true
	}
	r.resolved = true

	next := r.period.Next(r.id)
	next.DecisionEvent = winner
	next.SetOutput(r.id, &types.DecisionMakingPayload{
		PayloadBase: types.PayloadBase{Round: r.id},
		Event:       winner,
	})
	r.output = &next

	return winner, true
}

func (r *decisionMakingRound) majorityEvent() (types.Event, bool) {
	threshold := r.agents.MajorityThreshold()
	for _, candidate := range []types.Event{types.EventDone, types.EventTransact, types.EventError} {
		if r.eventCount(candidate) > threshold {
			return candidate, true
		}
	}
	return types.EventNone, false
}

func (r *decisionMakingRound) bestEventCount() int {
	best := 0
	for _, candidate := range []types.Event{types.EventDone, types.EventTransact, types.EventError} {
		if count := r.eventCount(candidate); count > best {
			best = count
		}
	}
	return best
}

func (r *decisionMakingRound) eventCount(candidate types.Event) int {
	return r.payloads.CountMatching(func(p types.Payload) bool {
		dm, ok := p.(*types.DecisionMakingPayload)
		return ok && dm.Event == candidate
	})
}
