package consensus

import (
	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

// dataPullRound agrees on the externally observed betting data. Majority is
// voted per field, not per whole payload: transient network differences may
// split agents on one field while the others are unanimous.
type dataPullRound struct {
	baseRound
}

func NewDataPullRound(agents *types.AgentSet, period state.PeriodState) Round {
	return &dataPullRound{
		baseRound: newBaseRound(types.DataPullRound, agents, period),
	}
}

func (r *dataPullRound) TryResolve() (types.Event, bool) {
	if r.resolved {
		return types.EventNone, false
	}
	if !r.hasQuorum() {
		return types.EventNone, false
	}

	result, okResult := r.majorityBool(func(p *types.DataPullPayload) bool { return p.BettingResult })
	ipfsHash, okHash := r.majorityHash()
	placed, okPlaced := r.majorityBool(func(p *types.DataPullPayload) bool { return p.HasPlacedBet })

	if !okResult || !okHash || !okPlaced {
		if r.majoritiesAttainable() {
			// a pending payload can still tip every split field over the
			// bar; keep collecting
			return types.EventNone, false
		}
		r.resolved = true
		r.logger.Info("quorum without per-field majority", "round", r.id,
			"result_ok", okResult, "hash_ok", okHash, "placed_ok", okPlaced)
		return types.EventNoMajority, true
	}
	r.resolved = true

	next := r.period.Next(r.id)
	next.BettingResult = result
	next.BettingIPFSHash = ipfsHash
	next.HasPlacedBet = placed
	next.SetOutput(r.id, &types.DataPullPayload{
		PayloadBase:     types.PayloadBase{Round: r.id},
		BettingResult:   result,
		BettingIPFSHash: ipfsHash,
		HasPlacedBet:    placed,
	})
	r.output = &next

	return types.EventDone, true
}

// majorityBool resolves one boolean field: whichever value strictly more
// than half of all participants voted for, if any.
func (r *dataPullRound) majorityBool(field func(*types.DataPullPayload) bool) (bool, bool) {
	countTrue, countFalse := r.boolCounts(field)

	threshold := r.agents.MajorityThreshold()
	switch {
	case countTrue > threshold:
		return true, true
	case countFalse > threshold:
		return false, true
	default:
		return false, false
	}
}

func (r *dataPullRound) boolCounts(field func(*types.DataPullPayload) bool) (int, int) {
	countTrue := r.payloads.CountMatching(func(p types.Payload) bool {
		dp, ok := p.(*types.DataPullPayload)
		return ok && field(dp)
	})
	countFalse := r.payloads.CountMatching(func(p types.Payload) bool {
		dp, ok := p.(*types.DataPullPayload)
		return ok && !field(dp)
	})
	return countTrue, countFalse
}

func (r *dataPullRound) majorityHash() (string, bool) {
	threshold := r.agents.MajorityThreshold()
	for hash, count := range r.hashCounts() {
		if count > threshold {
			return hash, true
		}
	}
	return "", false
}

func (r *dataPullRound) hashCounts() map[string]int {
	counts := make(map[string]int)
	for _, p := range r.payloads.List() {
		if dp, ok := p.(*types.DataPullPayload); ok {
			counts[dp.BettingIPFSHash]++
		}
	}
	return counts
}

// majoritiesAttainable reports whether every split field could still reach
// a majority once the pending agents submit.
func (r *dataPullRound) majoritiesAttainable() bool {
	for _, field := range []func(*types.DataPullPayload) bool{
		func(p *types.DataPullPayload) bool { return p.BettingResult },
		func(p *types.DataPullPayload) bool { return p.HasPlacedBet },
	} {
		countTrue, countFalse := r.boolCounts(field)
		best := countTrue
		if countFalse > best {
			best = countFalse
		}
		if !r.attainable(best) {
			return false
		}
	}

	best := 0
	for _, count := range r.hashCounts() {
		if count > best {
			best = count
		}
	}
	return r.attainable(best)
}
