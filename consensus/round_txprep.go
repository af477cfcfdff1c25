package consensus

import (
	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

// txPreparationRound agrees on the concrete transaction to submit. The
// agreement predicate covers the transaction type and the encoded bytes;
// agents that derived a different branch or different call data never form
// a majority together.
type txPreparationRound struct {
	baseRound
}

func NewTxPreparationRound(agents *types.AgentSet, period state.PeriodState) Round {
	return &txPreparationRound{
		baseRound: newBaseRound(types.TxPreparationRound, agents, period),
	}
}

func (r *txPreparationRound) TryResolve() (types.Event, bool) {
	if r.resolved {
		return types.EventNone, false
	}
	if !r.hasQuorum() {
		return types.EventNone, false
	}

	winner, ok := r.majorityTx()
	if !ok {
		if r.attainable(r.bestTxCount()) {
			// a pending payload can still tip the vote; keep collecting
			return types.EventNone, false
		}
		r.resolved = true
		r.logger.Info("quorum without tx majority", "round", r.id)
		return types.EventNoMajority, true
	}
	r.resolved = true

	next := r.period.Next(r.id)
	next.MostVotedTxHash = winner.Hash().String()
	next.SetOutput(r.id, &types.TxPreparationPayload{
		PayloadBase: types.PayloadBase{Round: r.id},
		Tx:          winner,
	})
	r.output = &next

	return types.EventDone, true
}

// majorityTx walks the deterministic payload order and returns the first
// transaction strictly more than half of all participants submitted.
func (r *txPreparationRound) majorityTx() (types.PreparedTx, bool) {
	threshold := r.agents.MajorityThreshold()
	for _, p := range r.payloads.List() {
		tp, ok := p.(*types.TxPreparationPayload)
		if !ok {
			continue
		}
		count := r.payloads.CountMatching(func(other types.Payload) bool {
			otp, ok := other.(*types.TxPreparationPayload)
			return ok && otp.Tx.Equal(tp.Tx)
		})
		if count > threshold {
			return tp.Tx, true
		}
	}
	return types.PreparedTx{}, false
}

func (r *txPreparationRound) bestTxCount() int {
	best := 0
	for _, p := range r.payloads.List() {
		tp, ok := p.(*types.TxPreparationPayload)
		if !ok {
			continue
		}
		count := r.payloads.CountMatching(func(other types.Payload) bool {
			otp, ok := other.(*types.TxPreparationPayload)
			return ok && otp.Tx.Equal(tp.Tx)
		})
		if count > best {
			best = count
		}
	}
	return best
}
