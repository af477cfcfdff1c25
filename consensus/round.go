package consensus

import (
	"errors"
	"fmt"

	cstypes "github.com/mahabubAlahi/final-assignment-service/consensus/types"
	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	ErrUnknownAgent = errors.New("payload sender is not a participant")
	ErrBadSignature = errors.New("payload signature verification failed")
)

// Round is one stage of the sequence: it validates and collects payloads
// from all agents and, once the quorum condition allows, resolves to exactly
// one event. The sequence controller instantiates a round on entry and
// drops it on exit.
//
// The set of rounds is closed; dispatch is explicit via the transition
// table, not inheritance.
type Round interface {
	ID() types.RoundID

	// Collect validates and records one agent's payload. Rejections are
	// reported to the caller and logged, never fatal: the round keeps
	// waiting for the remaining agents.
	Collect(payload types.Payload) error

	// TryResolve computes the outcome event if the round can complete with
	// the payloads collected so far. It is pure over the payload set and
	// idempotent until the first true result.
	TryResolve() (types.Event, bool)

	// Output returns the successor period snapshot produced on resolution.
	// It is nil until TryResolve has returned true, and stays nil for
	// NO_MAJORITY resolutions, which repeat the round without finalizing
	// anything.
	Output() *state.PeriodState

	SetLogger(logger log.Logger)
}

// NewRound instantiates the round variant for an identity. Terminal
// identities have no round object; the controller checks IsTerminal before
// calling.
func NewRound(id types.RoundID, agents *types.AgentSet, period state.PeriodState) (Round, error) {
	switch id {
	case types.DataPullRound:
		return NewDataPullRound(agents, period), nil
	case types.DecisionMakingRound:
		return NewDecisionMakingRound(agents, period), nil
	case types.TxPreparationRound:
		return NewTxPreparationRound(agents, period), nil
	default:
		return nil, fmt.Errorf("no round variant for %v", id)
	}
}

// baseRound holds the pieces every variant shares: the participant set, the
// entry-time period snapshot and the payload accumulator.
type baseRound struct {
	id       types.RoundID
	agents   *types.AgentSet
	period   state.PeriodState
	payloads *cstypes.PayloadSet

	resolved bool
	output   *state.PeriodState

	logger log.Logger
}

func newBaseRound(id types.RoundID, agents *types.AgentSet, period state.PeriodState) baseRound {
	return baseRound{
		id:       id,
		agents:   agents,
		period:   period,
		payloads: cstypes.NewPayloadSet(id),
		logger:   log.NewNopLogger(),
	}
}

func (r *baseRound) ID() types.RoundID          { return r.id }
func (r *baseRound) Output() *state.PeriodState { return r.output }

func (r *baseRound) SetLogger(logger log.Logger) {
	r.logger = logger
}

// Collect implements the shared validation pipeline: schema, membership,
// signature, then accumulation.
func (r *baseRound) Collect(payload types.Payload) error {
	if payload == nil {
		return cstypes.ErrNilPayload
	}
	if payload.Kind() != r.id {
		return cstypes.ErrWrongRound
	}
	if err := payload.ValidateBasic(); err != nil {
		return err
	}

	agent := r.agents.GetByAddress(payload.GetSender())
	if agent == nil {
		return ErrUnknownAgent
	}
	if !agent.PubKey.VerifySignature(payload.SignBytes(r.period.ChainID), payload.GetSignature()) {
		return ErrBadSignature
	}

	return r.payloads.Add(payload)
}

// hasQuorum is the shared strictly-more-than-2/3 gate.
func (r *baseRound) hasQuorum() bool {
	return r.payloads.HasQuorum(r.agents.QuorumThreshold())
}

// majority reports whether strictly more than half of all participants
// submitted a payload matching the predicate.
func (r *baseRound) majority(pred func(types.Payload) bool) bool {
	return r.payloads.CountMatching(pred) > r.agents.MajorityThreshold()
}

// pendingAgents is how many participants have not submitted yet.
func (r *baseRound) pendingAgents() int {
	return r.agents.Size() - r.payloads.Size()
}

// attainable reports whether a value with bestCount supporters can still
// clear the majority bar if the pending agents line up behind it. While it
// holds, a round at quorum keeps collecting instead of resolving
// NO_MAJORITY: a standing majority must never be lost to arrival order.
func (r *baseRound) attainable(bestCount int) bool {
	return bestCount+r.pendingAgents() > r.agents.MajorityThreshold()
}
