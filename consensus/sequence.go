package consensus

import (
	"fmt"
	"sync"
	"time"

	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
	"github.com/tendermint/tendermint/libs/events"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/libs/service"
	"github.com/tendermint/tendermint/p2p"
)

const (
	defaultRoundTimeout = 30 * time.Second
)

// PayloadProducer computes this agent's local contribution for a round:
// fetch data, persist it, read the contract, or build the transaction.
// Implemented by the behaviour package; swapped for a stub in tests.
type PayloadProducer interface {
	Produce(round types.RoundID, period state.PeriodState) (types.Payload, error)
}

// SyncClock reports the synchronized time agreed through the consensus
// substrate. Round logic must never branch on the local wall-clock, or
// agents would disagree on time-dependent branches.
type SyncClock interface {
	Now() time.Time
}

// RoundSequence drives the active round: it collects delivered payloads,
// enforces the per-round timeout, resolves rounds into events and advances
// through the transition table until a terminal round is reached.
type RoundSequence struct {
	service.BaseService

	chainID      string
	roundTimeout time.Duration

	agents    *types.AgentSet
	privVal   types.PrivAgent
	localAddr types.Address

	producer   PayloadProducer
	syncClock  SyncClock
	stateStore *state.Store

	// sequence-internal state, guarded by mtx: the single receive routine
	// is the only writer of the payload set by construction.
	mtx      sync.Mutex
	roundID  types.RoundID
	round    Round // nil once a terminal round is reached
	instance uint64
	period   state.PeriodState

	clock RoundClock

	peerMsgQueue     chan msgInfo
	internalMsgQueue chan msgInfo
	eventMsgQueue    chan msgInfo
	eventSwitch      events.EventSwitch

	// overridable for tests
	producePayload func(round types.RoundID, instance uint64, period state.PeriodState)

	metric *sequenceMetric
}

type SequenceOption func(*RoundSequence)

func NewRoundSequence(
	chainID string,
	agents *types.AgentSet,
	privVal types.PrivAgent,
	producer PayloadProducer,
	period state.PeriodState,
	options ...SequenceOption,
) *RoundSequence {
	rs := &RoundSequence{
		chainID:          chainID,
		roundTimeout:     defaultRoundTimeout,
		agents:           agents,
		privVal:          privVal,
		producer:         producer,
		syncClock:        wallSyncClock{},
		roundID:          types.DataPullRound,
		period:           period,
		clock:            NewRoundClock(),
		peerMsgQueue:     make(chan msgInfo),
		internalMsgQueue: make(chan msgInfo),
		eventMsgQueue:    make(chan msgInfo),
		eventSwitch:      events.NewEventSwitch(),
		metric:           newSequenceMetric(),
	}
	rs.BaseService = *service.NewBaseService(nil, "SEQUENCE", rs)
	rs.producePayload = rs.defaultProducePayload

	if pub, err := privVal.GetPubKey(); err == nil {
		rs.localAddr = pub.Address()
	}

	for _, opt := range options {
		opt(rs)
	}

	return rs
}

func SetRoundTimeout(d time.Duration) SequenceOption {
	return func(rs *RoundSequence) {
		if d > 0 {
			rs.roundTimeout = d
		}
	}
}

func SetSyncClock(clock SyncClock) SequenceOption {
	return func(rs *RoundSequence) {
		rs.syncClock = clock
	}
}

func SetStateStore(store *state.Store) SequenceOption {
	return func(rs *RoundSequence) {
		rs.stateStore = store
	}
}

func (rs *RoundSequence) SetLogger(logger log.Logger) {
	rs.Logger = logger
	if rs.clock != nil {
		rs.clock.SetLogger(logger.With("module", "clock"))
	}
}

func (rs *RoundSequence) OnStart() error {
	if err := rs.eventSwitch.Start(); err != nil {
		return err
	}
	if err := rs.clock.Start(); err != nil {
		return err
	}

	go rs.receiveRoutine()
	go rs.receiveEventRoutine()

	rs.mtx.Lock()
	rs.enterRound(types.DataPullRound)
	rs.mtx.Unlock()

	rs.Logger.Info("round sequence started", "initial_round", types.DataPullRound)
	return nil
}

func (rs *RoundSequence) OnStop() {
	if err := rs.eventSwitch.Stop(); err != nil {
		rs.Logger.Error("failed trying to stop eventSwitch", "error", err)
	}
	if err := rs.clock.Stop(); err != nil {
		rs.Logger.Error("failed trying to stop round clock", "error", err)
	}
	rs.Logger.Info("round sequence stopped.")
}

// ----- accessors -----

func (rs *RoundSequence) RoundID() types.RoundID {
	rs.mtx.Lock()
	defer rs.mtx.Unlock()
	return rs.roundID
}

func (rs *RoundSequence) Instance() uint64 {
	rs.mtx.Lock()
	defer rs.mtx.Unlock()
	return rs.instance
}

func (rs *RoundSequence) Period() state.PeriodState {
	rs.mtx.Lock()
	defer rs.mtx.Unlock()
	return rs.period.Copy()
}

// IsFinished reports whether a terminal round has been reached.
func (rs *RoundSequence) IsFinished() bool {
	rs.mtx.Lock()
	defer rs.mtx.Unlock()
	return rs.roundID.IsTerminal()
}

func (rs *RoundSequence) Metric() *sequenceMetric {
	return rs.metric
}

// Reset restarts the cycle from DataPullRound with the current period
// state. The surrounding deployment policy decides when to call it.
func (rs *RoundSequence) Reset() {
	rs.mtx.Lock()
	defer rs.mtx.Unlock()
	rs.Logger.Info("resetting round sequence", "from", rs.roundID)
	rs.enterRound(types.DataPullRound)
}

// ----- routines -----

// receiveRoutine funnels every external input into handleMsg/handleTimeout.
// It is the single writer of the active round's payload set.
func (rs *RoundSequence) receiveRoutine() {
	rs.Logger.Debug("sequence receive routine starts.")
	for {
		select {
		case <-rs.Quit():
			rs.Logger.Info("receiveRoutine quit.")
			return

		case mi := <-rs.peerMsgQueue:
			rs.handleMsg(mi)

		case mi := <-rs.internalMsgQueue:
			rs.handleMsg(mi)

		case ti := <-rs.clock.Chan():
			rs.Logger.Debug("received timeout event", "timeout", ti)
			rs.handleTimeout(ti)
		}
	}
}

// receiveEventRoutine applies round-exit events to the transition table.
func (rs *RoundSequence) receiveEventRoutine() {
	for {
		select {
		case <-rs.Quit():
			rs.Logger.Info("receiveEventRoutine quit.")
			return
		case mi := <-rs.eventMsgQueue:
			if err := mi.Msg.ValidateBasic(); err != nil {
				rs.Logger.Error("internal event validated failed", "err", err)
				continue
			}
			rs.applyTransition(mi.Msg.(*TransitionMessage))
		}
	}
}

// handleMsg feeds one delivered payload into the active round and resolves
// the round if the quorum condition allows. A rejected payload is reported
// and dropped; the round keeps waiting for the other agents.
func (rs *RoundSequence) handleMsg(mi msgInfo) {
	rs.mtx.Lock()
	defer rs.mtx.Unlock()

	msg, ok := mi.Msg.(*PayloadMessage)
	if !ok {
		rs.Logger.Error("unknown message type", "msg", mi.Msg)
		return
	}

	if rs.round == nil {
		rs.Logger.Debug("payload delivered after terminal round, dropping", "payload", msg.Payload)
		return
	}

	if err := rs.round.Collect(msg.Payload); err != nil {
		rs.metric.MarkRejectedPayload()
		rs.Logger.Info("payload rejected", "err", err, "payload", msg.Payload, "peer", mi.PeerID)
		return
	}

	rs.Logger.Debug("payload collected", "round", rs.roundID, "payload", msg.Payload)
	rs.metric.MarkCollected()

	// own payloads are rebroadcast through the reactor once accepted
	if mi.PeerID == "" {
		rs.eventSwitch.FireEvent(EventNewPayload, msg.Payload)
	}

	if event, resolved := rs.round.TryResolve(); resolved {
		rs.sendEventMessage(msgInfo{&TransitionMessage{
			Event:    event,
			Round:    rs.roundID,
			Instance: rs.instance,
		}, ""})
	}
}

// handleTimeout turns a fired deadline into a ROUND_TIMEOUT transition.
// Deadlines stamped with an older instance were cancelled by an earlier
// completion and are dropped here.
func (rs *RoundSequence) handleTimeout(ti timeoutInfo) {
	rs.mtx.Lock()
	current := rs.instance
	rs.mtx.Unlock()

	if ti.Instance != current {
		rs.Logger.Debug("stale timeout, dropping", "timeout", ti, "instance", current)
		return
	}

	rs.metric.MarkTimeout()
	rs.sendEventMessage(msgInfo{&TransitionMessage{
		Event:    types.EventRoundTimeout,
		Round:    ti.Round,
		Instance: ti.Instance,
	}, ""})
}

// applyTransition performs the exactly-once swap of round and period state.
// Duplicate or expired completion signals carry a stale instance and are
// discarded before any state changes.
func (rs *RoundSequence) applyTransition(msg *TransitionMessage) {
	rs.mtx.Lock()
	defer rs.mtx.Unlock()

	if msg.Instance != rs.instance || msg.Round != rs.roundID {
		rs.Logger.Info("received expired transition event", "event", msg, "round", rs.roundID, "instance", rs.instance)
		return
	}

	next, err := NextRound(rs.roundID, msg.Event)
	if err != nil {
		rs.Logger.Error("transition lookup failed", "err", err)
		return
	}

	rs.Logger.Info("round exit", "round", rs.roundID, "event", msg.Event, "next", next)

	// adopt the finalized snapshot, if the round produced one
	if rs.round != nil {
		if out := rs.round.Output(); out != nil {
			adopted := out.Copy()
			adopted.LastTransitionTime = rs.syncClock.Now()
			rs.period = adopted
			rs.metric.MarkPeriod(adopted)

			if rs.stateStore != nil {
				if err := rs.stateStore.SaveSnapshot(adopted); err != nil {
					rs.Logger.Error("failed to persist period snapshot", "err", err, "version", adopted.Version)
				}
			}
		}
	}

	rs.metric.MarkRoundExit(msg.Event)
	rs.enterRound(next)
}

// enterRound instantiates the round for an identity with the current period
// snapshot, arms its timeout and kicks off the local payload work. Entering
// a terminal identity parks the sequence instead.
//
// Callers must hold mtx.
func (rs *RoundSequence) enterRound(id types.RoundID) {
	rs.instance++
	rs.roundID = id
	rs.metric.MarkRound(id, rs.instance)

	if id.IsTerminal() {
		rs.round = nil
		rs.Logger.Info("sequence reached terminal round", "round", id, "period_version", rs.period.Version)
		rs.eventSwitch.FireEvent(EventSequenceFinished, id)
		return
	}

	round, err := NewRound(id, rs.agents, rs.period)
	if err != nil {
		panic(fmt.Sprintf("entering unknown round: %v", err))
	}
	round.SetLogger(rs.Logger.With("round", id))
	rs.round = round

	rs.clock.ScheduleTimeout(timeoutInfo{
		Duration: rs.roundTimeout,
		Round:    id,
		Instance: rs.instance,
	})

	go rs.producePayload(id, rs.instance, rs.period.Copy())
}

// defaultProducePayload runs this agent's behaviour for the round, signs the
// result and feeds it back through the internal queue. On failure the agent
// simply abstains: it contributes no payload rather than a poisoned one.
func (rs *RoundSequence) defaultProducePayload(round types.RoundID, instance uint64, period state.PeriodState) {
	payload, err := rs.producer.Produce(round, period)
	if err != nil {
		rs.Logger.Error("behaviour failed, abstaining for this round", "round", round, "instance", instance, "err", err)
		return
	}

	if err := rs.privVal.SignPayload(rs.chainID, payload); err != nil {
		rs.Logger.Error("sign payload failed", "round", round, "err", err)
		return
	}

	rs.sendInternalMessage(msgInfo{&PayloadMessage{Payload: payload}, ""})
}

// ----- queue plumbing -----

// sendEventMessage must not block the caller even when the event routine is
// busy.
func (rs *RoundSequence) sendEventMessage(mi msgInfo) {
	select {
	case rs.eventMsgQueue <- mi:
	default:
		go func() { rs.eventMsgQueue <- mi }()
	}
}

func (rs *RoundSequence) sendInternalMessage(mi msgInfo) {
	select {
	case rs.internalMsgQueue <- mi:
	default:
		rs.Logger.Debug("internal msg queue is full; using a go-routine")
		go func() { rs.internalMsgQueue <- mi }()
	}
}

// wallSyncClock is the stand-in synchronized clock at the substrate
// boundary; deployments plug the substrate's block time in through
// SetSyncClock.
type wallSyncClock struct{}

func (wallSyncClock) Now() time.Time { return time.Now() }

// ----- MsgInfo -----

type msgInfo struct {
	Msg    Message
	PeerID p2p.ID
}

// TransitionMessage is the completion signal of one round instance. It is
// consumed exactly once; re-delivery is detected by the instance stamp.
type TransitionMessage struct {
	Event    types.Event   `json:"event"`
	Round    types.RoundID `json:"round"`
	Instance uint64        `json:"instance"`
}

func (msg *TransitionMessage) ValidateBasic() error {
	if msg.Event == types.EventNone {
		return fmt.Errorf("transition carries no event")
	}
	return nil
}

func (msg *TransitionMessage) String() string {
	return fmt.Sprintf("[Transition %v/%d %v]", msg.Round, msg.Instance, msg.Event)
}
