package consensus

import (
	"sync"

	jsoniter "github.com/json-iterator/go"
	gometrics "github.com/rcrowley/go-metrics"

	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

func newSequenceMetric() *sequenceMetric {
	return &sequenceMetric{
		Round:             types.DataPullRound.String(),
		roundExits:        gometrics.GetOrRegisterCounter("sequence.round_exits", nil),
		timeouts:          gometrics.GetOrRegisterCounter("sequence.round_timeouts", nil),
		noMajorities:      gometrics.GetOrRegisterCounter("sequence.no_majorities", nil),
		collectedPayloads: gometrics.GetOrRegisterCounter("sequence.collected_payloads", nil),
		rejectedPayloads:  gometrics.GetOrRegisterCounter("sequence.rejected_payloads", nil),
	}
}

// sequenceMetric is the rpc-visible snapshot of the sequence, plus counters
// in the process-wide go-metrics registry.
type sequenceMetric struct {
	mtx sync.Mutex

	Round         string `json:"current_round"`
	Instance      uint64 `json:"round_instance"`
	PeriodVersion int64  `json:"period_version"`
	LastEvent     string `json:"last_event"`
	Finished      bool   `json:"finished"`

	CollectedPayloads int64 `json:"collected_payloads"`
	RejectedPayloads  int64 `json:"rejected_payloads"`
	Timeouts          int64 `json:"round_timeouts"`

	roundExits        gometrics.Counter
	timeouts          gometrics.Counter
	noMajorities      gometrics.Counter
	collectedPayloads gometrics.Counter
	rejectedPayloads  gometrics.Counter
}

func (sm *sequenceMetric) JSONString() string {
	sm.mtx.Lock()
	defer sm.mtx.Unlock()
	s, _ := jsoniter.MarshalToString(sm)
	return s
}

func (sm *sequenceMetric) MarkRound(id types.RoundID, instance uint64) {
	sm.mtx.Lock()
	defer sm.mtx.Unlock()
	sm.Round = id.String()
	sm.Instance = instance
	sm.Finished = id.IsTerminal()
}

func (sm *sequenceMetric) MarkRoundExit(event types.Event) {
	sm.mtx.Lock()
	sm.LastEvent = event.String()
	sm.mtx.Unlock()

	sm.roundExits.Inc(1)
	if event == types.EventNoMajority {
		sm.noMajorities.Inc(1)
	}
}

func (sm *sequenceMetric) MarkPeriod(ps state.PeriodState) {
	sm.mtx.Lock()
	defer sm.mtx.Unlock()
	sm.PeriodVersion = ps.Version
}

func (sm *sequenceMetric) MarkTimeout() {
	sm.mtx.Lock()
	sm.Timeouts++
	sm.mtx.Unlock()

	sm.timeouts.Inc(1)
}

func (sm *sequenceMetric) MarkCollected() {
	sm.mtx.Lock()
	sm.CollectedPayloads++
	sm.mtx.Unlock()

	sm.collectedPayloads.Inc(1)
}

func (sm *sequenceMetric) MarkRejectedPayload() {
	sm.mtx.Lock()
	sm.RejectedPayloads++
	sm.mtx.Unlock()

	sm.rejectedPayloads.Inc(1)
}
