package consensus

import (
	"fmt"
	"time"

	"github.com/mahabubAlahi/final-assignment-service/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/libs/service"
)

var (
	tickTockBufferSize = 10
)

// timeoutInfo stamps a deadline with the round instance it belongs to.
// Stale instances are dropped by the controller, which is what makes
// cancellation-on-completion work: a timer that fires after the round has
// advanced can never force a spurious ROUND_TIMEOUT.
type timeoutInfo struct {
	Duration time.Duration `json:"duration"`
	Round    types.RoundID `json:"round"`
	Instance uint64        `json:"instance"`
}

func (ti timeoutInfo) String() string {
	return fmt.Sprintf("%v ; %v/%d", ti.Duration, ti.Round, ti.Instance)
}

// RoundClock schedules one deadline per round entry. Scheduling a new
// timeout replaces any pending one.
type RoundClock interface {
	Start() error
	Stop() error
	Chan() <-chan timeoutInfo
	ScheduleTimeout(ti timeoutInfo)
	SetLogger(logger log.Logger)
}

// timeoutTicker drives a single time.Timer through a scheduling goroutine,
// so that Reset/Stop races are confined to one place.
type timeoutTicker struct {
	service.BaseService

	timer    *time.Timer
	tickChan chan timeoutInfo // for scheduling timeouts
	tockChan chan timeoutInfo // for notifying about them
}

func NewRoundClock() RoundClock {
	tt := &timeoutTicker{
		timer:    time.NewTimer(0),
		tickChan: make(chan timeoutInfo, tickTockBufferSize),
		tockChan: make(chan timeoutInfo, tickTockBufferSize),
	}
	tt.BaseService = *service.NewBaseService(nil, "RoundClock", tt)
	tt.stopTimer()
	return tt
}

func (t *timeoutTicker) OnStart() error {
	go t.timeoutRoutine()
	return nil
}

func (t *timeoutTicker) OnStop() {
	t.BaseService.OnStop()
	t.stopTimer()
}

func (t *timeoutTicker) Chan() <-chan timeoutInfo {
	return t.tockChan
}

// ScheduleTimeout never blocks: the timeoutRoutine owns the timer and picks
// the tick up from its buffered channel.
func (t *timeoutTicker) ScheduleTimeout(ti timeoutInfo) {
	t.tickChan <- ti
}

// stop the timer and drain if necessary
func (t *timeoutTicker) stopTimer() {
	if !t.timer.Stop() {
		select {
		case <-t.timer.C:
		default:
		}
	}
}

// timeoutRoutine is the single owner of the timer. A new tick always
// replaces the pending deadline.
func (t *timeoutTicker) timeoutRoutine() {
	t.Logger.Debug("starting timeout routine")
	var ti timeoutInfo
	for {
		select {
		case newti := <-t.tickChan:
			t.Logger.Debug("received tick", "old_ti", ti, "new_ti", newti)

			ti = newti
			t.stopTimer()
			t.timer.Reset(ti.Duration)
			t.Logger.Debug("scheduled timeout", "duration", ti.Duration, "round", ti.Round, "instance", ti.Instance)

		case <-t.timer.C:
			t.Logger.Info("timed out", "duration", ti.Duration, "round", ti.Round, "instance", ti.Instance)
			// go routine here guarantees timeoutRoutine doesn't block on
			// a slow receiver. The controller discards stale instances,
			// so out-of-order delivery of an old tock is harmless.
			go func(toi timeoutInfo) { t.tockChan <- toi }(ti)

		case <-t.Quit():
			return
		}
	}
}
