package consensus

import (
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabubAlahi/final-assignment-service/types"
)

func TestRoundClockFires(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	clock := NewRoundClock()
	clock.SetLogger(sequenceLogger())
	require.NoError(t, clock.Start())
	defer func() {
		require.NoError(t, clock.Stop())
	}()

	clock.ScheduleTimeout(timeoutInfo{
		Duration: 20 * time.Millisecond,
		Round:    types.DataPullRound,
		Instance: 1,
	})

	select {
	case ti := <-clock.Chan():
		assert.Equal(t, types.DataPullRound, ti.Round)
		assert.EqualValues(t, 1, ti.Instance)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout never fired")
	}
}

func TestRoundClockRescheduleReplacesDeadline(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	clock := NewRoundClock()
	clock.SetLogger(sequenceLogger())
	require.NoError(t, clock.Start())
	defer func() {
		require.NoError(t, clock.Stop())
	}()

	clock.ScheduleTimeout(timeoutInfo{
		Duration: 10 * time.Second,
		Round:    types.DataPullRound,
		Instance: 1,
	})
	// give the routine a beat to arm the first deadline before replacing it
	time.Sleep(20 * time.Millisecond)
	clock.ScheduleTimeout(timeoutInfo{
		Duration: 20 * time.Millisecond,
		Round:    types.DecisionMakingRound,
		Instance: 2,
	})

	select {
	case ti := <-clock.Chan():
		// the replaced 10s deadline must never be the one that fires
		assert.Equal(t, types.DecisionMakingRound, ti.Round)
		assert.EqualValues(t, 2, ti.Instance)
	case <-time.After(2 * time.Second):
		t.Fatal("replacement timeout never fired")
	}
}
