package consensus

import (
	"errors"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tmdb "github.com/tendermint/tm-db"

	"github.com/mahabubAlahi/final-assignment-service/privval"
	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

type stubProducer struct {
	fn func(round types.RoundID, period state.PeriodState) (types.Payload, error)
}

func (s stubProducer) Produce(round types.RoundID, period state.PeriodState) (types.Payload, error) {
	return s.fn(round, period)
}

func abstainProducer() stubProducer {
	return stubProducer{fn: func(types.RoundID, state.PeriodState) (types.Payload, error) {
		return nil, errors.New("abstaining")
	}}
}

type fixedSyncClock struct {
	t time.Time
}

func (c fixedSyncClock) Now() time.Time { return c.t }

func addrOf(priv types.PrivAgent) types.Address {
	return priv.(*privval.FilePV).GetAddress()
}

// A single-agent fleet resolves every round with its own payload, which
// makes the full cycle deterministic to drive in-process.
func TestSequenceHappyPathToFinishedTxPreparation(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	privs, agents := newAgentFleet(1)
	addr := addrOf(privs[0])

	tx := types.PreparedTx{
		Type:  types.TxTypeTransfer,
		To:    "0x2222222222222222222222222222222222222222",
		Value: 1,
	}
	producer := stubProducer{fn: func(round types.RoundID, period state.PeriodState) (types.Payload, error) {
		switch round {
		case types.DataPullRound:
			return types.NewDataPullPayload(addr, true, "hash-a", false), nil
		case types.DecisionMakingRound:
			return types.NewDecisionMakingPayload(addr, types.EventTransact), nil
		default:
			return types.NewTxPreparationPayload(addr, tx), nil
		}
	}}

	syncTime := time.Unix(1700000101, 0)
	store := state.NewStore(tmdb.NewMemDB())

	rs := NewRoundSequence(testChainID, agents, privs[0], producer, testPeriod(),
		SetRoundTimeout(5*time.Second),
		SetSyncClock(fixedSyncClock{syncTime}),
		SetStateStore(store),
	)
	rs.SetLogger(sequenceLogger().With("agent", 0))

	require.NoError(t, rs.Start())
	defer func() {
		require.NoError(t, rs.Stop())
	}()

	waitFor(t, 5*time.Second, rs.IsFinished, "sequence to reach a terminal round")

	assert.Equal(t, types.FinishedTxPreparationRound, rs.RoundID())

	period := rs.Period()
	assert.Equal(t, int64(3), period.Version)
	assert.True(t, period.BettingResult)
	assert.Equal(t, "hash-a", period.BettingIPFSHash)
	assert.False(t, period.HasPlacedBet)
	assert.Equal(t, types.EventTransact, period.DecisionEvent)
	assert.Equal(t, tx.Hash().String(), period.MostVotedTxHash)
	assert.True(t, period.LastTransitionTime.Equal(syncTime), "transition time must come from the sync clock")

	// every finalized snapshot was persisted
	latest, found, err := store.LoadLatest()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(3), latest.Version)
	for version := int64(1); version <= 3; version++ {
		_, found, err := store.LoadSnapshot(version)
		require.NoError(t, err)
		assert.Truef(t, found, "snapshot %d must be persisted", version)
	}
}

// An abstaining agent can never resolve the round; the deadline must loop
// it back into a fresh instance of the same round.
func TestSequenceTimeoutReEntersRound(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	privs, agents := newAgentFleet(1)

	rs := NewRoundSequence(testChainID, agents, privs[0], abstainProducer(), testPeriod(),
		SetRoundTimeout(30*time.Millisecond),
	)
	rs.SetLogger(sequenceLogger().With("agent", 0))

	require.NoError(t, rs.Start())
	defer func() {
		require.NoError(t, rs.Stop())
	}()

	waitFor(t, 5*time.Second, func() bool { return rs.Instance() >= 3 }, "repeated timeout re-entries")

	assert.Equal(t, types.DataPullRound, rs.RoundID())
	assert.Equal(t, int64(0), rs.Period().Version, "timeouts must not finalize state")
}

// Re-delivery of a completion signal carries a stale instance stamp and
// must not move the sequence a second time.
func TestSequenceDuplicateTransitionIsDropped(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	privs, agents := newAgentFleet(4)

	rs := NewRoundSequence(testChainID, agents, privs[0], abstainProducer(), testPeriod(),
		SetRoundTimeout(time.Minute),
	)
	rs.SetLogger(sequenceLogger().With("agent", 0))

	require.NoError(t, rs.Start())
	defer func() {
		require.NoError(t, rs.Stop())
	}()

	require.Equal(t, types.DataPullRound, rs.RoundID())
	firstInstance := rs.Instance()

	msg := &TransitionMessage{
		Event:    types.EventDone,
		Round:    types.DataPullRound,
		Instance: firstInstance,
	}
	rs.applyTransition(msg)

	assert.Equal(t, types.DecisionMakingRound, rs.RoundID())
	assert.Equal(t, firstInstance+1, rs.Instance())

	rs.applyTransition(msg)

	assert.Equal(t, types.DecisionMakingRound, rs.RoundID(), "duplicate must not advance the round")
	assert.Equal(t, firstInstance+1, rs.Instance())
}

// Peer payloads delivered through the queue must drive the local sequence
// even when the local agent abstains.
func TestSequenceResolvesFromPeerPayloads(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	privs, agents := newAgentFleet(4)

	rs := NewRoundSequence(testChainID, agents, privs[0], abstainProducer(), testPeriod(),
		SetRoundTimeout(time.Minute),
	)
	rs.SetLogger(sequenceLogger().With("agent", 0))

	require.NoError(t, rs.Start())
	defer func() {
		require.NoError(t, rs.Stop())
	}()

	for _, priv := range privs[1:] {
		payload := signPayload(priv, types.NewDataPullPayload(addrOf(priv), true, "hash-a", true))
		rs.peerMsgQueue <- msgInfo{&PayloadMessage{Payload: payload}, "peer-1"}
	}

	waitFor(t, 5*time.Second, func() bool { return rs.RoundID() == types.DecisionMakingRound },
		"quorum of peer payloads to advance the round")

	period := rs.Period()
	assert.Equal(t, int64(1), period.Version)
	assert.True(t, period.BettingResult)
	assert.True(t, period.HasPlacedBet)

	for _, priv := range privs[1:] {
		payload := signPayload(priv, types.NewDecisionMakingPayload(addrOf(priv), types.EventDone))
		rs.peerMsgQueue <- msgInfo{&PayloadMessage{Payload: payload}, "peer-1"}
	}

	waitFor(t, 5*time.Second, rs.IsFinished, "decision DONE to finish the sequence")
	assert.Equal(t, types.FinishedDecisionMakingRound, rs.RoundID())
}
