package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tmdb "github.com/tendermint/tm-db"

	"github.com/mahabubAlahi/final-assignment-service/types"
)

func TestStoreSaveAndLoad(t *testing.T) {
	store := NewStore(tmdb.NewMemDB())

	_, found, err := store.LoadLatest()
	require.NoError(t, err)
	assert.False(t, found, "fresh store must be empty")

	ps := NewPeriodState("STORE_TEST", time.Unix(1700000000, 0))
	v1 := ps.Next(types.DataPullRound)
	v1.BettingResult = true
	v1.BettingIPFSHash = "hash-a"
	v1.SetOutput(types.DataPullRound, types.NewDataPullPayload(nil, true, "hash-a", false))
	require.NoError(t, store.SaveSnapshot(v1))

	v2 := v1.Next(types.DecisionMakingRound)
	v2.DecisionEvent = types.EventTransact
	require.NoError(t, store.SaveSnapshot(v2))

	latest, found, err := store.LoadLatest()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), latest.Version)
	assert.Equal(t, types.EventTransact, latest.DecisionEvent)
	assert.True(t, latest.BettingResult)

	loaded, found, err := store.LoadSnapshot(1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(1), loaded.Version)
	assert.Equal(t, "hash-a", loaded.BettingIPFSHash)
	require.True(t, loaded.HasOutput(types.DataPullRound))

	// payload variants survive the interface round-trip
	dp, ok := loaded.Output(types.DataPullRound).(*types.DataPullPayload)
	require.True(t, ok)
	assert.True(t, dp.BettingResult)
}

func TestStoreLoadMissingSnapshot(t *testing.T) {
	store := NewStore(tmdb.NewMemDB())

	_, found, err := store.LoadSnapshot(42)
	require.NoError(t, err)
	assert.False(t, found)
}
