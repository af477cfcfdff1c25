package state

import (
	"fmt"

	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tendermint/libs/log"
	tmdb "github.com/tendermint/tm-db"
)

var (
	latestKey = []byte("period/latest")
)

func snapshotKey(version int64) []byte {
	return []byte(fmt.Sprintf("period/%020d", version))
}

// Store persists every finalized period snapshot, keyed by version, plus a
// pointer to the latest one. Snapshots are append-only, matching the
// period-state invariant.
type Store struct {
	db     tmdb.DB
	logger log.Logger
}

func NewStore(db tmdb.DB) *Store {
	return &Store{
		db:     db,
		logger: log.NewNopLogger(),
	}
}

func (s *Store) SetLogger(logger log.Logger) {
	s.logger = logger
}

// SaveSnapshot writes the snapshot and advances the latest pointer in one
// batch.
func (s *Store) SaveSnapshot(ps PeriodState) error {
	bz, err := tmjson.Marshal(ps)
	if err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(snapshotKey(ps.Version), bz); err != nil {
		return err
	}
	if err := batch.Set(latestKey, bz); err != nil {
		return err
	}
	if err := batch.WriteSync(); err != nil {
		return err
	}

	s.logger.Debug("saved period snapshot", "version", ps.Version, "round", ps.LastRound)
	return nil
}

// LoadLatest returns the most recent snapshot, reporting found=false on a
// fresh database.
func (s *Store) LoadLatest() (PeriodState, bool, error) {
	bz, err := s.db.Get(latestKey)
	if err != nil {
		return PeriodState{}, false, err
	}
	if len(bz) == 0 {
		return PeriodState{}, false, nil
	}

	var ps PeriodState
	if err := tmjson.Unmarshal(bz, &ps); err != nil {
		return PeriodState{}, false, err
	}
	return ps, true, nil
}

// LoadSnapshot returns the snapshot at an exact version.
func (s *Store) LoadSnapshot(version int64) (PeriodState, bool, error) {
	bz, err := s.db.Get(snapshotKey(version))
	if err != nil {
		return PeriodState{}, false, err
	}
	if len(bz) == 0 {
		return PeriodState{}, false, nil
	}

	var ps PeriodState
	if err := tmjson.Unmarshal(bz, &ps); err != nil {
		return PeriodState{}, false, err
	}
	return ps, true, nil
}
