// Package ipfsstore is the content-addressed persistence gateway: bytes go
// in, a content hash comes out, the same bytes come back for that hash.
package ipfsstore

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/crypto/tmhash"
	"github.com/tendermint/tendermint/libs/log"
	tmdb "github.com/tendermint/tm-db"
)

var (
	ErrNotFound = errors.New("content hash not found")
)

// ContentStore is the narrow interface the rounds' behaviours depend on.
type ContentStore interface {
	Put(data []byte) (string, error)
	Get(hash string) ([]byte, error)
	Has(hash string) (bool, error)
}

// Store keys content by the hex sha256 of its bytes in a tm-db backend.
// Writes are idempotent: putting the same bytes twice yields the same hash
// and a single record.
type Store struct {
	db     tmdb.DB
	logger log.Logger
}

var _ ContentStore = (*Store)(nil)

// NewStore opens a goleveldb-backed store under dir.
func NewStore(name, dir string) (*Store, error) {
	db, err := tmdb.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrap(err, "opening content store")
	}
	return NewStoreWithDB(db), nil
}

func NewStoreWithDB(db tmdb.DB) *Store {
	return &Store{
		db:     db,
		logger: log.NewNopLogger(),
	}
}

func (s *Store) SetLogger(logger log.Logger) {
	s.logger = logger
}

// Put stores the bytes and returns their content hash.
func (s *Store) Put(data []byte) (string, error) {
	hash := hex.EncodeToString(tmhash.Sum(data))
	if err := s.db.SetSync(hashKey(hash), data); err != nil {
		return "", errors.Wrap(err, "content store put")
	}
	s.logger.Debug("stored content", "hash", hash, "size", len(data))
	return hash, nil
}

// Get returns the bytes for a content hash, or ErrNotFound.
func (s *Store) Get(hash string) ([]byte, error) {
	data, err := s.db.Get(hashKey(hash))
	if err != nil {
		return nil, errors.Wrap(err, "content store get")
	}
	if data == nil {
		return nil, ErrNotFound
	}
	return data, nil
}

func (s *Store) Has(hash string) (bool, error) {
	return s.db.Has(hashKey(hash))
}

func (s *Store) Close() error {
	return s.db.Close()
}

func hashKey(hash string) []byte {
	return append([]byte("content/"), hash...)
}
