package repositories

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Store owns the badger database shared by the repositories.
type Store struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	inMemory bool
}

// NewStore opens the badger database at path. An empty path opens an
// in-memory database, which is what the tests use.
func NewStore(path string) (*Store, error) {
	inMemory := path == ""
	opts := badger.DefaultOptions(path).
		WithInMemory(inMemory).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return &Store{
		db:       db,
		dbPath:   path,
		inMemory: inMemory,
	}, nil
}

func (s *Store) DB() *badger.DB {
	return s.db
}

func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Close()
}

// Clean drops every key.
func (s *Store) Clean() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}

// Backup writes a full backup to w and returns the version it covers.
func (s *Store) Backup(w io.Writer) (uint64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.db.Backup(w, 0)
}

// Restore loads a backup produced by Backup.
func (s *Store) Restore(r io.Reader) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Load(r, 4)
}

// Count returns the number of live keys under prefix.
func (s *Store) Count(prefix string) (int, error) {
	var n int
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
