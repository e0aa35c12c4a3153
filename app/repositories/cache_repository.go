package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCacheRepository implements CacheRepository using BadgerDB
type BadgerCacheRepository struct {
	db *badger.DB
}

// NewBadgerCacheRepository creates a new BadgerCacheRepository
func NewBadgerCacheRepository(db *badger.DB) *BadgerCacheRepository {
	return &BadgerCacheRepository{db: db}
}

func (r *BadgerCacheRepository) Driver() string {
	return "badger"
}

// Get retrieves a cached value. Expired entries are reported as ErrNotFound.
func (r *BadgerCacheRepository) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores value for ttl; a zero ttl keeps it until deleted.
func (r *BadgerCacheRepository) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return r.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(cacheKey(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

func (r *BadgerCacheRepository) Delete(_ context.Context, key string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(cacheKey(key))
	})
}

// Purge removes every cache entry and reports how many were dropped.
func (r *BadgerCacheRepository) Purge() (int, error) {
	var keys [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(CacheKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
