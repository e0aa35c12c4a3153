package repositories

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPreferenceRepository implements PreferenceRepository using BadgerDB
type BadgerPreferenceRepository struct {
	db *badger.DB
}

func NewBadgerPreferenceRepository(db *badger.DB) *BadgerPreferenceRepository {
	return &BadgerPreferenceRepository{db: db}
}

func (r *BadgerPreferenceRepository) Get(visitorID, name string) (string, error) {
	var value string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(prefKey(visitorID, name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	return value, err
}

func (r *BadgerPreferenceRepository) Set(visitorID, name, value string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(prefKey(visitorID, name), []byte(value))
	})
}
