package repositories

import (
	"errors"
	"fmt"
	"time"

	"zettaboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerSessionRepository implements SessionRepository using BadgerDB
type BadgerSessionRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository
func NewBadgerSessionRepository(db *badger.DB) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db, now: time.Now}
}

// Create stores a session. The badger entry expires with the session.
func (r *BadgerSessionRepository) Create(session *models.Session) error {
	if session.ID == "" {
		return errors.New("session id is required")
	}
	data, err := marshalEntity(session)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(sessionKey(session.ID), data)
		if !session.ExpiresAt.IsZero() {
			ttl := session.ExpiresAt.Sub(r.now())
			if ttl <= 0 {
				return fmt.Errorf("session %s already expired", session.ID)
			}
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// GetByID retrieves a live session by id
func (r *BadgerSessionRepository) GetByID(id string) (*models.Session, error) {
	var session models.Session
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &session)
		})
	})
	if err != nil {
		return nil, err
	}
	if session.Expired(r.now()) {
		return nil, ErrNotFound
	}
	return &session, nil
}

// Delete deletes a session by id
func (r *BadgerSessionRepository) Delete(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(sessionKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(sessionKey(id))
	})
}
