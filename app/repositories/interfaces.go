package repositories

import (
	"context"
	"time"

	"zettaboard/app/models"
)

// CacheRepository stores raw upstream responses keyed by request URL.
// Get returns ErrNotFound on a miss or an expired entry.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Driver() string
}

// SessionRepository defines the interface for sign-in session storage
type SessionRepository interface {
	Create(session *models.Session) error
	GetByID(id string) (*models.Session, error)
	Delete(id string) error
}

// PreferenceRepository keeps small per-visitor settings such as the theme.
type PreferenceRepository interface {
	Get(visitorID, name string) (string, error)
	Set(visitorID, name, value string) error
}
