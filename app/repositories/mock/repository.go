package mock

import (
	"context"
	"errors"
	"sync"
	"time"

	"zettaboard/app/models"
	"zettaboard/app/repositories"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository is an in-memory CacheRepository. Setting Err makes every
// call fail with it.
type CacheRepository struct {
	entries map[string]cacheEntry
	mutex   sync.RWMutex
	now     func() time.Time
	Err     error
	Gets    int
	Sets    int
}

type SessionRepository struct {
	sessions map[string]*models.Session
	mutex    sync.RWMutex
}

type PreferenceRepository struct {
	prefs map[string]string
	mutex sync.RWMutex
}

func NewCacheRepository() *CacheRepository {
	return &CacheRepository{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*models.Session)}
}

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{prefs: make(map[string]string)}
}

// CacheRepository implementation
func (m *CacheRepository) Driver() string {
	return "memory"
}

func (m *CacheRepository) Get(_ context.Context, key string) ([]byte, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Gets++
	if m.Err != nil {
		return nil, m.Err
	}
	e, exists := m.entries[key]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, repositories.ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (m *CacheRepository) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Sets++
	if m.Err != nil {
		return m.Err
	}
	e := cacheEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *CacheRepository) Delete(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}
	delete(m.entries, key)
	return nil
}

// Advance moves the repository clock forward by d.
func (m *CacheRepository) Advance(d time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	prev := m.now
	m.now = func() time.Time { return prev().Add(d) }
}

// SessionRepository implementation
func (m *SessionRepository) Create(session *models.Session) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if session.ID == "" {
		return errors.New("session id is required")
	}
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *SessionRepository) GetByID(id string) (*models.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	s, exists := m.sessions[id]
	if !exists || s.Expired(time.Now()) {
		return nil, repositories.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *SessionRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *SessionRepository) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// PreferenceRepository implementation
func (m *PreferenceRepository) Get(visitorID, name string) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	v, exists := m.prefs[visitorID+":"+name]
	if !exists {
		return "", repositories.ErrNotFound
	}
	return v, nil
}

func (m *PreferenceRepository) Set(visitorID, name, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.prefs[visitorID+":"+name] = value
	return nil
}

var (
	_ repositories.CacheRepository      = (*CacheRepository)(nil)
	_ repositories.SessionRepository    = (*SessionRepository)(nil)
	_ repositories.PreferenceRepository = (*PreferenceRepository)(nil)
)
