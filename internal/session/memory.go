package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/blog-admin/internal/apperror"
	"github.com/sakif/blog-admin/internal/model"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps sessions in a mutex-guarded map. Sessions are lost on
// restart, which simply logs everyone out — acceptable for a single-admin
// panel. Expired entries are pruned lazily when they are next read.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// now is overridable in tests to exercise expiry without sleeping.
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(ctx context.Context, user model.User) (*Session, error) {
	now := m.now()
	s := &Session{
		Token:     xid.New().String(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	}

	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()

	copied := *s
	return &copied, nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, found := m.sessions[token]
	m.mu.RUnlock()

	if !found {
		return nil, apperror.NotFound("session", token)
	}
	if s.Expired(m.now()) {
		// Prune on read so dead sessions don't accumulate.
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, apperror.NotFound("session", token)
	}

	copied := *s
	return &copied, nil
}

func (m *MemoryStore) Destroy(ctx context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}
