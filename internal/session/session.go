// Package session defines the server-side session store.
//
// A session maps an opaque token (carried to the browser inside a signed
// cookie) to the authenticated user. The store is an explicit dependency
// injected wherever it is needed — never a package-level global — so the
// backing implementation can be swapped: the in-memory store here for a
// single process, the sqlite store in session/sqlite when sessions should
// survive restarts.
package session

import (
	"context"
	"time"

	"github.com/sakif/blog-admin/internal/model"
)

// TTL is how long a session stays valid after login. Expired sessions are
// indistinguishable from destroyed ones.
const TTL = 24 * time.Hour

// Session associates a token with an authenticated user.
type Session struct {
	Token     string
	User      model.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store creates, resolves and destroys sessions.
type Store interface {
	// Create starts a new session for the user and returns it with a fresh
	// unguessable token.
	Create(ctx context.Context, user model.User) (*Session, error)

	// Get returns the live session for the token. Unknown, destroyed and
	// expired tokens all return apperror.ErrNotFound.
	Get(ctx context.Context, token string) (*Session, error)

	// Destroy removes the session. Destroying a token that does not exist
	// is not an error — logout is idempotent.
	Destroy(ctx context.Context, token string) error
}
