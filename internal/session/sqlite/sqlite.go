// Package sqlite implements session.Store on an embedded SQLite database,
// for deployments where an admin login should survive a server restart.
//
// modernc.org/sqlite is a pure Go translation of SQLite — no C compiler,
// no CGo, cross-compiles anywhere Go does. The blank import registers the
// "sqlite" driver with database/sql.
//
// WAL journal mode is enabled so concurrent reads don't block behind a
// write; the auth guard reads the store on every protected request.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	_ "modernc.org/sqlite"

	"github.com/sakif/blog-admin/internal/apperror"
	"github.com/sakif/blog-admin/internal/model"
	"github.com/sakif/blog-admin/internal/session"
)

var _ session.Store = (*Store)(nil)

// Store wraps a sql.DB connection pool and implements session.Store.
type Store struct {
	conn *sql.DB

	// now is overridable in tests to exercise expiry without sleeping.
	now func() time.Time
}

// New opens (or creates) the session database at dbPath and runs the
// migration. Use ":memory:" in tests.
func New(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("session/sqlite: opening database: %w", err)
	}

	// Force a real connection now so a bad path fails at startup, not on
	// the first login.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session/sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session/sqlite: setting WAL mode: %w", err)
	}

	s := &Store{conn: conn, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session/sqlite: running migration: %w", err)
	}

	return s, nil
}

// Close closes the connection pool. The server defers this on shutdown.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token      TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			user_email TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
	`)
	if err != nil {
		return fmt.Errorf("creating sessions table: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, user model.User) (*session.Session, error) {
	now := s.now().UTC()
	sess := &session.Session{
		Token:     xid.New().String(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(session.TTL),
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, user_email, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		sess.Token, user.ID, user.Email,
		sess.CreatedAt.Format(time.RFC3339Nano),
		sess.ExpiresAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("session/sqlite: inserting session: %w", err)
	}

	return sess, nil
}

func (s *Store) Get(ctx context.Context, token string) (*session.Session, error) {
	var (
		sess      session.Session
		createdAt string
		expiresAt string
	)

	err := s.conn.QueryRowContext(ctx, `
		SELECT token, user_id, user_email, created_at, expires_at
		FROM sessions WHERE token = ?`, token,
	).Scan(&sess.Token, &sess.User.ID, &sess.User.Email, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("session", token)
	}
	if err != nil {
		return nil, fmt.Errorf("session/sqlite: selecting session: %w", err)
	}

	if sess.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("session/sqlite: parsing created_at: %w", err)
	}
	if sess.ExpiresAt, err = time.Parse(time.RFC3339Nano, expiresAt); err != nil {
		return nil, fmt.Errorf("session/sqlite: parsing expires_at: %w", err)
	}

	if sess.Expired(s.now()) {
		// Delete the dead row, then report not found like any other miss.
		if _, err := s.conn.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
			return nil, fmt.Errorf("session/sqlite: deleting expired session: %w", err)
		}
		return nil, apperror.NotFound("session", token)
	}

	return &sess, nil
}

func (s *Store) Destroy(ctx context.Context, token string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("session/sqlite: deleting session: %w", err)
	}
	return nil
}
