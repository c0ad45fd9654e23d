package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/blog-admin/internal/apperror"
	"github.com/sakif/blog-admin/internal/auth"
	"github.com/sakif/blog-admin/internal/model"
	"github.com/sakif/blog-admin/internal/session"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeAuthenticator accepts exactly one email/password pair, like the
// hosted auth service would for a single admin account.
type fakeAuthenticator struct {
	email    string
	password string
	user     model.User

	// set to simulate the auth service being down
	remoteErr error
}

func (f *fakeAuthenticator) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	if f.remoteErr != nil {
		return nil, f.remoteErr
	}
	if email != f.email || password != f.password {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	copied := f.user
	return &copied, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeAuthenticator, session.Store, *auth.TokenService) {
	t.Helper()

	authenticator := &fakeAuthenticator{
		email:    "admin@example.com",
		password: "hunter22",
		user:     model.User{ID: "user-1", Email: "admin@example.com"},
	}
	store := session.NewMemoryStore()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	svc := NewAuthService(authenticator, store, tokens, testLogger())
	return svc, authenticator, store, tokens
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	svc, _, store, tokens := newTestAuthService(t)

	result, err := svc.Login(context.Background(), "admin@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.User.ID != "user-1" {
		t.Errorf("User.ID = %q, want user-1", result.User.ID)
	}
	if result.Cookie == "" {
		t.Fatal("Login() returned empty cookie value")
	}

	// The cookie must resolve to a live session holding the user.
	sessionToken, err := tokens.Validate(result.Cookie)
	if err != nil {
		t.Fatalf("cookie does not validate: %v", err)
	}
	sess, err := store.Get(context.Background(), sessionToken)
	if err != nil {
		t.Fatalf("session lookup failed: %v", err)
	}
	if sess.User.Email != "admin@example.com" {
		t.Errorf("session user = %+v, want the signed-in user", sess.User)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "admin@example.com", "wrong"},
		{"unknown email", "other@example.com", "hunter22"},
		{"both wrong", "other@example.com", "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, apperror.ErrUnauthorized) {
				t.Fatalf("Login() error = %v, want ErrUnauthorized", err)
			}
			// The same generic message in every case.
			if got := err.Error(); got != "Invalid credentials" {
				t.Errorf("message = %q, want %q", got, "Invalid credentials")
			}
		})
	}
}

func TestLogin_NoSessionOnFailure(t *testing.T) {
	svc, _, store, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "admin@example.com", "wrong")
	if err == nil {
		t.Fatal("Login() should fail")
	}

	// Nothing should be resolvable from the store; the memory store is
	// empty, so any Get must be a miss. Probe with a token that would have
	// been handed out.
	if _, err := store.Get(context.Background(), "anything"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("store should be empty after failed login, got %v", err)
	}
}

func TestLogin_AuthServiceDown(t *testing.T) {
	svc, authenticator, _, _ := newTestAuthService(t)
	authenticator.remoteErr = apperror.Remote("auth", errors.New("connection refused"))

	_, err := svc.Login(context.Background(), "admin@example.com", "hunter22")
	if !errors.Is(err, apperror.ErrRemote) {
		t.Fatalf("Login() error = %v, want ErrRemote (not ErrUnauthorized)", err)
	}
}

// =========================================================================
// Logout TESTS
// =========================================================================

func TestLogout_DestroysSession(t *testing.T) {
	svc, _, store, tokens := newTestAuthService(t)

	result, err := svc.Login(context.Background(), "admin@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.Logout(context.Background(), result.Cookie); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	sessionToken, _ := tokens.Validate(result.Cookie)
	if _, err := store.Get(context.Background(), sessionToken); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("session still resolvable after logout: %v", err)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	result, err := svc.Login(context.Background(), "admin@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.Logout(context.Background(), result.Cookie); err != nil {
		t.Fatalf("first Logout() error = %v", err)
	}
	if err := svc.Logout(context.Background(), result.Cookie); err != nil {
		t.Errorf("second Logout() error = %v, want nil", err)
	}
}

func TestLogout_GarbageCookie(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	if err := svc.Logout(context.Background(), "not.a.jwt"); err != nil {
		t.Errorf("Logout() with garbage cookie error = %v, want nil", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("Logout() with empty cookie error = %v, want nil", err)
	}
}
