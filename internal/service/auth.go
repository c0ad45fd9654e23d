// Package service contains the business logic layer: the rules between the
// HTTP handlers and the remote data/auth/media clients.
//
// Handlers parse requests and write responses; services validate and
// orchestrate; the repository interfaces talk to the hosted backend. No
// layer reaches past its neighbour.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/blog-admin/internal/auth"
	"github.com/sakif/blog-admin/internal/model"
	"github.com/sakif/blog-admin/internal/repository"
	"github.com/sakif/blog-admin/internal/session"
)

// AuthService orchestrates login and logout: credential check against the
// hosted auth service, session creation, and the signed cookie value.
type AuthService struct {
	authenticator repository.Authenticator
	sessions      session.Store
	tokens        *auth.TokenService
	logger        *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	authenticator repository.Authenticator,
	sessions session.Store,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		tokens:        tokens,
		logger:        logger,
	}
}

// LoginResult bundles what the handler needs after a successful login: the
// user for logging and the signed cookie value to set.
type LoginResult struct {
	User   *model.User
	Cookie string
}

// Login verifies the credentials remotely, creates a session and returns
// the signed cookie value.
//
// Invalid credentials come back as apperror.ErrUnauthorized with a generic
// message — the handler re-renders the form with it verbatim, so nothing on
// this path may distinguish bad email from bad password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.authenticator.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, *user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: creating session: %w", err)
	}

	cookie, err := s.tokens.Generate(sess.Token)
	if err != nil {
		// The session exists but can never be referenced; drop it.
		_ = s.sessions.Destroy(ctx, sess.Token)
		return nil, fmt.Errorf("service/auth: signing session cookie: %w", err)
	}

	s.logger.Info("admin logged in",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &LoginResult{User: user, Cookie: cookie}, nil
}

// Logout destroys the session referenced by the cookie value. It never
// fails on anything the user controls: a missing, garbage or already
// logged-out cookie is simply a no-op, which makes logout idempotent.
func (s *AuthService) Logout(ctx context.Context, cookieValue string) error {
	if cookieValue == "" {
		return nil
	}

	sessionToken, err := s.tokens.Validate(cookieValue)
	if err != nil {
		// Invalid cookie — there is no session to destroy.
		return nil
	}

	if err := s.sessions.Destroy(ctx, sessionToken); err != nil {
		return fmt.Errorf("service/auth: destroying session: %w", err)
	}

	s.logger.Info("admin logged out")
	return nil
}
