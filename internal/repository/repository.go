// Package repository declares the persistence and authentication interfaces
// the rest of the application programs against. The hosted data API client
// in repository/dataapi implements both; tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/blog-admin/internal/model"
)

// PostRepository is the post storage contract. Every operation is a remote
// call, so all methods take a context for timeout and cancellation.
type PostRepository interface {
	// Create inserts a post. ID and CreatedAt are set by the caller.
	Create(ctx context.Context, post *model.Post) error

	// GetByID returns the single post with the given id.
	// Returns apperror.ErrNotFound if no row matches and
	// apperror.ErrAmbiguous if more than one does.
	GetByID(ctx context.Context, id string) (*model.Post, error)

	// List returns all posts ordered by creation time, newest first.
	List(ctx context.Context) ([]model.Post, error)

	// Update persists title, content and published. CreatedAt is immutable.
	Update(ctx context.Context, post *model.Post) error

	// Delete removes the post with the given id. Deleting an id that does
	// not exist is not an error.
	Delete(ctx context.Context, id string) error
}

// Authenticator verifies credentials against the hosted auth service.
type Authenticator interface {
	// SignIn returns the user for valid credentials, or an error wrapping
	// apperror.ErrUnauthorized for invalid ones. The implementation must not
	// reveal which of email/password was wrong.
	SignIn(ctx context.Context, email, password string) (*model.User, error)
}
