package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/blog-admin/internal/apperror"
	"github.com/sakif/blog-admin/internal/model"
	"github.com/sakif/blog-admin/internal/repository"
)

// PostService holds the post rules: required fields on create and update,
// an immutable creation timestamp, and idempotent delete. All storage goes
// through the injected repository.
type PostService struct {
	repo   repository.PostRepository
	logger *slog.Logger

	// now is overridable in tests so CreatedAt assertions are exact.
	now func() time.Time
}

// NewPostService creates a PostService.
func NewPostService(repo repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// List returns all posts, newest first. The repository already asks the
// backend to order, but the dashboard contract is "most recent on top", so
// the ordering is re-asserted here rather than trusted across the wire.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts, nil
}

// GetByID returns one post. Not-found and ambiguous results pass through
// as their own error kinds for the handler to map.
func (s *PostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}

	return s.repo.GetByID(ctx, id)
}

// Create validates and stores a new post. The ID is minted here and
// CreatedAt is set exactly once, now — the update path never touches it.
func (s *PostService) Create(ctx context.Context, title, content string, published bool) (*model.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if content == "" {
		return nil, apperror.ValidationFailed("content", "content is required")
	}

	post := &model.Post{
		ID:        xid.New().String(),
		Title:     title,
		Content:   content,
		Published: published,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("title", post.Title),
		slog.Bool("published", post.Published),
	)

	return post, nil
}

// Update validates and persists new title, content and published for an
// existing post. It fetches first so an unknown id surfaces as NotFound
// instead of a silent no-op patch, and so CreatedAt provably stays what it
// was.
func (s *PostService) Update(ctx context.Context, id, title, content string, published bool) (*model.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if content == "" {
		return nil, apperror.ValidationFailed("content", "content is required")
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content
	post.Published = published

	if err := s.repo.Update(ctx, post); err != nil {
		s.logger.Error("failed to update post",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post updated", slog.String("id", post.ID))
	return post, nil
}

// Delete removes a post. A NotFound from the repository is swallowed —
// deleting something already gone achieved what the caller wanted.
func (s *PostService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "post ID is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		s.logger.Error("failed to delete post",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting post: %w", err)
	}

	s.logger.Info("post deleted", slog.String("id", id))
	return nil
}
