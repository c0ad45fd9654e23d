package dataapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sakif/blog-admin/internal/apperror"
	"github.com/sakif/blog-admin/internal/model"
	"github.com/sakif/blog-admin/internal/repository"
)

// Compile-time check that *Client implements repository.PostRepository.
var _ repository.PostRepository = (*Client)(nil)

// postsURL builds the table URL with the given filter parameters.
func (c *Client) postsURL(params url.Values) string {
	u := c.baseURL + "/rest/v1/posts"
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Create inserts one post. The caller has already set ID and CreatedAt;
// the service stores the record as-is.
func (c *Client) Create(ctx context.Context, post *model.Post) error {
	body, status, err := c.do(ctx, http.MethodPost, c.postsURL(nil), []model.Post{*post}, nil)
	if err != nil {
		return err
	}
	if !ok(status) {
		return apperror.Remote("data", fmt.Errorf("insert returned status %d: %s", status, body))
	}
	return nil
}

// GetByID fetches the post with the given id.
//
// The filter query returns a JSON array, and the caller needs "exactly one"
// semantics: zero rows is a NotFound, more than one means the remote table
// violated uniqueness and is reported as Ambiguous rather than silently
// picking a row.
func (c *Client) GetByID(ctx context.Context, id string) (*model.Post, error) {
	params := url.Values{}
	params.Set("id", "eq."+id)
	params.Set("select", "*")

	body, status, err := c.do(ctx, http.MethodGet, c.postsURL(params), nil, nil)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, apperror.Remote("data", fmt.Errorf("select returned status %d: %s", status, body))
	}

	var posts []model.Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, apperror.Remote("data", fmt.Errorf("decoding select response: %w", err))
	}

	switch len(posts) {
	case 0:
		return nil, apperror.NotFound("post", id)
	case 1:
		return &posts[0], nil
	default:
		return nil, apperror.Ambiguous("post", id)
	}
}

// List returns every post, newest first. The ordering is done server-side
// (`order=created_at.desc`), the same way the dashboard always displayed it.
func (c *Client) List(ctx context.Context) ([]model.Post, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("order", "created_at.desc")

	body, status, err := c.do(ctx, http.MethodGet, c.postsURL(params), nil, nil)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, apperror.Remote("data", fmt.Errorf("select returned status %d: %s", status, body))
	}

	var posts []model.Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, apperror.Remote("data", fmt.Errorf("decoding select response: %w", err))
	}
	return posts, nil
}

// Update patches title, content and published for the row matching the id.
// created_at is deliberately not in the patch body — it is set once at
// creation and never touched again.
func (c *Client) Update(ctx context.Context, post *model.Post) error {
	params := url.Values{}
	params.Set("id", "eq."+post.ID)

	patch := map[string]any{
		"title":     post.Title,
		"content":   post.Content,
		"published": post.Published,
	}

	body, status, err := c.do(ctx, http.MethodPatch, c.postsURL(params), patch, nil)
	if err != nil {
		return err
	}
	if !ok(status) {
		return apperror.Remote("data", fmt.Errorf("update returned status %d: %s", status, body))
	}
	return nil
}

// Delete removes the row matching the id. The service returns success for a
// filter that matched nothing, which gives delete its idempotent behaviour
// for free.
func (c *Client) Delete(ctx context.Context, id string) error {
	params := url.Values{}
	params.Set("id", "eq."+id)

	body, status, err := c.do(ctx, http.MethodDelete, c.postsURL(params), nil, nil)
	if err != nil {
		return err
	}
	if !ok(status) {
		return apperror.Remote("data", fmt.Errorf("delete returned status %d: %s", status, body))
	}
	return nil
}
