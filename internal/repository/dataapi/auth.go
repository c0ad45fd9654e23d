package dataapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sakif/blog-admin/internal/apperror"
	"github.com/sakif/blog-admin/internal/model"
	"github.com/sakif/blog-admin/internal/repository"
)

var _ repository.Authenticator = (*Client)(nil)

// signInRequest is the password grant body for the auth token endpoint.
type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signInResponse carries the subset of the token response we use. The
// service also returns access/refresh tokens; the admin panel keeps its own
// session instead, so only the user record matters here.
type signInResponse struct {
	User *model.User `json:"user"`
}

// SignIn verifies email/password against the hosted auth service.
//
// Any 4xx from the token endpoint — wrong password, unknown email, disabled
// account — collapses into the same generic Unauthorized error, so the login
// page can never leak which part of the credentials was wrong. 5xx and
// transport failures are Remote errors: the user typed nothing wrong, the
// backend is down.
func (c *Client) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	url := c.baseURL + "/auth/v1/token?grant_type=password"

	body, status, err := c.do(ctx, http.MethodPost, url, signInRequest{
		Email:    email,
		Password: password,
	}, nil)
	if err != nil {
		return nil, err
	}

	if status >= 400 && status < 500 {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if !ok(status) {
		return nil, apperror.Remote("auth", fmt.Errorf("token endpoint returned status %d: %s", status, body))
	}

	var resp signInResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperror.Remote("auth", fmt.Errorf("decoding token response: %w", err))
	}
	if resp.User == nil || resp.User.ID == "" {
		// A 2xx without a user record should not happen; treat it like a
		// failed sign-in rather than materializing an empty session.
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	return resp.User, nil
}
