package auth

import (
	"context"
	"net/http"

	"github.com/sakif/blog-admin/internal/model"
	"github.com/sakif/blog-admin/internal/session"
)

// CookieName is the session cookie set at login and cleared at logout.
const CookieName = "session"

// contextKey is unexported so only this package can read or write the user
// value in a request context.
type contextKey string

const userKey contextKey = "user"

// RequireAuth gates the admin routes. It reads the session cookie, verifies
// the signature, resolves the session in the store, and puts the user in the
// request context. Any failure — no cookie, bad signature, expired or
// destroyed session — redirects the browser to /login and stops the chain.
//
// This is a browser-facing panel, so the failure mode is a redirect rather
// than a 401 body.
func RequireAuth(tokens *TokenService, store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolveUser(r, tokens, store)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed in the context by
// RequireAuth. ok is false on routes the middleware does not cover.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// resolveUser walks cookie → signature → store and returns the session's
// user. The first failing step wins; callers only need "logged in or not".
func resolveUser(r *http.Request, tokens *TokenService, store session.Store) (*model.User, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, err
	}

	sessionToken, err := tokens.Validate(cookie.Value)
	if err != nil {
		return nil, err
	}

	sess, err := store.Get(r.Context(), sessionToken)
	if err != nil {
		return nil, err
	}

	user := sess.User
	return &user, nil
}
