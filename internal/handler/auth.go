package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/blog-admin/internal/apperror"
	"github.com/sakif/blog-admin/internal/auth"
	"github.com/sakif/blog-admin/internal/service"
	"github.com/sakif/blog-admin/internal/session"
)

// AuthHandler serves the login page and handles login/logout.
type AuthHandler struct {
	auth     *service.AuthService
	renderer *Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, renderer *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		renderer: renderer,
		logger:   logger,
	}
}

const loginTitle = "Login to Admin Panel"

// HandleLoginForm renders the login form.
//
// HTTP: GET /login
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, PageLogin, PageData{Title: loginTitle})
}

// HandleLogin verifies credentials and establishes the session.
//
// HTTP: POST /login (form fields: email, password)
//
// On success the session cookie is set and the browser is sent to the
// dashboard. On bad credentials the form re-renders with the same generic
// message regardless of which part was wrong. A remote outage is its own
// message — the user typed nothing wrong and should not be told they did.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, http.StatusBadRequest, PageLogin, PageData{
			Title: loginTitle,
			Error: "Invalid form submission",
		})
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	result, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			h.renderer.Render(w, http.StatusUnauthorized, PageLogin, PageData{
				Title: loginTitle,
				Error: "Invalid credentials",
			})
			return
		}

		h.logger.Error("login failed", slog.String("error", err.Error()))
		h.renderer.Render(w, statusForError(err), PageLogin, PageData{
			Title: loginTitle,
			Error: "Sign-in is temporarily unavailable, please try again",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    result.Cookie,
		Path:     "/",
		MaxAge:   int(session.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}

// HandleLogout destroys the session and clears the cookie.
//
// HTTP: GET /logout
//
// Idempotent: logging out without a session, or twice, still lands on the
// login page with no error.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	cookieValue := ""
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		cookieValue = cookie.Value
	}

	if err := h.auth.Logout(r.Context(), cookieValue); err != nil {
		// The session store failed; log it, but the user still leaves with
		// a cleared cookie.
		h.logger.Error("logout failed", slog.String("error", err.Error()))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
