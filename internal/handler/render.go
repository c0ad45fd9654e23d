// Package handler contains the HTTP handlers for the admin panel.
//
// Handlers parse requests and write responses; everything else — validation,
// session rules, remote calls — lives in the service layer. Page handlers
// render html/template views through the Renderer; the upload endpoint is
// JSON and uses the helpers in response.go.
package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/sakif/blog-admin/internal/model"
)

// Page names accepted by Renderer.Render. Each corresponds to one template
// file parsed together with base.html.
const (
	PageLogin      = "login"
	PagePostsIndex = "posts_index"
	PagePostCreate = "post_create"
	PagePostEdit   = "post_edit"
	pageError      = "error"
)

// PageData is what every template receives. Unused fields stay zero; the
// templates guard with `with`/`if`.
type PageData struct {
	Title string
	User  *model.User

	Post  *model.Post
	Posts []model.Post

	// Error is a page-level message (login failure, remote outage).
	// FormError is a field-validation message rendered inside the form.
	Error     string
	FormError string
}

// Renderer holds the parsed template sets, one per page.
//
// Each page file defines a "content" block that base.html pulls in, and the
// same block name can only exist once per template set — so every page gets
// its own set of base + page, parsed once at startup.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses all page templates from templateDir.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template)
	for _, page := range []string{PageLogin, PagePostsIndex, PagePostCreate, PagePostEdit, pageError} {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page+".html"),
		)
		if err != nil {
			return nil, err
		}
		pages[page] = tmpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render writes one page with the given status. Template execution failures
// after the header is out can only be logged — headers are already sent.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data PageData) {
	tmpl, found := r.pages[page]
	if !found {
		r.logger.Error("unknown page requested", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		r.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// RenderError writes the error page. Used wherever a remote call failed and
// the user needs to see that, instead of a blank page or an empty list.
func (r *Renderer) RenderError(w http.ResponseWriter, status int, message string, user *model.User) {
	r.Render(w, status, pageError, PageData{
		Title: "Error",
		User:  user,
		Error: message,
	})
}
