package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/blog-admin/internal/apperror"
	"github.com/sakif/blog-admin/internal/auth"
	"github.com/sakif/blog-admin/internal/model"
	"github.com/sakif/blog-admin/internal/service"
)

// PostHandler serves the posts dashboard and the create/edit/delete flows.
// Every route here sits behind the auth guard, so UserFromContext always
// has a user to put in the page header.
type PostHandler struct {
	posts    *service.PostService
	renderer *Renderer
	logger   *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService, renderer *Renderer, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:    posts,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleList renders the dashboard: all posts, newest first.
//
// HTTP: GET /posts
//
// A fetch failure renders the error page with a real status. An outage must
// never look like an empty blog.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	posts, err := h.posts.List(r.Context())
	if err != nil {
		h.logger.Error("listing posts failed", slog.String("error", err.Error()))
		h.renderer.RenderError(w, statusForError(err), "Could not load posts, please try again", user)
		return
	}

	h.renderer.Render(w, http.StatusOK, PagePostsIndex, PageData{
		Title: "Posts",
		User:  user,
		Posts: posts,
	})
}

// HandleCreateForm renders an empty create form. No remote call.
//
// HTTP: GET /posts/create
func (h *PostHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	h.renderer.Render(w, http.StatusOK, PagePostCreate, PageData{
		Title: "New Post",
		User:  user,
		Post:  &model.Post{},
	})
}

// HandleCreate stores a new post and returns to the dashboard.
//
// HTTP: POST /posts/create (form fields: title, content, published)
//
// Validation failures re-render the form with the submitted values so the
// user doesn't lose their draft.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission", user)
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")
	published := parseCheckbox(r.PostFormValue("published"))

	if _, err := h.posts.Create(r.Context(), title, content, published); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.renderer.Render(w, http.StatusBadRequest, PagePostCreate, PageData{
				Title:     "New Post",
				User:      user,
				Post:      &model.Post{Title: title, Content: content, Published: published},
				FormError: err.Error(),
			})
			return
		}

		h.logger.Error("creating post failed", slog.String("error", err.Error()))
		h.renderer.RenderError(w, statusForError(err), "Could not save the post, please try again", user)
		return
	}

	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}

// HandleEditForm renders the edit form pre-filled with the current values.
//
// HTTP: GET /posts/{id}/edit
//
// The three outcomes of the by-id fetch map to three distinct responses:
// found renders the form, an unknown id is a 404 page, and an id matching
// several rows is a 500 — never an arbitrary row.
func (h *PostHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id := r.PathValue("id")

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			h.renderer.RenderError(w, http.StatusNotFound, "Post not found", user)
		case errors.Is(err, apperror.ErrAmbiguous):
			h.logger.Error("ambiguous post id", slog.String("id", id))
			h.renderer.RenderError(w, http.StatusInternalServerError, "Post record is inconsistent, contact the operator", user)
		default:
			h.logger.Error("fetching post failed",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			h.renderer.RenderError(w, statusForError(err), "Could not load the post, please try again", user)
		}
		return
	}

	h.renderer.Render(w, http.StatusOK, PagePostEdit, PageData{
		Title: "Edit Post",
		User:  user,
		Post:  post,
	})
}

// HandleUpdate persists edits to an existing post.
//
// HTTP: POST /posts/{id}/edit (form fields: title, content, published)
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission", user)
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")
	published := parseCheckbox(r.PostFormValue("published"))

	if _, err := h.posts.Update(r.Context(), id, title, content, published); err != nil {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			h.renderer.Render(w, http.StatusBadRequest, PagePostEdit, PageData{
				Title:     "Edit Post",
				User:      user,
				Post:      &model.Post{ID: id, Title: title, Content: content, Published: published},
				FormError: err.Error(),
			})
		case errors.Is(err, apperror.ErrNotFound):
			h.renderer.RenderError(w, http.StatusNotFound, "Post not found", user)
		default:
			h.logger.Error("updating post failed",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			h.renderer.RenderError(w, statusForError(err), "Could not save the post, please try again", user)
		}
		return
	}

	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}

// HandleDelete removes a post and returns to the dashboard.
//
// HTTP: POST /posts/{id}/delete
//
// Deleting an id that no longer exists still redirects — the post is gone
// either way.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id := r.PathValue("id")

	if err := h.posts.Delete(r.Context(), id); err != nil {
		h.logger.Error("deleting post failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		h.renderer.RenderError(w, statusForError(err), "Could not delete the post, please try again", user)
		return
	}

	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}
