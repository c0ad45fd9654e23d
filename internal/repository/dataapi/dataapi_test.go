package dataapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sakif/blog-admin/internal/apperror"
	"github.com/sakif/blog-admin/internal/model"
)

// newTestClient spins up an httptest.Server with the given handler and
// returns a Client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "test-api-key")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_RequiresURLAndKey(t *testing.T) {
	if _, err := New("", "key"); err == nil {
		t.Error("New() should fail without a base URL")
	}
	if _, err := New("https://example.test", ""); err == nil {
		t.Error("New() should fail without an API key")
	}
}

func TestSignIn_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("path = %q, want /auth/v1/token", r.URL.Path)
		}
		if got := r.URL.Query().Get("grant_type"); got != "password" {
			t.Errorf("grant_type = %q, want password", got)
		}
		if got := r.Header.Get("apikey"); got != "test-api-key" {
			t.Errorf("apikey header = %q, want test-api-key", got)
		}

		var req signInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Email != "admin@example.com" || req.Password != "hunter22" {
			t.Errorf("credentials = %q/%q, not forwarded verbatim", req.Email, req.Password)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "ignored",
			"user":         map[string]string{"id": "user-1", "email": "admin@example.com"},
		})
	})

	user, err := c.SignIn(context.Background(), "admin@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if user.ID != "user-1" || user.Email != "admin@example.com" {
		t.Errorf("user = %+v, want id user-1 / email admin@example.com", user)
	}
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	_, err := c.SignIn(context.Background(), "admin@example.com", "wrong")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("SignIn() error = %v, want ErrUnauthorized", err)
	}
	// The message must stay generic.
	if got := err.Error(); got != "Invalid credentials" {
		t.Errorf("error message = %q, want %q", got, "Invalid credentials")
	}
}

func TestSignIn_ServerFailureIsRemote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.SignIn(context.Background(), "admin@example.com", "hunter22")
	if !errors.Is(err, apperror.ErrRemote) {
		t.Fatalf("SignIn() error = %v, want ErrRemote", err)
	}
}

func TestSignIn_MissingUserIsUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok"}`))
	})

	_, err := c.SignIn(context.Background(), "admin@example.com", "hunter22")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("SignIn() error = %v, want ErrUnauthorized", err)
	}
}

func TestGetByID_ExactlyOne(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/posts" {
			t.Errorf("path = %q, want /rest/v1/posts", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "eq.p1" {
			t.Errorf("id filter = %q, want eq.p1", got)
		}
		json.NewEncoder(w).Encode([]model.Post{
			{ID: "p1", Title: "Hello", Content: "World", Published: true, CreatedAt: created},
		})
	})

	post, err := c.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if post.Title != "Hello" || !post.Published {
		t.Errorf("post = %+v, want title Hello, published true", post)
	}
	if !post.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", post.CreatedAt, created)
	}
}

func TestGetByID_ZeroRowsIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := c.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestGetByID_MultipleRowsIsAmbiguous(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Post{{ID: "p1"}, {ID: "p1"}})
	})

	_, err := c.GetByID(context.Background(), "p1")
	if !errors.Is(err, apperror.ErrAmbiguous) {
		t.Fatalf("GetByID() error = %v, want ErrAmbiguous", err)
	}
}

func TestList_OrdersNewestFirst(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("order"); got != "created_at.desc" {
			t.Errorf("order = %q, want created_at.desc", got)
		}
		json.NewEncoder(w).Encode([]model.Post{{ID: "new"}, {ID: "old"}})
	})

	posts, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "new" {
		t.Errorf("posts = %+v, want server ordering preserved", posts)
	}
}

func TestList_ErrorStatusSurfaces(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.List(context.Background())
	if !errors.Is(err, apperror.ErrRemote) {
		t.Fatalf("List() error = %v, want ErrRemote", err)
	}
}

func TestCreate_SendsFullRecord(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var got []model.Post
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding insert body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	})

	post := &model.Post{ID: "p1", Title: "Hello", Content: "World", Published: true, CreatedAt: created}
	if err := c.Create(context.Background(), post); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("insert body had %d records, want 1", len(got))
	}
	if got[0].ID != "p1" || !got[0].CreatedAt.Equal(created) {
		t.Errorf("inserted record = %+v, want caller-set id and created_at", got[0])
	}
}

func TestUpdate_NeverPatchesCreatedAt(t *testing.T) {
	var patch map[string]any
	var query url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %q, want PATCH", r.Method)
		}
		query = r.URL.Query()
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			t.Fatalf("decoding patch body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.Update(context.Background(), &model.Post{
		ID: "p1", Title: "New", Content: "Body", Published: false,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got := query.Get("id"); got != "eq.p1" {
		t.Errorf("id filter = %q, want eq.p1", got)
	}
	if _, present := patch["created_at"]; present {
		t.Error("patch body must not contain created_at")
	}
	if _, present := patch["id"]; present {
		t.Error("patch body must not contain id")
	}
	if patch["title"] != "New" || patch["published"] != false {
		t.Errorf("patch = %v, want title/content/published only", patch)
	}
}

func TestDelete_UsesIDFilter(t *testing.T) {
	var query url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		query = r.URL.Query()
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := query.Get("id"); got != "eq.p1" {
		t.Errorf("id filter = %q, want eq.p1", got)
	}
}

func TestDo_TransportErrorIsRemote(t *testing.T) {
	// Point the client at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, err := New(srv.URL, "test-api-key")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = c.List(context.Background())
	if !errors.Is(err, apperror.ErrRemote) {
		t.Fatalf("List() error = %v, want ErrRemote", err)
	}
}
