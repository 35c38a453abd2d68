package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spin/internal/library"
	"github.com/desertthunder/spin/internal/shared"
	tu "github.com/desertthunder/spin/internal/testing"
)

type failingSource struct{}

func (failingSource) SharedPlaylist(id string) (*library.SharedPlaylist, error) {
	return nil, errors.New("disk on fire")
}

type panicSource struct{}

func (panicSource) SharedPlaylist(id string) (*library.SharedPlaylist, error) {
	panic("boom")
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func setupStore(t *testing.T) (*library.Store, string, string) {
	t.Helper()

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := library.NewStore(db)
	lib := store.ForUser("user-1", nil, quietLogger())

	public, err := lib.CreatePlaylist("Public Mix", "for everyone")
	if err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}
	for _, track := range tu.SampleTracks(2) {
		if err := lib.AddToPlaylist(public.ID(), track); err != nil {
			t.Fatalf("failed to add track: %v", err)
		}
	}
	if _, err := lib.SetPublic(public.ID(), true); err != nil {
		t.Fatalf("failed to publish playlist: %v", err)
	}

	private, err := lib.CreatePlaylist("Private Mix", "")
	if err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	return store, public.ID(), private.ID()
}

func get(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestShareServer(t *testing.T) {
	store, publicID, privateID := setupStore(t)
	srv := New(shared.ServerConfig{Host: "127.0.0.1", Port: 0}, store, quietLogger())
	h := srv.Handler()

	t.Run("Public Playlist", func(t *testing.T) {
		w := get(t, h, http.MethodGet, "/shared-playlist/"+publicID)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}

		var resp SharedPlaylistResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if resp.ID != publicID || resp.Name != "Public Mix" {
			t.Errorf("unexpected playlist %+v", resp)
		}
		if len(resp.Tracks) != 2 || resp.Tracks[0].ID != "t1" {
			t.Errorf("unexpected tracks %+v", resp.Tracks)
		}
	})

	t.Run("Private Playlist", func(t *testing.T) {
		if w := get(t, h, http.MethodGet, "/shared-playlist/"+privateID); w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("Missing Playlist", func(t *testing.T) {
		if w := get(t, h, http.MethodGet, "/shared-playlist/does-not-exist"); w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		w := get(t, h, http.MethodPost, "/shared-playlist/"+publicID)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", w.Code)
		}
		if allow := w.Header().Get("Allow"); allow != http.MethodGet {
			t.Errorf("unexpected Allow header %q", allow)
		}
	})

	t.Run("Health", func(t *testing.T) {
		w := get(t, h, http.MethodGet, "/health")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w.Body.String() != "{\"status\":\"ok\"}\n" {
			t.Errorf("unexpected body %q", w.Body.String())
		}
	})

	t.Run("Unknown Path", func(t *testing.T) {
		if w := get(t, h, http.MethodGet, "/nowhere"); w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestShareHandlerErrors(t *testing.T) {
	t.Run("Store Failure", func(t *testing.T) {
		srv := New(shared.ServerConfig{}, failingSource{}, quietLogger())
		if w := get(t, srv.Handler(), http.MethodGet, "/shared-playlist/x"); w.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", w.Code)
		}
	})

	t.Run("Panic Is Recovered", func(t *testing.T) {
		srv := New(shared.ServerConfig{}, panicSource{}, quietLogger())
		if w := get(t, srv.Handler(), http.MethodGet, "/shared-playlist/x"); w.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", w.Code)
		}
	})
}

func TestRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		get(t, router, http.MethodGet, "/x")
		if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Head Allowed For Get", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		if w := get(t, router, http.MethodHead, "/x"); w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})
}

func TestShareURL(t *testing.T) {
	tests := []struct {
		base string
		id   string
		want string
	}{
		{"http://localhost:8080", "abc", "http://localhost:8080/shared-playlist/abc"},
		{"https://spin.example.com/", "abc", "https://spin.example.com/shared-playlist/abc"},
		{"http://localhost:8080", "a b", "http://localhost:8080/shared-playlist/a%20b"},
	}

	for _, tt := range tests {
		if got := ShareURL(tt.base, tt.id); got != tt.want {
			t.Errorf("ShareURL(%q, %q) = %q, want %q", tt.base, tt.id, got, tt.want)
		}
	}
}
