package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/desertthunder/spin/internal/shared"
	tu "github.com/desertthunder/spin/internal/testing"
)

func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")

		switch r.Form.Get("grant_type") {
		case "password":
			if r.Form.Get("username") != "listener@example.com" || r.Form.Get("password") != "hunter2" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant", "error_description": "Invalid login credentials"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-1",
				"token_type":    "bearer",
				"expires_in":    3600,
				"refresh_token": "refresh-1",
				"user":          map[string]any{"id": "user-1", "email": "listener@example.com"},
			})
		case "refresh_token":
			if r.Form.Get("refresh_token") != "refresh-1" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-2",
				"token_type":    "bearer",
				"expires_in":    3600,
				"refresh_token": "refresh-2",
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func newTestAuth(t *testing.T, tokenURL string) (*AuthService, *tu.MemoryKV) {
	t.Helper()
	kv := tu.NewMemoryKV()
	cfg := shared.AuthConfig{TokenURL: tokenURL, ClientID: "spin"}
	return NewAuthService(cfg, kv, nil, nil), kv
}

func seedSession(t *testing.T, auth *AuthService, token *oauth2.Token) {
	t.Helper()
	stored := storedSession{UserID: "user-1", Email: "listener@example.com", Token: token}
	if err := auth.save(context.Background(), stored); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("Login", func(t *testing.T) {
		server := newTokenServer(t)
		defer server.Close()

		auth, kv := newTestAuth(t, server.URL)
		session, err := auth.Login(ctx, "listener@example.com", "hunter2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.UserID != "user-1" || session.Email != "listener@example.com" {
			t.Errorf("unexpected session %+v", session)
		}
		if _, ok, _ := kv.Get(ctx, SessionKey); !ok {
			t.Error("expected session to be persisted")
		}

		again, err := auth.Session(ctx)
		if err != nil {
			t.Fatalf("expected stored session, got %v", err)
		}
		if again.UserID != "user-1" {
			t.Errorf("expected user-1, got %s", again.UserID)
		}
	})

	t.Run("Login Bad Password", func(t *testing.T) {
		server := newTokenServer(t)
		defer server.Close()

		auth, _ := newTestAuth(t, server.URL)
		_, err := auth.Login(ctx, "listener@example.com", "wrong")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("Login Missing Fields", func(t *testing.T) {
		auth, _ := newTestAuth(t, "http://unused")
		if _, err := auth.Login(ctx, " ", "x"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Session Absent", func(t *testing.T) {
		auth, _ := newTestAuth(t, "http://unused")
		if _, err := auth.Session(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Session Refreshes Expired Token", func(t *testing.T) {
		server := newTokenServer(t)
		defer server.Close()

		auth, _ := newTestAuth(t, server.URL)
		seedSession(t, auth, &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1", Expiry: time.Now().Add(-time.Hour)})

		session, err := auth.Session(ctx)
		if err != nil {
			t.Fatalf("expected refresh to succeed, got %v", err)
		}
		if session.UserID != "user-1" {
			t.Errorf("expected identity to survive refresh, got %s", session.UserID)
		}

		stored, ok, err := auth.load(ctx)
		if err != nil || !ok {
			t.Fatalf("expected stored session, got %v", err)
		}
		if stored.Token.AccessToken != "access-2" {
			t.Errorf("expected refreshed token to be persisted, got %s", stored.Token.AccessToken)
		}
	})

	t.Run("Session Refresh Rejected", func(t *testing.T) {
		server := newTokenServer(t)
		defer server.Close()

		auth, _ := newTestAuth(t, server.URL)
		seedSession(t, auth, &oauth2.Token{AccessToken: "old", RefreshToken: "revoked", Expiry: time.Now().Add(-time.Hour)})

		if _, err := auth.Session(ctx); !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("Session Expired Without Refresh Token", func(t *testing.T) {
		auth, _ := newTestAuth(t, "http://unused")
		seedSession(t, auth, &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Hour)})

		if _, err := auth.Session(ctx); !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("Session Provider Unreachable", func(t *testing.T) {
		kv := tu.NewMemoryKV()
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("dial tcp: refused"))}
		auth := NewAuthService(shared.AuthConfig{TokenURL: "http://auth.invalid/token"}, kv, client, nil)
		seedSession(t, auth, &oauth2.Token{AccessToken: "old", RefreshToken: "refresh-1", Expiry: time.Now().Add(-time.Hour)})

		if _, err := auth.Session(ctx); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("Corrupt Session Is Absent", func(t *testing.T) {
		auth, kv := newTestAuth(t, "http://unused")
		kv.Set(ctx, SessionKey, "{broken")

		if _, err := auth.Session(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("SignOut", func(t *testing.T) {
		auth, kv := newTestAuth(t, "http://unused")
		seedSession(t, auth, &oauth2.Token{AccessToken: "a"})

		if err := auth.SignOut(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok, _ := kv.Get(ctx, SessionKey); ok {
			t.Error("expected session to be removed")
		}
		if err := auth.SignOut(ctx); err != nil {
			t.Errorf("second sign out should succeed, got %v", err)
		}
	})
}
