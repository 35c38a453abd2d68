package guard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/shared"
)

type stubAuth struct {
	session  *models.Session
	err      error
	signOuts int
}

func (s *stubAuth) Session(ctx context.Context) (*models.Session, error) {
	return s.session, s.err
}

func (s *stubAuth) SignOut(ctx context.Context) error {
	s.signOuts++
	return nil
}

func TestGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid Session", func(t *testing.T) {
		auth := &stubAuth{session: &models.Session{UserID: "user-1"}}
		rec := &notify.Recorder{}

		session, err := New(auth, rec, nil).Require(ctx)
		if err != nil || session.UserID != "user-1" {
			t.Fatalf("expected session, got %v %v", session, err)
		}
		if auth.signOuts != 0 || len(rec.Notices()) != 0 {
			t.Error("valid session must not sign out or notify")
		}
	})

	tests := []struct {
		name    string
		err     error
		want    error
		message string
	}{
		{"No Session", shared.ErrNotAuthenticated, shared.ErrNotAuthenticated, "Please sign in to access this page"},
		{"Expired", shared.ErrTokenExpired, shared.ErrTokenExpired, "Your session has expired. Please sign in again"},
		{"Provider Error", errors.New("connection reset"), shared.ErrAuthFailed, "Authentication error. Please sign in again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuth{err: tt.err}
			rec := &notify.Recorder{}

			_, err := New(auth, rec, nil).Require(ctx)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !RedirectsToLogin(err) {
				t.Error("expected a login redirect")
			}
			if auth.signOuts != 1 {
				t.Errorf("expected one sign out, got %d", auth.signOuts)
			}
			if n, ok := rec.Last(); !ok || n.Message != tt.message || n.Level != notify.Error {
				t.Errorf("expected notice %q, got %+v", tt.message, n)
			}
		})
	}

	t.Run("Nil Session Without Error", func(t *testing.T) {
		_, err := New(&stubAuth{}, nil, nil).Require(ctx)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Other Errors Do Not Redirect", func(t *testing.T) {
		if RedirectsToLogin(shared.ErrPlaylistNotFound) {
			t.Error("library errors are not auth errors")
		}
	})
}

func TestBefore(t *testing.T) {
	t.Run("Stores Session", func(t *testing.T) {
		g := New(&stubAuth{session: &models.Session{UserID: "user-1"}}, nil, nil)

		var seen *models.Session
		cmd := &cli.Command{
			Name:   "likes",
			Before: g.Before,
			Action: func(ctx context.Context, c *cli.Command) error {
				seen, _ = FromContext(ctx)
				return nil
			},
		}

		if err := cmd.Run(context.Background(), []string{"likes"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if seen == nil || seen.UserID != "user-1" {
			t.Errorf("expected session on context, got %+v", seen)
		}
	})

	t.Run("Blocks Action", func(t *testing.T) {
		g := New(&stubAuth{err: shared.ErrNotAuthenticated}, nil, nil)

		ran := false
		cmd := &cli.Command{
			Name:   "likes",
			Before: g.Before,
			Action: func(ctx context.Context, c *cli.Command) error {
				ran = true
				return nil
			},
		}

		err := cmd.Run(context.Background(), []string{"likes"})
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
		if !strings.Contains(err.Error(), "spin auth login") {
			t.Errorf("expected login hint, got %v", err)
		}
		if ran {
			t.Error("action must not run without a session")
		}
	})

	t.Run("FromContext Empty", func(t *testing.T) {
		if _, ok := FromContext(context.Background()); ok {
			t.Error("expected no session")
		}
	})
}
