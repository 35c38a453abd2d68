// package guard gates protected commands and views behind a valid session
//
// A failed check signs the user out, raises a notice and returns an error that views treat as
// "go to login".
package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/shared"
)

const (
	msgSignIn    = "Please sign in to access this page"
	msgExpired   = "Your session has expired. Please sign in again"
	msgAuthError = "Authentication error. Please sign in again"
)

// Authenticator is the slice of the auth provider the guard needs.
type Authenticator interface {
	Session(ctx context.Context) (*models.Session, error)
	SignOut(ctx context.Context) error
}

// Guard checks sessions.
type Guard struct {
	auth     Authenticator
	notifier notify.Notifier
	logger   *log.Logger
}

func New(auth Authenticator, notifier notify.Notifier, logger *log.Logger) *Guard {
	if logger == nil {
		logger = log.Default()
	}
	return &Guard{auth: auth, notifier: notifier, logger: shared.WithLogger(logger, "component", "guard")}
}

// Require returns the current session or redirects to login.
//
// The returned error wraps [shared.ErrNotAuthenticated], [shared.ErrTokenExpired] or
// [shared.ErrAuthFailed]; all three mean the caller must send the user to login.
func (g *Guard) Require(ctx context.Context) (*models.Session, error) {
	session, err := g.auth.Session(ctx)
	if err == nil && session != nil {
		return session, nil
	}

	var msg string
	switch {
	case err == nil, errors.Is(err, shared.ErrNotAuthenticated):
		msg = msgSignIn
		err = shared.ErrNotAuthenticated
	case errors.Is(err, shared.ErrTokenExpired):
		msg = msgExpired
	default:
		msg = msgAuthError
		if !errors.Is(err, shared.ErrAuthFailed) {
			err = fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
	}

	if signOutErr := g.auth.SignOut(ctx); signOutErr != nil {
		g.logger.Warn("failed to clear session", "error", signOutErr)
	}

	g.logger.Debug("redirecting to login", "reason", err)
	notify.Errorf(g.notifier, msg)
	return nil, err
}

// RedirectsToLogin reports whether err came from a failed [Guard.Require].
func RedirectsToLogin(err error) bool {
	return errors.Is(err, shared.ErrNotAuthenticated) ||
		errors.Is(err, shared.ErrTokenExpired) ||
		errors.Is(err, shared.ErrAuthFailed)
}

type sessionKey struct{}

// WithSession stores session on ctx.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// FromContext returns the session stored by [WithSession].
func FromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*models.Session)
	return session, ok && session != nil
}

// Before is a [cli.BeforeFunc] that requires a session and stores it on the command context.
func (g *Guard) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	session, err := g.Require(ctx)
	if err != nil {
		return ctx, fmt.Errorf("%s requires sign in (run `spin auth login`): %w", cmd.FullName(), err)
	}
	return WithSession(ctx, session), nil
}
