package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/spin/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges email and password for a session and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	password := cmd.String("password")
	if password == "" {
		return fmt.Errorf("%w: --password or SPIN_PASSWORD", shared.ErrMissingArgument)
	}

	auth, err := r.authProvider(ctx)
	if err != nil {
		return err
	}

	session, err := auth.Login(ctx, cmd.String("email"), password)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Signed in as %s\n", session.Email)
}

// AuthLogout forgets the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authProvider(ctx)
	if err != nil {
		return err
	}

	if err := auth.SignOut(ctx); err != nil {
		return err
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the current session, refreshing it when needed.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authProvider(ctx)
	if err != nil {
		return err
	}

	session, err := auth.Session(ctx)
	if err != nil {
		r.logger.Debug("no usable session", "error", err)
		if cmd.Bool("json") {
			return r.writeJSON(map[string]any{"signed_in": false}, cmd.Bool("pretty"))
		}
		return r.writePlain("✗ Not signed in (run `spin auth login`)\n")
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"signed_in": true, "session": session}, cmd.Bool("pretty"))
	}

	r.writePlain("✓ Signed in as %s\n", session.Email)
	r.writePlain("User: %s\n", session.UserID)
	if !session.ExpiresAt.IsZero() {
		r.writePlain("Expires: %s\n", session.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}
