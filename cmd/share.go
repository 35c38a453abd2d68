package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spin/internal/library"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/server"
	"github.com/urfave/cli/v3"
)

// ShareServe serves public playlists until interrupted.
func (r *Runner) ShareServe(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store()
	if err != nil {
		return err
	}

	srv := server.New(r.config.Server, store, r.logger)
	r.writePlain("Serving shared playlists at %s\n", r.config.Server.PublicURL)
	return srv.Run(ctx)
}

// ShareLink publishes a playlist and copies its share URL to the clipboard.
func (r *Runner) ShareLink(ctx context.Context, cmd *cli.Command) error {
	id, _, err := playlistArgs(cmd)
	if err != nil {
		return err
	}

	return r.withLibrary(ctx, func(lib *library.Library) error {
		p, err := lib.Playlist(id)
		if err != nil {
			return err
		}
		if !p.Public {
			if p, err = lib.SetPublic(id, true); err != nil {
				return err
			}
			r.logger.Info("playlist published", "playlist", id)
		}

		url := server.ShareURL(r.config.Server.PublicURL, p.ID())

		if !cmd.Bool("no-copy") {
			if err := r.clipboard(url); err != nil {
				notify.Errorf(r.notifier, "Failed to share playlist")
				return fmt.Errorf("failed to copy link: %w", err)
			}
			notify.Infof(r.notifier, "Playlist link copied to clipboard")
		}

		r.writePlain("%s\n", url)

		if cmd.Bool("open") {
			if err := r.browser(url); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
			}
		}
		return nil
	})
}
