package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/playback"
	"github.com/desertthunder/spin/internal/recent"
	"github.com/desertthunder/spin/internal/shared"
	"github.com/urfave/cli/v3"
)

// Play mounts a track and blocks until it ends or the command is interrupted.
//
// A track picked from search results is recorded the way the search page does it; a replayed
// recent track is recorded on the home list only.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}
	cache, err := r.recentCache(ctx)
	if err != nil {
		return err
	}

	track, fromSearch, err := r.resolvePlay(ctx, cmd, cache)
	if err != nil {
		return err
	}
	if !track.Playable() {
		notify.Errorf(r.notifier, "This song is not available for playback")
		return fmt.Errorf("%w: %s has no stream", shared.ErrInvalidArgument, track.ID)
	}

	session := r.newSession(lib, nil)
	defer session.Close()

	session.SetCurrentTrack(ctx, track.Active())
	if fromSearch {
		err = cache.RecordFromSearch(ctx, track.Recent())
	} else {
		_, err = cache.Record(ctx, recent.Home, track.Recent())
	}
	if err != nil {
		r.logger.Warn("failed to record recent track", "track", track.ID, "error", err)
	}

	widget := session.Widget()
	if widget == nil {
		return shared.ErrNoActiveTrack
	}
	if cmd.Bool("loop") {
		if err := widget.ToggleLoop(); err != nil {
			return err
		}
	}

	r.writePlain("▶ %s · %s\n", track.Name, track.ArtistName)

	if err := widget.Wait(ctx); err != nil {
		if errors.Is(err, shared.ErrWidgetDetached) {
			return nil
		}
		return err
	}
	r.logger.Debug("stream ready", "track", track.ID, "duration", playback.FormatTime(widget.State().Duration))

	if cmd.Bool("download") {
		path, err := widget.Download(ctx)
		if err != nil {
			return err
		}
		r.writePlain("✓ Saved %s\n", path)
	}

	select {
	case <-widget.Done():
		r.logger.Debug("playback finished", "track", track.ID)
	case <-ctx.Done():
		r.logger.Debug("playback interrupted", "track", track.ID)
	}
	return nil
}

func (r *Runner) resolvePlay(ctx context.Context, cmd *cli.Command, cache *recent.Cache) (models.Track, bool, error) {
	n := cmd.Int("recent")
	if n <= 0 {
		track, err := r.pickTrack(ctx, joinArgs(cmd.Args().Slice()), cmd.Int("index"))
		return track, true, err
	}

	entries, err := cache.List(ctx, recent.Home)
	if err != nil {
		return models.Track{}, false, err
	}
	if n > len(entries) {
		return models.Track{}, false, fmt.Errorf("%w: only %d recently played songs", shared.ErrInvalidArgument, len(entries))
	}
	return entries[n-1].Track(), false, nil
}
