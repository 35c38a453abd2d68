package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spin/internal/formatter"
	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/recent"
	"github.com/desertthunder/spin/internal/shared"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

func entryTracks(entries []models.RecentEntry) []models.Track {
	return lo.Map(entries, func(e models.RecentEntry, _ int) models.Track { return e.Track() })
}

// RecentList prints a recently played list.
func (r *Runner) RecentList(ctx context.Context, cmd *cli.Command) error {
	view, err := recent.ParseView(cmd.String("view"))
	if err != nil {
		return err
	}

	cache, err := r.recentCache(ctx)
	if err != nil {
		return err
	}

	entries, err := cache.List(ctx, view)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}
	if len(entries) == 0 {
		return r.writePlain("Nothing played yet\n")
	}

	return r.printTracks(ctx, entryTracks(entries))
}

// RecentRemove drops a track from a recently played list.
func (r *Runner) RecentRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	view, err := recent.ParseView(cmd.String("view"))
	if err != nil {
		return err
	}

	cache, err := r.recentCache(ctx)
	if err != nil {
		return err
	}

	entries, err := cache.Remove(ctx, view, id)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Removed %s (%d left in %s)\n", id, len(entries), view)
}

// printTracks renders tracks with the signed-in user's likes marked.
func (r *Runner) printTracks(ctx context.Context, tracks []models.Track) error {
	liked := map[string]bool{}
	if lib, err := r.library(ctx); err == nil {
		for _, t := range tracks {
			liked[t.ID] = lib.IsLiked(t.ID)
		}
	} else {
		r.logger.Debug("likes unavailable", "error", err)
	}

	formatter.TrackTable(r.output, tracks, liked)
	return nil
}
