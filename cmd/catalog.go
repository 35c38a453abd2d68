package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/spin/internal/formatter"
	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/playback"
	"github.com/desertthunder/spin/internal/services"
	"github.com/desertthunder/spin/internal/shared"
	"github.com/urfave/cli/v3"
)

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// pickTrack searches for query and returns the nth (1-based) result.
func (r *Runner) pickTrack(ctx context.Context, query string, n int) (models.Track, error) {
	if query == "" {
		return models.Track{}, fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if n < 1 || n > services.DefaultPageSize {
		return models.Track{}, fmt.Errorf("%w: --index must be between 1 and %d", shared.ErrInvalidArgument, services.DefaultPageSize)
	}

	tracks, err := r.catalog.SearchTracks(ctx, query, 1, services.DefaultPageSize)
	if err != nil {
		return models.Track{}, err
	}
	if len(tracks) == 0 {
		return models.Track{}, fmt.Errorf("%w: no results for %q", shared.ErrTrackNotFound, query)
	}
	if n > len(tracks) {
		return models.Track{}, fmt.Errorf("%w: only %d results for %q", shared.ErrInvalidArgument, len(tracks), query)
	}
	return tracks[n-1], nil
}

// Search prints one page of catalog results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := joinArgs(cmd.Args().Slice())
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	page := cmd.Int("page")
	limit := cmd.Int("limit")
	if page < 1 || limit < 1 {
		return fmt.Errorf("%w: --page and --limit must be positive", shared.ErrInvalidArgument)
	}

	r.logger.Debug("searching", "query", query, "page", page, "limit", limit)
	tracks, err := r.catalog.SearchTracks(ctx, query, page, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	if len(tracks) == 0 {
		return r.writePlain("No results for %q\n", query)
	}

	formatter.TrackTable(r.output, tracks, nil)
	if len(tracks) == limit {
		r.writePlain("More results: spin search --page %d %s\n", page+1, query)
	}
	return nil
}

// Trending prints a home screen shelf.
func (r *Runner) Trending(ctx context.Context, cmd *cli.Command) error {
	var tracks []models.Track
	var err error
	title := "Trending"

	switch genre := strings.ToLower(cmd.String("genre")); {
	case genre != "":
		title = strings.ToUpper(genre[:1]) + genre[1:]
		tracks, err = r.catalog.Genre(ctx, genre)
	case cmd.Bool("new"):
		title = "New Releases"
		tracks, err = r.catalog.NewReleases(ctx)
	default:
		tracks, err = r.catalog.Trending(ctx)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlainHeader(title)
	formatter.TrackTable(r.output, tracks, nil)
	return nil
}

// Lyrics prints the plain-text lyrics of a track.
func (r *Runner) Lyrics(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	raw, err := r.lyrics.GetLyrics(ctx, id)
	if errors.Is(err, shared.ErrLyricsUnavailable) {
		return r.writePlain("Lyrics not available for this song\n")
	}
	if err != nil {
		return err
	}

	return r.writePlain("%s\n", strings.TrimSpace(playback.CleanLyrics(raw)))
}
