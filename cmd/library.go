package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spin/internal/formatter"
	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

func likedTracks(likes []*models.LikedTrack) []models.Track {
	return lo.Map(likes, func(l *models.LikedTrack, _ int) models.Track { return l.Track() })
}

// LikesList prints the user's liked songs, newest first.
func (r *Runner) LikesList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	likes, err := lib.LikedTracks()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(likes, cmd.Bool("pretty"))
	}
	if len(likes) == 0 {
		return r.writePlain("No liked songs yet\n")
	}

	tracks := likedTracks(likes)
	formatter.TrackTable(r.output, tracks, lo.SliceToMap(tracks, func(t models.Track) (string, bool) {
		return t.ID, true
	}))
	return nil
}

// LikesAdd searches for a song and likes it.
func (r *Runner) LikesAdd(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	track, err := r.pickTrack(ctx, joinArgs(cmd.Args().Slice()), cmd.Int("index"))
	if err != nil {
		return err
	}

	if err := lib.Like(track); err != nil {
		return err
	}
	return r.writePlain("♥ %s · %s\n", track.Name, track.ArtistName)
}

// LikesRemove unlikes a song by track id.
func (r *Runner) LikesRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	if err := lib.Unlike(id); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %s from liked songs\n", id)
}

// LikesFind fuzzy matches liked songs against a title or artist.
func (r *Runner) LikesFind(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	matches, err := lib.FindLiked(joinArgs(cmd.Args().Slice()))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return r.writePlain("No liked songs match\n")
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.output)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Score", "Title", "Artist", "ID"})
	for _, m := range matches {
		t.AppendRow(table.Row{fmt.Sprintf("%.2f", m.Score), m.Track.Name, m.Track.ArtistName, m.Track.TrackID})
	}
	t.Render()
	return nil
}

// LikesExport writes liked songs in one of the export formats.
func (r *Runner) LikesExport(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	likes, err := lib.LikedTracks()
	if err != nil {
		return err
	}

	return r.export(formatter.LikedExport(likes), cmd)
}

// History prints the user's most recent plays.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	if limit < 1 {
		return fmt.Errorf("%w: --limit must be positive", shared.ErrInvalidArgument)
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	plays, err := lib.History(limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(plays, cmd.Bool("pretty"))
	}
	if len(plays) == 0 {
		return r.writePlain("Nothing played yet\n")
	}

	formatter.HistoryTable(r.output, plays)
	return nil
}

func (r *Runner) export(export *formatter.Export, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	w := &formatter.Writer{Client: r.httpClient, Logger: r.logger}
	paths, err := w.Write(export, format, cmd.String("output"))
	if err != nil {
		return err
	}

	for _, p := range paths {
		r.writePlain("✓ Wrote %s\n", p)
	}
	return nil
}
