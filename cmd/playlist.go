package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/spin/internal/formatter"
	"github.com/desertthunder/spin/internal/library"
	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/shared"
	"github.com/desertthunder/spin/internal/tasks"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

type playlistJSON struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Public      bool           `json:"public"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Tracks      []models.Track `json:"tracks,omitempty"`
}

func toPlaylistJSON(p *models.Playlist, tracks []*models.PlaylistTrack) playlistJSON {
	return playlistJSON{
		ID:          p.ID(),
		Name:        p.Name,
		Description: p.Description,
		Public:      p.Public,
		UpdatedAt:   p.UpdatedAt(),
		Tracks:      lo.Map(tracks, func(t *models.PlaylistTrack, _ int) models.Track { return t.Track() }),
	}
}

// playlistArgs returns the playlist id and the remaining arguments joined.
func playlistArgs(cmd *cli.Command) (string, string, error) {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return "", "", fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	return args[0], joinArgs(args[1:]), nil
}

func (r *Runner) withLibrary(ctx context.Context, fn func(lib *library.Library) error) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}
	return fn(lib)
}

// PlaylistCreate creates a private playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	return r.withLibrary(ctx, func(lib *library.Library) error {
		p, err := lib.CreatePlaylist(joinArgs(cmd.Args().Slice()), cmd.String("description"))
		if err != nil {
			return err
		}
		return r.writePlain("✓ Created %s (%s)\n", p.Name, p.ID())
	})
}

// PlaylistList prints the user's playlists with track counts.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	return r.withLibrary(ctx, func(lib *library.Library) error {
		playlists, err := lib.Playlists()
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			return r.writeJSON(lo.Map(playlists, func(p *models.Playlist, _ int) playlistJSON {
				return toPlaylistJSON(p, nil)
			}), cmd.Bool("pretty"))
		}
		if len(playlists) == 0 {
			return r.writePlain("No playlists yet (run `spin playlist create <name>`)\n")
		}

		counts := make(map[string]int, len(playlists))
		for _, p := range playlists {
			tracks, err := lib.PlaylistTracks(p.ID())
			if err != nil {
				return err
			}
			counts[p.ID()] = len(tracks)
		}

		formatter.PlaylistTable(r.output, playlists, counts)
		return nil
	})
}

// PlaylistShow prints a playlist and its tracks.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	id, _, err := playlistArgs(cmd)
	if err != nil {
		return err
	}

	return r.withLibrary(ctx, func(lib *library.Library) error {
		p, err := lib.Playlist(id)
		if err != nil {
			return err
		}
		tracks, err := lib.PlaylistTracks(id)
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			return r.writeJSON(toPlaylistJSON(p, tracks), cmd.Bool("pretty"))
		}

		r.writePlainHeader(p.Name)
		if p.Description != "" {
			r.writePlain("%s\n", p.Description)
		}
		if len(tracks) == 0 {
			return r.writePlain("No songs yet\n")
		}

		list := lo.Map(tracks, func(t *models.PlaylistTrack, _ int) models.Track { return t.Track() })
		formatter.TrackTable(r.output, list, lo.SliceToMap(list, func(t models.Track) (string, bool) {
			return t.ID, lib.IsLiked(t.ID)
		}))
		return nil
	})
}

// PlaylistAdd searches for a song and adds it to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	id, query, err := playlistArgs(cmd)
	if err != nil {
		return err
	}

	return r.withLibrary(ctx, func(lib *library.Library) error {
		p, err := lib.Playlist(id)
		if err != nil {
			return err
		}
		track, err := r.pickTrack(ctx, query, cmd.Int("index"))
		if err != nil {
			return err
		}
		if err := lib.AddToPlaylist(id, track); err != nil {
			return err
		}
		return r.writePlain("✓ Added %s to %s\n", track.Name, p.Name)
	})
}

// PlaylistRemove removes a song from a playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	id, trackID, err := playlistArgs(cmd)
	if err != nil {
		return err
	}
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	return r.withLibrary(ctx, func(lib *library.Library) error {
		if err := lib.RemoveFromPlaylist(id, trackID); err != nil {
			return err
		}
		return r.writePlain("✓ Removed %s\n", trackID)
	})
}

// PlaylistRename renames a playlist.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	id, name, err := playlistArgs(cmd)
	if err != nil {
		return err
	}

	return r.withLibrary(ctx, func(lib *library.Library) error {
		p, err := lib.RenamePlaylist(id, name)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Renamed to %s\n", p.Name)
	})
}

// PlaylistDelete deletes a playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	id, _, err := playlistArgs(cmd)
	if err != nil {
		return err
	}

	return r.withLibrary(ctx, func(lib *library.Library) error {
		if err := lib.DeletePlaylist(id); err != nil {
			return err
		}
		return r.writePlain("✓ Deleted %s\n", id)
	})
}

// PlaylistPublish makes a playlist public, or private with --private.
func (r *Runner) PlaylistPublish(ctx context.Context, cmd *cli.Command) error {
	id, _, err := playlistArgs(cmd)
	if err != nil {
		return err
	}

	return r.withLibrary(ctx, func(lib *library.Library) error {
		p, err := lib.SetPublic(id, !cmd.Bool("private"))
		if err != nil {
			return err
		}
		if !p.Public {
			return r.writePlain("✓ %s is now private\n", p.Name)
		}
		return r.writePlain("✓ %s is now public\n", p.Name)
	})
}

// PlaylistExport writes a playlist in one of the export formats.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("all") {
		return r.PlaylistExportAll(ctx, cmd)
	}

	id, _, err := playlistArgs(cmd)
	if err != nil {
		return err
	}

	return r.withLibrary(ctx, func(lib *library.Library) error {
		p, err := lib.Playlist(id)
		if err != nil {
			return err
		}
		tracks, err := lib.PlaylistTracks(id)
		if err != nil {
			return err
		}
		return r.export(formatter.PlaylistExport(p, tracks), cmd)
	})
}

// PlaylistExportAll writes every playlist concurrently and prints progress as it goes.
func (r *Runner) PlaylistExportAll(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	return r.withLibrary(ctx, func(lib *library.Library) error {
		playlists, err := lib.Playlists()
		if err != nil {
			return err
		}
		if len(playlists) == 0 {
			return r.writePlain("No playlists to export\n")
		}

		ids := lo.Map(playlists, func(p *models.Playlist, _ int) string { return p.ID() })
		source := tasks.ExportSourceFunc(func(ctx context.Context, id string) (*formatter.Export, error) {
			p, err := lib.Playlist(id)
			if err != nil {
				return nil, err
			}
			tracks, err := lib.PlaylistTracks(id)
			if err != nil {
				return nil, err
			}
			return formatter.PlaylistExport(p, tracks), nil
		})

		prog := make(chan tasks.ProgressUpdate, len(ids)*2+1)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for update := range prog {
				r.writePlain("%s\n", update.Message)
			}
		}()

		result, err := tasks.BulkExport(ctx, prog, source, ids, tasks.BulkExportOpts{
			Format:     format,
			OutputDir:  cmd.String("output"),
			NumWorkers: cmd.Int("workers"),
			RateLimit:  r.config.Catalog.RateLimit,
			Client:     r.httpClient,
			Logger:     r.logger,
		})
		close(prog)
		<-done
		if err != nil {
			return err
		}

		return r.writePlainln("✓ Exported %d of %d playlists to %s", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	})
}
