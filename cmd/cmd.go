// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/spin/internal/formatter"
	"github.com/desertthunder/spin/internal/services"
	"github.com/urfave/cli/v3"
)

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func indexFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "index",
		Aliases: []string{"n"},
		Usage:   "Pick the nth search result",
		Value:   1,
	}
}

func viewFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "view",
		Usage: "Recently played list (home or search)",
		Value: "home",
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Export format (csv, markdown, text, json)",
			Value:   string(formatter.FormatText),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file or directory",
		},
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in and out",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password",
						Sources: cli.EnvVars("SPIN_PASSWORD"),
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in user",
				Flags:  jsonFlags(),
				Action: r.AuthStatus,
			},
		},
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search the catalog for songs",
		ArgsUsage: "<query...>",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page, starting at 1",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Results per page",
				Value: services.DefaultPageSize,
			},
		}, jsonFlags()...),
		Action: r.Search,
	}
}

func trendingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "trending",
		Usage: "Show trending songs, new releases or a genre",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "new",
				Usage: "Show new releases instead",
			},
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Show a genre instead",
			},
		}, jsonFlags()...),
		Action: r.Trending,
	}
}

func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "play",
		Aliases:   []string{"p"},
		Usage:     "Search for a song and play it until it ends",
		ArgsUsage: "<query...>",
		Flags: []cli.Flag{
			indexFlag(),
			&cli.IntFlag{
				Name:  "recent",
				Usage: "Replay the nth recently played song instead of searching",
			},
			&cli.BoolFlag{
				Name:  "loop",
				Usage: "Repeat the song",
			},
			&cli.BoolFlag{
				Name:  "download",
				Usage: "Save the song to the download directory",
			},
		},
		Before: r.requireSession,
		Action: r.Play,
	}
}

func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "lyrics",
		Usage:     "Print the lyrics of a song",
		ArgsUsage: "<track-id>",
		Action:    r.Lyrics,
	}
}

func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "recent",
		Usage:  "Recently played songs",
		Before: r.requireSession,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recently played songs",
				Flags:  append([]cli.Flag{viewFlag()}, jsonFlags()...),
				Action: r.RecentList,
			},
			{
				Name:      "remove",
				Usage:     "Remove a song from a recently played list",
				ArgsUsage: "<track-id>",
				Flags:     []cli.Flag{viewFlag()},
				Action:    r.RecentRemove,
			},
		},
	}
}

func likesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "likes",
		Usage:  "Liked songs",
		Before: r.requireSession,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List liked songs",
				Flags:  jsonFlags(),
				Action: r.LikesList,
			},
			{
				Name:      "add",
				Usage:     "Search for a song and like it",
				ArgsUsage: "<query...>",
				Flags:     []cli.Flag{indexFlag()},
				Action:    r.LikesAdd,
			},
			{
				Name:      "remove",
				Usage:     "Unlike a song",
				ArgsUsage: "<track-id>",
				Action:    r.LikesRemove,
			},
			{
				Name:      "find",
				Usage:     "Fuzzy find liked songs by title or artist",
				ArgsUsage: "<query...>",
				Action:    r.LikesFind,
			},
			{
				Name:   "export",
				Usage:  "Export liked songs",
				Flags:  exportFlags(),
				Action: r.LikesExport,
			},
		},
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Manage playlists",
		Before:  r.requireSession,
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a playlist",
				ArgsUsage: "<name...>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:   "list",
				Usage:  "List playlists",
				Flags:  jsonFlags(),
				Action: r.PlaylistList,
			},
			{
				Name:      "show",
				Usage:     "Show the songs in a playlist",
				ArgsUsage: "<playlist-id>",
				Flags:     jsonFlags(),
				Action:    r.PlaylistShow,
			},
			{
				Name:      "add",
				Usage:     "Search for a song and add it to a playlist",
				ArgsUsage: "<playlist-id> <query...>",
				Flags:     []cli.Flag{indexFlag()},
				Action:    r.PlaylistAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a song from a playlist",
				ArgsUsage: "<playlist-id> <track-id>",
				Action:    r.PlaylistRemove,
			},
			{
				Name:      "rename",
				Usage:     "Rename a playlist",
				ArgsUsage: "<playlist-id> <name...>",
				Action:    r.PlaylistRename,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist",
				ArgsUsage: "<playlist-id>",
				Action:    r.PlaylistDelete,
			},
			{
				Name:      "publish",
				Usage:     "Make a playlist public so it can be shared",
				ArgsUsage: "<playlist-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "private",
						Usage: "Make the playlist private again",
					},
				},
				Action: r.PlaylistPublish,
			},
			{
				Name:      "export",
				Usage:     "Export a playlist, or every playlist with --all",
				ArgsUsage: "<playlist-id>",
				Flags: append(exportFlags(),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every playlist into the output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent writers for --all",
						Value: 4,
					},
				),
				Action: r.PlaylistExport,
			},
		},
	}
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "history",
		Usage:  "Show play history",
		Before: r.requireSession,
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of plays to show",
				Value: 25,
			},
		}, jsonFlags()...),
		Action: r.History,
	}
}

func shareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "Share public playlists",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve public playlists over HTTP",
				Action: r.ShareServe,
			},
			{
				Name:      "link",
				Usage:     "Publish a playlist and copy its link to the clipboard",
				ArgsUsage: "<playlist-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the link in a browser",
					},
					&cli.BoolFlag{
						Name:  "no-copy",
						Usage: "Print the link without copying it",
					},
				},
				Before: r.requireSession,
				Action: r.ShareLink,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive player",
		Before: r.requireSession,
		Action: r.TUI,
	}
}
