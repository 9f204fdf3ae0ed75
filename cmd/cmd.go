// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

func tableFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "table",
		Aliases: []string{"t"},
		Usage:   "Render output as a table",
	}
}

func limitFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Number of chart entries (default from config)",
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand handles the Spotify session.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with Spotify in the browser and save the token",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the login URL instead of opening a browser",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the callback",
						Value: loginTimeout,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Forget the saved token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show whether a token is saved and who it belongs to",
				Action: r.AuthStatus,
			},
		},
	}
}

// playlistsCommand handles playlist operations.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Spotify playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the current user's playlists",
				Flags: append(jsonFlags(), tableFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to show",
					},
				),
				Action: r.PlaylistsList,
			},
			{
				Name:      "show",
				Usage:     "Show a playlist and its tracks",
				ArgsUsage: "<playlist-id>",
				Flags:     jsonFlags(),
				Action:    r.PlaylistsShow,
			},
			{
				Name:      "create",
				Usage:     "Create a private playlist",
				ArgsUsage: "<name>",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
				),
				Action: r.PlaylistsCreate,
			},
			{
				Name:      "rename",
				Usage:     "Change a playlist's name and description",
				ArgsUsage: "<playlist-id> <name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
				},
				Action: r.PlaylistsRename,
			},
			{
				Name:      "delete",
				Usage:     "Unfollow (delete) a playlist",
				ArgsUsage: "<playlist-id>",
				Action:    r.PlaylistsDelete,
			},
			{
				Name:      "export",
				Usage:     "Export playlists to files",
				ArgsUsage: "[playlist-id...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every playlist of the current user",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent exports (max 10)",
						Value: 5,
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

// tracksCommand handles adding and removing playlist tracks.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Playlist track operations",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a track to one or more playlists",
				ArgsUsage: "<track-uri>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "playlist",
						Aliases:  []string{"p"},
						Usage:    "Destination playlist ID (repeatable)",
						Required: true,
					},
				},
				Action: r.TracksAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a track from a playlist",
				ArgsUsage: "<track-uri>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "playlist",
						Aliases:  []string{"p"},
						Usage:    "Playlist ID",
						Required: true,
					},
				},
				Action: r.TracksRemove,
			},
		},
	}
}

// searchCommand runs a public track search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search Spotify tracks",
		ArgsUsage: "<query>",
		Flags:     jsonFlags(),
		Action:    r.Search,
	}
}

// chartCommand handles the Deezer chart.
func chartCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "Deezer top tracks",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show the current chart",
				Flags: append(jsonFlags(), limitFlag(), tableFlag(),
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
				),
				Action: r.ChartList,
			},
			{
				Name:  "add",
				Usage: "Add chart tracks to a playlist",
				Flags: []cli.Flag{
					limitFlag(),
					&cli.StringFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Destination playlist ID",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Create a new playlist with this name instead",
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Description for a new playlist",
					},
					&cli.IntFlag{
						Name:  "rank",
						Usage: "Add only the entry at this chart position",
					},
				},
				Action: r.ChartAdd,
			},
			{
				Name:      "diff",
				Usage:     "Show which chart tracks a playlist is missing",
				ArgsUsage: "<playlist-id>",
				Flags:     append(jsonFlags(), limitFlag(), tableFlag()),
				Action:    r.ChartDiff,
			},
		},
	}
}

// serveCommand runs the web server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the login flow and the JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default from config)",
			},
		},
		Action: r.Serve,
	}
}
