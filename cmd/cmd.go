// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/songs/internal/services"
	"github.com/urfave/cli/v3"
)

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address as host:port (overrides server.host and server.port)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand writes the config file and prepares the history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create configuration and the rating history database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file from the default template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the rating history database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// listCommand prints one page of songs
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List a page of songs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page number, starting at 1",
				Value: services.DefaultPage,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Songs per page",
				Value: services.DefaultLimit,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.List,
	}
}

// findCommand looks songs up by title
func findCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "find",
		Usage: "Find songs by title (case-insensitive, exact)",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "title",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Find,
	}
}

// rateCommand sets a song's star rating
func rateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "rate",
		Usage: "Set the star rating (0-5) of a song",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
			&cli.StringArg{
				Name: "rating",
			},
		},
		Action: r.Rate,
	}
}

// historyCommand lists recorded rating changes
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recorded rating changes, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Only show changes for this song id",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of changes to show (0 for all)",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// exportCommand renders the catalog in another format
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog as csv, markdown or text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: csv, markdown or text",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (defaults to stdout)",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing and rating.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse and rate songs interactively",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Songs per page",
				Value: 20,
			},
		},
		Action: r.TUI,
	}
}
