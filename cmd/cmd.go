// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/ytpm/internal/formatter"
	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the example configuration to the --config path",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles sign-in
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in with Google",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in through the browser and store the credential",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in account",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored credential",
				Action: r.AuthLogout,
			},
		},
	}
}

// playlistCommand handles playlist operations against the playlist service
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Print the playlist",
				Flags:  outputFlags(),
				Action: r.PlaylistList,
			},
			{
				Name:      "add",
				Usage:     "Search for a song and append it to the playlist",
				ArgsUsage: "<title>",
				Flags:     outputFlags(),
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "clear",
				Usage: "Remove every song from the playlist",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				}, outputFlags()...),
				Action: r.PlaylistClear,
			},
			{
				Name:      "import",
				Usage:     "Add every title from a file (text, JSON, CSV or Markdown)",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					sourceFormatFlag(),
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Clear the playlist before importing",
					},
					&cli.BoolFlag{
						Name:  "skip-existing",
						Usage: "Skip titles already in the playlist",
					},
					&cli.BoolFlag{
						Name:  "stop-on-error",
						Usage: "Stop at the first title that cannot be added",
					},
				},
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Action: r.PlaylistImport,
			},
			{
				Name:      "diff",
				Usage:     "Compare a file of titles with the playlist",
				ArgsUsage: "<file>",
				Flags:     []cli.Flag{sourceFormatFlag()},
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Action: r.PlaylistDiff,
			},
		},
	}
}

// outputFlags control how a snapshot is printed.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (text, json, csv, markdown)",
			Value:   string(formatter.FormatText),
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to file instead of stdout",
		},
	}
}

// sourceFormatFlag overrides the format guessed from a file extension.
func sourceFormatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Input format (text, json, csv, markdown); guessed from the extension when unset",
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive playlist UI",
		Action: r.TUI,
	}
}
