// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// mixtapeCommand handles mixtape operations against the service
func mixtapeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "mixtape",
		Aliases: []string{"mix"},
		Usage:   "Mixtape operations",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Fetch a mixtape by public id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.MixtapeGet,
			},
			{
				Name:  "create",
				Usage: "Create a mixtape (anonymous without a token, claim later)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "public",
						Usage: "Make the mixtape publicly viewable",
					},
				},
				Action: r.MixtapeCreate,
			},
			{
				Name:   "list",
				Usage:  "List your mixtapes (requires sign-in)",
				Action: r.MixtapeList,
			},
			{
				Name:  "claim",
				Usage: "Claim an anonymously created mixtape",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.MixtapeClaim,
			},
			{
				Name:  "undo",
				Usage: "Step a mixtape one version back",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.MixtapeUndo,
			},
			{
				Name:  "redo",
				Usage: "Step a mixtape one version forward",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.MixtapeRedo,
			},
			{
				Name:  "search",
				Usage: "Search the catalog for tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TrackSearch,
			},
			{
				Name:  "export",
				Usage: "Export a mixtape",
				Commands: []*cli.Command{
					{
						Name:  "spotify",
						Usage: "Export as a Spotify playlist and copy the link",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.MixtapeExportSpotify,
					},
					{
						Name:  "file",
						Usage: "Write the mixtape to a local file",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "format",
								Aliases: []string{"f"},
								Usage:   "Output format: csv, markdown, text, json",
								Value:   "markdown",
							},
							&cli.StringFlag{
								Name:    "output",
								Aliases: []string{"o"},
								Usage:   "Output base path (extension added per format)",
							},
						},
						Action: r.MixtapeExportFile,
					},
				},
			},
		},
	}
}

// draftsCommand handles the local snapshot cache
func draftsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "drafts",
		Usage: "Browse the local draft cache",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List cached mixtape snapshots",
				Action: r.DraftsList,
			},
			{
				Name:  "show",
				Usage: "Show a cached snapshot",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.DraftsShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a cached snapshot",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.DraftsDelete,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the draft database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the draft cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in through the browser and store the API token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the stored API token",
				Action: r.AuthLogout,
			},
		},
	}
}

// editCommand launches the interactive editor
func editCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "edit",
		Aliases: []string{"tui"},
		Usage:   "Edit a mixtape in the interactive terminal editor",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "new",
				Usage: "Create a fresh mixtape and open it",
			},
		},
		Action: r.Edit,
	}
}
