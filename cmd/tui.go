package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tapedeck/internal/api"
	"github.com/desertthunder/tapedeck/internal/drafts"
	"github.com/desertthunder/tapedeck/internal/editor"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/desertthunder/tapedeck/internal/ui"
	"github.com/urfave/cli/v3"
)

// Edit opens a mixtape in the interactive terminal editor.
func (r *Runner) Edit(ctx context.Context, cmd *cli.Command) error {
	publicID := cmd.StringArg("id")

	var mixtape *api.MixtapeResponse
	var err error

	if cmd.Bool("new") {
		mixtape, err = r.client.CreateMixtape(ctx, &api.MixtapeRequest{
			Name:   "Untitled Mixtape",
			Tracks: []api.MixtapeTrackRequest{},
		})
		if err != nil {
			return fmt.Errorf("failed to create mixtape: %w", err)
		}
	} else {
		if publicID == "" {
			return fmt.Errorf("%w: mixtape id (or --new)", shared.ErrMissingArgument)
		}
		mixtape, err = r.client.GetMixtape(ctx, publicID)
		if err != nil {
			return err
		}
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tapedeck-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var store editor.SnapshotStore
	if db, err := r.openDraftDB(); err == nil {
		defer db.Close()
		store = drafts.NewRepository(db)
	} else {
		fileLogger.Warn("draft cache unavailable", "error", err)
	}

	siteURL := r.config.API.SiteURL
	session := editor.NewSession(ctx, editor.SessionOpts{
		Mixtape:      mixtape,
		Service:      r.client,
		Store:        store,
		Debounce:     time.Duration(r.config.Editor.DebounceMS) * time.Millisecond,
		Logger:       fileLogger,
		ShareBaseURL: siteURL,
		SignInURL: func(next string) string {
			return fmt.Sprintf("%s/signin?%s", siteURL, url.Values{"next": {next}}.Encode())
		},
		Authenticated: r.client.IsAuthenticated(),
	})
	defer session.Close()

	model := ui.NewModel(ctx, session, r.client)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running editor: %w", err)
	}

	return nil
}
