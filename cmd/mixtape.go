package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/desertthunder/tapedeck/internal/api"
	"github.com/desertthunder/tapedeck/internal/drafts"
	"github.com/desertthunder/tapedeck/internal/formatter"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// MixtapeGet fetches a mixtape and prints it.
func (r *Runner) MixtapeGet(ctx context.Context, cmd *cli.Command) error {
	publicID := cmd.StringArg("id")
	if publicID == "" {
		return fmt.Errorf("%w: mixtape id", shared.ErrMissingArgument)
	}

	mixtape, err := r.client.GetMixtape(ctx, publicID)
	if err != nil {
		return err
	}

	r.cacheDraft(ctx, mixtape)

	if cmd.Bool("json") {
		return r.writeJSON(mixtape, cmd.Bool("pretty"))
	}

	return r.printMixtape(mixtape)
}

// MixtapeCreate creates a mixtape; without a token it is anonymous and
// claimable after signing in.
func (r *Runner) MixtapeCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		name = "Untitled Mixtape"
	}

	mixtape, err := r.client.CreateMixtape(ctx, &api.MixtapeRequest{
		Name:     name,
		IsPublic: cmd.Bool("public"),
		Tracks:   []api.MixtapeTrackRequest{},
	})
	if err != nil {
		return err
	}

	r.cacheDraft(ctx, mixtape)

	r.writePlain("✓ Created '%s' (%s)\n", mixtape.Name, mixtape.PublicID)
	if mixtape.OwnerID == nil {
		r.writePlain("This mixtape is anonymous. Sign in and run 'tapedeck mixtape claim %s' to keep it.\n", mixtape.PublicID)
	}
	return r.writePlain("Edit it with 'tapedeck edit %s'\n", mixtape.PublicID)
}

// MixtapeList prints overviews of the signed-in user's mixtapes.
func (r *Runner) MixtapeList(ctx context.Context, cmd *cli.Command) error {
	overviews, err := r.client.ListMixtapes(ctx)
	if err != nil {
		return err
	}

	if len(overviews) == 0 {
		return r.writePlain("No mixtapes yet. Run 'tapedeck mixtape create' to start one.\n")
	}

	for _, overview := range overviews {
		r.writePlain("%-14s %-30s %3d tracks  %s\n",
			overview.PublicID, overview.Name, overview.TrackCount, overview.LastModifiedTime)
	}
	return nil
}

// MixtapeClaim attaches an anonymous mixtape to the signed-in user.
func (r *Runner) MixtapeClaim(ctx context.Context, cmd *cli.Command) error {
	publicID := cmd.StringArg("id")
	if publicID == "" {
		return fmt.Errorf("%w: mixtape id", shared.ErrMissingArgument)
	}

	mixtape, err := r.client.ClaimMixtape(ctx, publicID)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			r.writePlain("Sign in first: 'tapedeck auth login'\n")
		}
		return err
	}

	r.cacheDraft(ctx, mixtape)
	return r.writePlain("✓ Claimed '%s'\n", mixtape.Name)
}

// MixtapeUndo steps a mixtape one version back and prints the restored state.
func (r *Runner) MixtapeUndo(ctx context.Context, cmd *cli.Command) error {
	return r.historyStep(ctx, cmd, false)
}

// MixtapeRedo steps a mixtape one version forward and prints the restored state.
func (r *Runner) MixtapeRedo(ctx context.Context, cmd *cli.Command) error {
	return r.historyStep(ctx, cmd, true)
}

func (r *Runner) historyStep(ctx context.Context, cmd *cli.Command, forward bool) error {
	publicID := cmd.StringArg("id")
	if publicID == "" {
		return fmt.Errorf("%w: mixtape id", shared.ErrMissingArgument)
	}

	var mixtape *api.MixtapeResponse
	var err error
	if forward {
		mixtape, err = r.client.Redo(ctx, publicID)
	} else {
		mixtape, err = r.client.Undo(ctx, publicID)
	}
	if err != nil {
		return err
	}

	r.cacheDraft(ctx, mixtape)

	r.writePlain("✓ Now at version %d\n", mixtape.Version)
	return r.printMixtape(mixtape)
}

// TrackSearch searches the catalog and prints matches.
func (r *Runner) TrackSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	results, err := r.client.SearchTracks(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	if len(results) == 0 {
		return r.writePlain("No matches for '%s'\n", query)
	}

	for i, track := range results {
		artist := ""
		if len(track.Artists) > 0 {
			artist = track.Artists[0].Name
		}
		r.writePlain("%2d. %s - %s\n    %s\n", i+1, artist, track.Name, track.URI)
	}
	return nil
}

// MixtapeExportSpotify exports the mixtape as a Spotify playlist and copies
// the link to the clipboard.
func (r *Runner) MixtapeExportSpotify(ctx context.Context, cmd *cli.Command) error {
	publicID := cmd.StringArg("id")
	if publicID == "" {
		return fmt.Errorf("%w: mixtape id", shared.ErrMissingArgument)
	}

	r.writePlain("→ Exporting to Spotify...\n")

	mixtape, err := r.client.SpotifyExport(ctx, publicID)
	if err != nil {
		return err
	}

	r.cacheDraft(ctx, mixtape)

	if mixtape.SpotifyPlaylistURL == nil {
		return r.writePlain("✓ Exported, but no playlist URL returned\n")
	}

	r.writePlain("✓ Exported: %s\n", *mixtape.SpotifyPlaylistURL)
	if err := clipboard.WriteAll(*mixtape.SpotifyPlaylistURL); err != nil {
		r.logger.Warnf("clipboard write failed %v", err)
		return r.writePlain("⚠ Could not copy the link to the clipboard\n")
	}
	return r.writePlain("Link copied to clipboard\n")
}

// MixtapeExportFile renders the mixtape to a local file, falling back to the
// draft cache when the service is unreachable.
func (r *Runner) MixtapeExportFile(ctx context.Context, cmd *cli.Command) error {
	publicID := cmd.StringArg("id")
	if publicID == "" {
		return fmt.Errorf("%w: mixtape id", shared.ErrMissingArgument)
	}

	mixtape, err := r.client.GetMixtape(ctx, publicID)
	if err != nil {
		r.logger.Warn("fetch failed, trying draft cache", "error", err)
		mixtape, err = r.cachedDraft(ctx, publicID)
		if err != nil {
			return err
		}
		r.writePlain("⚠ Service unreachable; exporting cached snapshot (v%d)\n", mixtape.Version)
	} else {
		r.cacheDraft(ctx, mixtape)
	}

	result, err := formatter.WriteExport(mixtape, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	return r.writePlain("✓ Wrote %s\n", result.File)
}

// printMixtape renders a mixtape as a cassette sleeve on the terminal.
func (r *Runner) printMixtape(mixtape *api.MixtapeResponse) error {
	data, err := formatter.ExportToText(mixtape)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	r.writePlain("\nVersion: %d", mixtape.Version)
	if mixtape.CanUndo {
		r.writePlain("  (undo available)")
	}
	if mixtape.CanRedo {
		r.writePlain("  (redo available)")
	}
	if mixtape.OwnerID == nil {
		r.writePlain("  [unclaimed]")
	}
	return r.writePlain("\n")
}

// cacheDraft writes a server snapshot through to the local cache; failures
// only log since the cache is advisory.
func (r *Runner) cacheDraft(ctx context.Context, mixtape *api.MixtapeResponse) {
	db, err := r.openDraftDB()
	if err != nil {
		r.logger.Debug("draft cache unavailable", "error", err)
		return
	}
	defer db.Close()

	if err := drafts.NewRepository(db).Save(ctx, mixtape); err != nil {
		r.logger.Debug("failed to cache draft", "error", err)
	}
}

// cachedDraft loads a snapshot from the local cache.
func (r *Runner) cachedDraft(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
	db, err := r.openDraftDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return drafts.NewRepository(db).Get(ctx, publicID)
}
