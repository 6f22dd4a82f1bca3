package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tapedeck/internal/drafts"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// DraftsList prints the cached snapshots, most recently updated first.
func (r *Runner) DraftsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDraftDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cached, err := drafts.NewRepository(db).List(ctx)
	if err != nil {
		return err
	}

	if len(cached) == 0 {
		return r.writePlain("Draft cache is empty.\n")
	}

	for _, draft := range cached {
		r.writePlain("%-14s %-30s v%-3d %s\n",
			draft.PublicID, draft.Name, draft.Version, draft.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// DraftsShow prints one cached snapshot.
func (r *Runner) DraftsShow(ctx context.Context, cmd *cli.Command) error {
	publicID := cmd.StringArg("id")
	if publicID == "" {
		return fmt.Errorf("%w: mixtape id", shared.ErrMissingArgument)
	}

	mixtape, err := r.cachedDraft(ctx, publicID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(mixtape, true)
	}
	return r.printMixtape(mixtape)
}

// DraftsDelete removes one cached snapshot.
func (r *Runner) DraftsDelete(ctx context.Context, cmd *cli.Command) error {
	publicID := cmd.StringArg("id")
	if publicID == "" {
		return fmt.Errorf("%w: mixtape id", shared.ErrMissingArgument)
	}

	db, err := r.openDraftDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := drafts.NewRepository(db).Delete(ctx, publicID); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted draft %s\n", publicID)
}
