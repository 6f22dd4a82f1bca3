package drafts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/tapedeck/internal/api"
	"github.com/desertthunder/tapedeck/internal/shared"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewRepository(db)
}

func testMixtape(publicID, name string, version int) *api.MixtapeResponse {
	text := "liner notes"
	return &api.MixtapeResponse{
		PublicID:  publicID,
		Name:      name,
		IntroText: "a tape for testing",
		Version:   version,
		CanUndo:   version > 1,
		Tracks: []api.MixtapeTrackResponse{
			{
				TrackPosition: 1,
				TrackText:     &text,
				Track: api.TrackDetails{
					ID:      "track_1",
					Name:    "First Song",
					Artists: []api.TrackArtist{{Name: "The Testers"}},
					Album:   api.TrackAlbum{Name: "Fixtures"},
					URI:     "spotify:track:1",
				},
			},
		},
	}
}

func TestRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Save And Get Round Trip", func(t *testing.T) {
		repo := testRepository(t)
		mixtape := testMixtape("mix_1", "Road Trip", 3)

		if err := repo.Save(ctx, mixtape); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.Get(ctx, "mix_1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Name != "Road Trip" || got.Version != 3 {
			t.Errorf("expected cached fields, got name=%q version=%d", got.Name, got.Version)
		}
		if len(got.Tracks) != 1 || got.Tracks[0].Track.URI != "spotify:track:1" {
			t.Error("expected track payload preserved")
		}
		if got.Tracks[0].TrackText == nil || *got.Tracks[0].TrackText != "liner notes" {
			t.Error("expected annotation preserved")
		}
	})

	t.Run("Save Upserts By Public ID", func(t *testing.T) {
		repo := testRepository(t)

		if err := repo.Save(ctx, testMixtape("mix_1", "Original", 1)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := repo.Save(ctx, testMixtape("mix_1", "Renamed", 2)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.Get(ctx, "mix_1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Name != "Renamed" || got.Version != 2 {
			t.Errorf("expected newer snapshot, got name=%q version=%d", got.Name, got.Version)
		}

		drafts, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(drafts) != 1 {
			t.Errorf("expected a single row after upsert, got %d", len(drafts))
		}
	})

	t.Run("Get Unknown", func(t *testing.T) {
		repo := testRepository(t)

		_, err := repo.Get(ctx, "missing")
		if !errors.Is(err, shared.ErrMixtapeNotFound) {
			t.Errorf("expected ErrMixtapeNotFound, got %v", err)
		}
	})

	t.Run("List Orders By Recency", func(t *testing.T) {
		repo := testRepository(t)

		if err := repo.Save(ctx, testMixtape("mix_old", "Older", 1)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		if err := repo.Save(ctx, testMixtape("mix_new", "Newer", 1)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		drafts, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(drafts) != 2 {
			t.Fatalf("expected 2 drafts, got %d", len(drafts))
		}
		if drafts[0].PublicID != "mix_new" {
			t.Errorf("expected most recent first, got %q", drafts[0].PublicID)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := testRepository(t)

		if err := repo.Save(ctx, testMixtape("mix_1", "Doomed", 1)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := repo.Delete(ctx, "mix_1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := repo.Get(ctx, "mix_1"); !errors.Is(err, shared.ErrMixtapeNotFound) {
			t.Errorf("expected ErrMixtapeNotFound after delete, got %v", err)
		}

		if err := repo.Delete(ctx, "mix_1"); !errors.Is(err, shared.ErrMixtapeNotFound) {
			t.Errorf("expected ErrMixtapeNotFound for second delete, got %v", err)
		}
	})
}
