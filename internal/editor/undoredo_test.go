package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/tapedeck/internal/api"
	tu "github.com/desertthunder/tapedeck/internal/testing"
)

func TestUndoRedoController(t *testing.T) {
	t.Run("Undo Ignored Without Capability", func(t *testing.T) {
		svc := &tu.MockMixtapeService{}
		c := NewUndoRedoController(svc, "mix_123", false, false)

		snapshot, err := c.Undo(context.Background())
		if snapshot != nil || err != nil {
			t.Errorf("expected ignored click, got (%v, %v)", snapshot, err)
		}
		if len(svc.Calls()) != 0 {
			t.Error("expected no service call for a disabled undo")
		}
	})

	t.Run("Undo Refreshes Flags From Snapshot", func(t *testing.T) {
		svc := &tu.MockMixtapeService{
			UndoFunc: func(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
				return &api.MixtapeResponse{PublicID: publicID, Version: 3, CanUndo: false, CanRedo: true}, nil
			},
		}
		c := NewUndoRedoController(svc, "mix_123", true, false)

		snapshot, err := c.Undo(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if snapshot == nil || snapshot.Version != 3 {
			t.Fatalf("expected version 3 snapshot, got %v", snapshot)
		}
		if c.CanUndo() {
			t.Error("expected undo disabled after reaching oldest version")
		}
		if !c.CanRedo() {
			t.Error("expected redo enabled after an undo")
		}
	})

	t.Run("Failure Leaves Flags Untouched", func(t *testing.T) {
		boom := errors.New("service unavailable")
		svc := &tu.MockMixtapeService{
			UndoFunc: func(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
				return nil, boom
			},
		}
		c := NewUndoRedoController(svc, "mix_123", true, true)

		if _, err := c.Undo(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("expected service error, got %v", err)
		}
		if !c.CanUndo() || !c.CanRedo() {
			t.Error("expected capability flags preserved after failure")
		}
	})

	t.Run("Operations Exclude Each Other", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		svc := &tu.MockMixtapeService{
			UndoFunc: func(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
				close(started)
				<-release
				return &api.MixtapeResponse{PublicID: publicID, CanUndo: true, CanRedo: true}, nil
			},
		}
		c := NewUndoRedoController(svc, "mix_123", true, true)

		done := make(chan struct{})
		go func() {
			defer close(done)
			if _, err := c.Undo(context.Background()); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()

		<-started

		if c.CanUndo() || c.CanRedo() {
			t.Error("expected both operations disabled while one is in flight")
		}
		if snapshot, err := c.Redo(context.Background()); snapshot != nil || err != nil {
			t.Errorf("expected redo ignored during pending undo, got (%v, %v)", snapshot, err)
		}

		close(release)
		<-done

		calls := svc.Calls()
		if len(calls) != 1 || calls[0] != "Undo" {
			t.Errorf("expected a single Undo call, got %v", calls)
		}
		if !c.CanRedo() {
			t.Error("expected redo available again after the undo settled")
		}
	})
}
