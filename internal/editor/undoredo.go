package editor

import (
	"context"
	"sync"

	"github.com/desertthunder/tapedeck/internal/api"
)

// UndoRedoController issues undo and redo requests against the server's
// authoritative version history.
//
// Each operation is a no-op when the corresponding capability flag is false
// or when either operation is already in flight: there is no queueing of
// repeated clicks, and undo and redo exclude each other as well as
// themselves. A successful response is a complete snapshot of the mixtape at
// that point in history; the session replaces its whole form state with it.
type UndoRedoController struct {
	mu       sync.Mutex
	svc      api.MixtapeService
	publicID string
	canUndo  bool
	canRedo  bool
	inFlight bool
}

// NewUndoRedoController creates a controller for one mixtape's history.
func NewUndoRedoController(svc api.MixtapeService, publicID string, canUndo, canRedo bool) *UndoRedoController {
	return &UndoRedoController{
		svc:      svc,
		publicID: publicID,
		canUndo:  canUndo,
		canRedo:  canRedo,
	}
}

// SetFlags updates the capability flags from a server response.
func (c *UndoRedoController) SetFlags(canUndo, canRedo bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canUndo = canUndo
	c.canRedo = canRedo
}

// CanUndo reports whether an undo would currently be attempted.
func (c *UndoRedoController) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canUndo && !c.inFlight
}

// CanRedo reports whether a redo would currently be attempted.
func (c *UndoRedoController) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canRedo && !c.inFlight
}

// Busy reports whether an undo or redo is in flight.
func (c *UndoRedoController) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Undo requests one step back in history. A (nil, nil) return means the
// click was ignored: nothing to undo, or an operation already pending.
//
// On success the capability flags are refreshed from the snapshot. On
// failure local state is untouched; the attempted undo simply didn't happen.
func (c *UndoRedoController) Undo(ctx context.Context) (*api.MixtapeResponse, error) {
	if !c.begin(true) {
		return nil, nil
	}
	defer c.end()

	snapshot, err := c.svc.Undo(ctx, c.publicID)
	if err != nil {
		return nil, err
	}

	c.SetFlags(snapshot.CanUndo, snapshot.CanRedo)
	return snapshot, nil
}

// Redo requests one step forward in history, with the same ignore and
// failure semantics as Undo.
func (c *UndoRedoController) Redo(ctx context.Context) (*api.MixtapeResponse, error) {
	if !c.begin(false) {
		return nil, nil
	}
	defer c.end()

	snapshot, err := c.svc.Redo(ctx, c.publicID)
	if err != nil {
		return nil, err
	}

	c.SetFlags(snapshot.CanUndo, snapshot.CanRedo)
	return snapshot, nil
}

// begin transitions Idle -> Pending, returning false when the operation
// should be ignored.
func (c *UndoRedoController) begin(undo bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return false
	}
	if undo && !c.canUndo {
		return false
	}
	if !undo && !c.canRedo {
		return false
	}

	c.inFlight = true
	return true
}

func (c *UndoRedoController) end() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}
