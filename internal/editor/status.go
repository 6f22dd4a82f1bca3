package editor

// Phase identifies which editor operation an [Event] belongs to.
type Phase int

const (
	PhaseSave Phase = iota
	PhaseUndo
	PhaseRedo
	PhaseClaim
	PhaseExport
	PhaseClipboard
)

func (p Phase) String() string {
	switch p {
	case PhaseSave:
		return "save"
	case PhaseUndo:
		return "undo"
	case PhaseRedo:
		return "redo"
	case PhaseClaim:
		return "claim"
	case PhaseExport:
		return "export"
	case PhaseClipboard:
		return "clipboard"
	default:
		return ""
	}
}

// Event is a status update emitted by a [Session] for toolbar display.
//
// Err is set on failure events. Notify marks events that warrant a
// toast-style notification on top of the transient status text.
type Event struct {
	Phase  Phase
	Status string
	Err    error
	Notify bool
}

// Status text shown near the toolbar for each operation phase.
const (
	statusSaving       = "Saving..."
	statusSaveFailed   = "Save failed"
	statusUndoing      = "Undoing..."
	statusUndoOK       = "Undo successful"
	statusUndoFailed   = "Undo failed"
	statusRedoing      = "Redoing..."
	statusRedoOK       = "Redo successful"
	statusRedoFailed   = "Redo failed"
	statusClaiming     = "Claiming..."
	statusClaimed      = "Mixtape claimed"
	statusExporting    = "Exporting to Spotify..."
	statusExported     = "Exported to Spotify"
	statusExportFailed = "Error exporting to Spotify"
)

func saveStartedEvent() Event {
	return Event{Phase: PhaseSave, Status: statusSaving}
}

func saveSettledEvent(err error) Event {
	if err != nil {
		return Event{Phase: PhaseSave, Status: statusSaveFailed, Err: err}
	}
	return Event{Phase: PhaseSave, Status: ""}
}

func historyStartedEvent(phase Phase) Event {
	if phase == PhaseRedo {
		return Event{Phase: PhaseRedo, Status: statusRedoing}
	}
	return Event{Phase: PhaseUndo, Status: statusUndoing}
}

func historySettledEvent(phase Phase, err error) Event {
	if phase == PhaseRedo {
		if err != nil {
			return Event{Phase: PhaseRedo, Status: statusRedoFailed, Err: err, Notify: true}
		}
		return Event{Phase: PhaseRedo, Status: statusRedoOK}
	}
	if err != nil {
		return Event{Phase: PhaseUndo, Status: statusUndoFailed, Err: err, Notify: true}
	}
	return Event{Phase: PhaseUndo, Status: statusUndoOK}
}

func claimEvent(status string, err error) Event {
	return Event{Phase: PhaseClaim, Status: status, Err: err}
}

func exportEvent(status string, err error) Event {
	return Event{Phase: PhaseExport, Status: status, Err: err, Notify: err != nil}
}

func clipboardFailedEvent(err error) Event {
	return Event{Phase: PhaseClipboard, Status: "Unable to copy to clipboard", Err: err, Notify: true}
}
