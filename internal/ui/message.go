package ui

import (
	"github.com/desertthunder/tapedeck/internal/api"
	"github.com/desertthunder/tapedeck/internal/editor"
)

// statusEventMsg delivers one editing session event to the toolbar.
type statusEventMsg editor.Event

// eventsClosedMsg signals the session's event channel is drained and closed.
type eventsClosedMsg struct{}

// searchResultsMsg carries catalog search results (or the failure).
type searchResultsMsg struct {
	query   string
	results []api.TrackDetails
	err     error
}

// historyDoneMsg signals an undo or redo settled; the track list and fields
// are re-read from the session on receipt.
type historyDoneMsg struct {
	err error
}

// claimDoneMsg signals a claim attempt settled.
type claimDoneMsg struct {
	err error
}

// exportDoneMsg carries the playlist URL from a Spotify export.
type exportDoneMsg struct {
	url string
	err error
}
