package editor

import (
	"fmt"

	"github.com/desertthunder/tapedeck/internal/api"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// TrackListEditor owns the ordered track collection of a form.
//
// Every operation renumbers positions to contiguous 1..N before handing the
// updated snapshot to the scheduler, and every operation saves immediately;
// structural changes never ride the debounce timer.
type TrackListEditor struct {
	form     *FormValues
	schedule func(values FormValues, immediate bool)
}

// NewTrackListEditor creates an editor over form, persisting through schedule.
func NewTrackListEditor(form *FormValues, schedule func(FormValues, bool)) *TrackListEditor {
	return &TrackListEditor{form: form, schedule: schedule}
}

// Tracks returns the current track list normalized to the response shape,
// the form renderers always assume.
func (e *TrackListEditor) Tracks() []api.MixtapeTrackResponse {
	out := make([]api.MixtapeTrackResponse, 0, len(e.form.Tracks))
	for _, t := range e.form.Tracks {
		out = append(out, t.Response())
	}
	return out
}

// Len returns the number of tracks.
func (e *TrackListEditor) Len() int { return len(e.form.Tracks) }

// Add appends a track built from search result details and saves immediately.
func (e *TrackListEditor) Add(details api.TrackDetails) {
	track := TrackFromDetails(details)
	track.Position = len(e.form.Tracks) + 1

	e.form.Tracks = append(e.form.Tracks, track)
	e.commit()
}

// Remove deletes the track at the given 1-based position, renumbers the
// remainder to restore contiguity, and saves immediately.
func (e *TrackListEditor) Remove(position int) error {
	tracks := e.form.Tracks
	kept := make([]Track, 0, len(tracks))
	found := false
	for _, t := range tracks {
		if t.Position == position {
			found = true
			continue
		}
		kept = append(kept, t)
	}

	if !found {
		return fmt.Errorf("%w: no track at position %d", shared.ErrTrackNotFound, position)
	}

	Renumber(kept)
	e.form.Tracks = kept
	e.commit()
	return nil
}

// EditText replaces the annotation of the track at the given position and
// saves immediately.
func (e *TrackListEditor) EditText(position int, text string) error {
	for i := range e.form.Tracks {
		if e.form.Tracks[i].Position != position {
			continue
		}
		if text == "" {
			e.form.Tracks[i].Text = nil
		} else {
			e.form.Tracks[i].Text = &text
		}
		e.commit()
		return nil
	}

	return fmt.Errorf("%w: no track at position %d", shared.ErrTrackNotFound, position)
}

// Reorder replaces the track list with a caller-supplied permutation (from
// the sortable-list collaborator), renumbers it, and saves immediately.
func (e *TrackListEditor) Reorder(tracks []Track) {
	Renumber(tracks)
	e.form.Tracks = tracks
	e.commit()
}

// Move relocates the track at 1-based position from to position to,
// shifting the rows in between. It is the keyboard-driven equivalent of a
// drag-and-drop reorder.
func (e *TrackListEditor) Move(from, to int) error {
	n := len(e.form.Tracks)
	if from < 1 || from > n || to < 1 || to > n {
		return fmt.Errorf("%w: move %d -> %d with %d tracks", shared.ErrInvalidArgument, from, to, n)
	}
	if from == to {
		return nil
	}

	tracks := make([]Track, n)
	copy(tracks, e.form.Tracks)

	moved := tracks[from-1]
	tracks = append(tracks[:from-1], tracks[from:]...)

	rest := make([]Track, 0, n)
	rest = append(rest, tracks[:to-1]...)
	rest = append(rest, moved)
	rest = append(rest, tracks[to-1:]...)

	e.Reorder(rest)
	return nil
}

// commit snapshots the whole form, tracks included, so unrelated in-progress
// edits (title, intro) ride along instead of being overwritten.
func (e *TrackListEditor) commit() {
	e.schedule(e.form.Clone(), true)
}
