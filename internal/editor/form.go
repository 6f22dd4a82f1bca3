package editor

import (
	"strings"

	"github.com/desertthunder/tapedeck/internal/api"
)

// maxSubtitleLen mirrors the service-side subtitle validator.
const maxSubtitleLen = 60

// FormValues is the in-progress, unsaved editable snapshot of a mixtape.
//
// It is created once when an editing session starts, mutated by every
// keystroke and track operation, and is the sole source of truth for what
// the next save sends. It is never merged field-by-field from server
// responses; only an undo, redo, or claim replaces it wholesale.
type FormValues struct {
	Name      string
	IntroText string
	Subtitle1 string
	Subtitle2 string
	Subtitle3 string
	IsPublic  bool
	Tracks    []Track
}

// FormFromMixtape builds the initial form values from a loaded mixtape.
func FormFromMixtape(m *api.MixtapeResponse) FormValues {
	tracks := make([]Track, 0, len(m.Tracks))
	for _, t := range m.Tracks {
		tracks = append(tracks, TrackFromResponse(t))
	}

	return FormValues{
		Name:      m.Name,
		IntroText: m.IntroText,
		Subtitle1: m.Subtitle1,
		Subtitle2: m.Subtitle2,
		Subtitle3: m.Subtitle3,
		IsPublic:  m.IsPublic,
		Tracks:    tracks,
	}
}

// Clone returns a deep copy. The scheduler snapshots form values at schedule
// time so a later mutation cannot leak into an already-queued save.
func (f FormValues) Clone() FormValues {
	c := f
	c.Tracks = make([]Track, len(f.Tracks))
	copy(c.Tracks, f.Tracks)
	for i := range c.Tracks {
		if f.Tracks[i].Text != nil {
			text := *f.Tracks[i].Text
			c.Tracks[i].Text = &text
		}
		if f.Tracks[i].Details != nil {
			details := *f.Tracks[i].Details
			c.Tracks[i].Details = &details
		}
	}
	return c
}

// Request normalizes the form into the service's update payload.
func (f FormValues) Request() *api.MixtapeRequest {
	tracks := make([]api.MixtapeTrackRequest, 0, len(f.Tracks))
	for _, t := range f.Tracks {
		tracks = append(tracks, t.Request())
	}

	return &api.MixtapeRequest{
		Name:      f.Name,
		IntroText: f.IntroText,
		Subtitle1: sanitizeSubtitle(f.Subtitle1),
		Subtitle2: sanitizeSubtitle(f.Subtitle2),
		Subtitle3: sanitizeSubtitle(f.Subtitle3),
		IsPublic:  f.IsPublic,
		Tracks:    tracks,
	}
}

// sanitizeSubtitle strips newlines and enforces the service's length cap,
// matching the backend validator so a save never fails on subtitle shape.
func sanitizeSubtitle(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	if runes := []rune(s); len(runes) > maxSubtitleLen {
		return string(runes[:maxSubtitleLen])
	}
	return s
}
