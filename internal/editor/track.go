package editor

import (
	"github.com/desertthunder/tapedeck/internal/api"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// Track is the editor's working representation of one mixtape entry.
//
// The service speaks two shapes: a response shape with embedded
// [api.TrackDetails] and a request shape with a bare Spotify URI. Track
// models the union explicitly; exactly one of Details and SpotifyURI is
// normally set, and the normalization methods cope when only the other is
// available.
//
// Key is an ephemeral client-side identifier used purely for list-render
// identity. Position is the 1-based wire ordering key and is renumbered
// after every structural change, so it cannot identify a row across renders
// (the same song may also appear twice, ruling out the URI).
type Track struct {
	Key        string
	Position   int
	Text       *string
	Details    *api.TrackDetails
	SpotifyURI string
}

// TrackFromResponse converts a service response track into the editor shape.
func TrackFromResponse(t api.MixtapeTrackResponse) Track {
	details := t.Track
	return Track{
		Key:      shared.GenerateID(),
		Position: t.TrackPosition,
		Text:     t.TrackText,
		Details:  &details,
	}
}

// TrackFromDetails builds a new, unpositioned track from search results.
func TrackFromDetails(details api.TrackDetails) Track {
	return Track{
		Key:        shared.GenerateID(),
		Details:    &details,
		SpotifyURI: details.URI,
	}
}

// URI returns the track's Spotify URI regardless of which shape is in memory.
func (t Track) URI() string {
	if t.SpotifyURI != "" {
		return t.SpotifyURI
	}
	if t.Details != nil {
		return t.Details.URI
	}
	return ""
}

// Request normalizes the track to the service's request shape.
//
// If neither a URI nor details are present the spotify_uri field is left
// empty; the server rejects such a row and the failure surfaces as a save
// error.
func (t Track) Request() api.MixtapeTrackRequest {
	return api.MixtapeTrackRequest{
		TrackPosition: t.Position,
		TrackText:     t.Text,
		SpotifyURI:    t.URI(),
	}
}

// Response normalizes the track to the service's response shape so list
// renderers can always assume the richer form. When no details snapshot is
// held, a placeholder with empty strings and the bare URI is synthesized.
func (t Track) Response() api.MixtapeTrackResponse {
	details := api.TrackDetails{
		Artists: []api.TrackArtist{},
		Album:   api.TrackAlbum{Images: []api.TrackAlbumImage{}},
		URI:     t.SpotifyURI,
	}
	if t.Details != nil {
		details = *t.Details
	}

	return api.MixtapeTrackResponse{
		TrackPosition: t.Position,
		TrackText:     t.Text,
		Track:         details,
	}
}

// Title returns a display name for the track, falling back to the URI for
// stub tracks that carry no details snapshot.
func (t Track) Title() string {
	if t.Details != nil && t.Details.Name != "" {
		return t.Details.Name
	}
	return t.URI()
}

// Artist returns the first credited artist, or an empty string.
func (t Track) Artist() string {
	if t.Details != nil && len(t.Details.Artists) > 0 {
		return t.Details.Artists[0].Name
	}
	return ""
}

// Renumber rewrites positions to be contiguous 1..N in slice order.
//
// Called after every structural change, before the request is sent.
func Renumber(tracks []Track) {
	for i := range tracks {
		tracks[i].Position = i + 1
	}
}
