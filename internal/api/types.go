package api

// TrackArtist is a single credited artist on a track.
type TrackArtist struct {
	Name string `json:"name"`
}

// TrackAlbumImage is album cover art at a specific resolution.
type TrackAlbumImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// TrackAlbum is the album a track appears on.
type TrackAlbum struct {
	Name   string            `json:"name"`
	Images []TrackAlbumImage `json:"images"`
}

// TrackDetails contains display metadata for a playable track.
type TrackDetails struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Artists []TrackArtist `json:"artists"`
	Album   TrackAlbum    `json:"album"`
	URI     string        `json:"uri"`
}

// MixtapeTrackRequest is the track shape sent to the service: a bare URI plus
// position and optional annotation.
type MixtapeTrackRequest struct {
	TrackPosition int     `json:"track_position"`
	TrackText     *string `json:"track_text,omitempty"`
	SpotifyURI    string  `json:"spotify_uri"`
}

// MixtapeTrackResponse is the track shape returned by the service: position,
// optional annotation, and an embedded [TrackDetails] snapshot.
type MixtapeTrackResponse struct {
	TrackPosition int          `json:"track_position"`
	TrackText     *string      `json:"track_text,omitempty"`
	Track         TrackDetails `json:"track"`
}

// MixtapeRequest is the editable subset of a mixtape sent on create/update.
type MixtapeRequest struct {
	Name      string                `json:"name"`
	IntroText string                `json:"intro_text"`
	Subtitle1 string                `json:"subtitle1"`
	Subtitle2 string                `json:"subtitle2"`
	Subtitle3 string                `json:"subtitle3"`
	IsPublic  bool                  `json:"is_public"`
	Tracks    []MixtapeTrackRequest `json:"tracks"`
}

// MixtapeResponse is the complete mixtape aggregate as the server knows it.
//
// Version increases monotonically with every accepted mutation, undo, or
// redo. CanUndo/CanRedo are computed server-side from the edit history.
// OwnerID is nil for anonymously created ("claimable") mixtapes.
type MixtapeResponse struct {
	PublicID           string                 `json:"public_id"`
	Name               string                 `json:"name"`
	IntroText          string                 `json:"intro_text"`
	Subtitle1          string                 `json:"subtitle1"`
	Subtitle2          string                 `json:"subtitle2"`
	Subtitle3          string                 `json:"subtitle3"`
	IsPublic           bool                   `json:"is_public"`
	OwnerID            *string                `json:"owner_id"`
	Version            int                    `json:"version"`
	CanUndo            bool                   `json:"can_undo"`
	CanRedo            bool                   `json:"can_redo"`
	SpotifyPlaylistURL *string                `json:"spotify_playlist_url"`
	Tracks             []MixtapeTrackResponse `json:"tracks"`
}

// MixtapeOverview is the summary shape returned when listing mixtapes.
type MixtapeOverview struct {
	PublicID         string `json:"public_id"`
	Name             string `json:"name"`
	TrackCount       int    `json:"track_count"`
	LastModifiedTime string `json:"last_modified_time"`
}
