package editor

import (
	"testing"

	"github.com/desertthunder/tapedeck/internal/api"
)

func sampleDetails(name, uri string) api.TrackDetails {
	return api.TrackDetails{
		ID:   "track_" + name,
		Name: name,
		Artists: []api.TrackArtist{
			{Name: "The Testers"},
		},
		Album: api.TrackAlbum{
			Name:   "Fixtures",
			Images: []api.TrackAlbumImage{{URL: "https://img.example/1.jpg", Height: 64, Width: 64}},
		},
		URI: uri,
	}
}

func TestTrack(t *testing.T) {
	t.Run("FromResponse", func(t *testing.T) {
		text := "opens the tape"
		resp := api.MixtapeTrackResponse{
			TrackPosition: 3,
			TrackText:     &text,
			Track:         sampleDetails("Intro", "spotify:track:abc"),
		}

		track := TrackFromResponse(resp)
		if track.Position != 3 {
			t.Errorf("expected position 3, got %d", track.Position)
		}
		if track.Text == nil || *track.Text != text {
			t.Errorf("expected text %q, got %v", text, track.Text)
		}
		if track.Key == "" {
			t.Error("expected a generated key")
		}
		if track.URI() != "spotify:track:abc" {
			t.Errorf("expected URI from details, got %q", track.URI())
		}
	})

	t.Run("FromDetails", func(t *testing.T) {
		track := TrackFromDetails(sampleDetails("New Song", "spotify:track:new"))
		if track.Position != 0 {
			t.Errorf("expected unpositioned track, got position %d", track.Position)
		}
		if track.SpotifyURI != "spotify:track:new" {
			t.Errorf("expected URI copied from details, got %q", track.SpotifyURI)
		}
	})

	t.Run("URI Precedence", func(t *testing.T) {
		details := sampleDetails("Song", "spotify:track:details")
		track := Track{SpotifyURI: "spotify:track:explicit", Details: &details}
		if track.URI() != "spotify:track:explicit" {
			t.Errorf("expected explicit URI to win, got %q", track.URI())
		}

		track.SpotifyURI = ""
		if track.URI() != "spotify:track:details" {
			t.Errorf("expected fallback to details URI, got %q", track.URI())
		}

		track.Details = nil
		if track.URI() != "" {
			t.Errorf("expected empty URI for bare track, got %q", track.URI())
		}
	})

	t.Run("Request Normalization", func(t *testing.T) {
		text := "side A closer"
		details := sampleDetails("Closer", "spotify:track:closer")
		track := Track{Position: 5, Text: &text, Details: &details}

		req := track.Request()
		if req.TrackPosition != 5 {
			t.Errorf("expected position 5, got %d", req.TrackPosition)
		}
		if req.SpotifyURI != "spotify:track:closer" {
			t.Errorf("expected URI from details, got %q", req.SpotifyURI)
		}
		if req.TrackText == nil || *req.TrackText != text {
			t.Errorf("expected text %q, got %v", text, req.TrackText)
		}
	})

	t.Run("Response Placeholder", func(t *testing.T) {
		track := Track{Position: 1, SpotifyURI: "spotify:track:stub"}

		resp := track.Response()
		if resp.Track.URI != "spotify:track:stub" {
			t.Errorf("expected URI carried into placeholder, got %q", resp.Track.URI)
		}
		if resp.Track.Artists == nil || resp.Track.Album.Images == nil {
			t.Error("expected empty, non-nil artist and image slices")
		}
		if resp.Track.Name != "" {
			t.Errorf("expected empty placeholder name, got %q", resp.Track.Name)
		}
	})

	t.Run("Display Fallbacks", func(t *testing.T) {
		track := Track{SpotifyURI: "spotify:track:stub"}
		if track.Title() != "spotify:track:stub" {
			t.Errorf("expected URI fallback title, got %q", track.Title())
		}
		if track.Artist() != "" {
			t.Errorf("expected empty artist, got %q", track.Artist())
		}

		details := sampleDetails("Named", "spotify:track:named")
		track.Details = &details
		if track.Title() != "Named" {
			t.Errorf("expected details name, got %q", track.Title())
		}
		if track.Artist() != "The Testers" {
			t.Errorf("expected first artist, got %q", track.Artist())
		}
	})
}

func TestRenumber(t *testing.T) {
	tracks := []Track{
		{Position: 7},
		{Position: 2},
		{Position: 2},
	}

	Renumber(tracks)

	for i, track := range tracks {
		if track.Position != i+1 {
			t.Errorf("expected position %d at index %d, got %d", i+1, i, track.Position)
		}
	}
}
