package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/tapedeck/internal/shared"
)

// newTestClient points a client at a test server with rate limiting high
// enough to stay out of the way.
func newTestClient(srv *httptest.Server, token string) *Client {
	return NewClient(ClientOpts{
		BaseURL:     srv.URL,
		AccessToken: token,
		RateLimit:   1000,
	})
}

func writeMixtape(t *testing.T, w http.ResponseWriter, mixtape MixtapeResponse) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(mixtape); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("GetMixtape", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/mixtape/mix_123" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			writeMixtape(t, w, MixtapeResponse{PublicID: "mix_123", Name: "Road Trip", Version: 2})
		}))
		defer srv.Close()

		mixtape, err := newTestClient(srv, "").GetMixtape(ctx, "mix_123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if mixtape.Name != "Road Trip" || mixtape.Version != 2 {
			t.Errorf("expected decoded mixtape, got %+v", mixtape)
		}
	})

	t.Run("CreateMixtape Anonymously", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/mixtape" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "" {
				t.Errorf("expected no auth header for anonymous create, got %q", auth)
			}

			var req MixtapeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			writeMixtape(t, w, MixtapeResponse{PublicID: "mix_new", Name: req.Name})
		}))
		defer srv.Close()

		mixtape, err := newTestClient(srv, "").CreateMixtape(ctx, &MixtapeRequest{Name: "Fresh Tape"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if mixtape.PublicID != "mix_new" {
			t.Errorf("expected assigned public id, got %q", mixtape.PublicID)
		}
		if mixtape.OwnerID != nil {
			t.Error("expected anonymous mixtape without owner")
		}
	})

	t.Run("UpdateMixtape Sends Bearer Token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("expected PUT, got %s", r.Method)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer tok_123" {
				t.Errorf("expected bearer token, got %q", auth)
			}
			writeMixtape(t, w, MixtapeResponse{PublicID: "mix_123", Version: 3, CanUndo: true})
		}))
		defer srv.Close()

		mixtape, err := newTestClient(srv, "tok_123").UpdateMixtape(ctx, "mix_123", &MixtapeRequest{Name: "Updated"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if mixtape.Version != 3 || !mixtape.CanUndo {
			t.Errorf("expected server fields decoded, got %+v", mixtape)
		}
	})

	t.Run("History Endpoints", func(t *testing.T) {
		var paths []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.Method+" "+r.URL.Path)
			writeMixtape(t, w, MixtapeResponse{PublicID: "mix_123"})
		}))
		defer srv.Close()

		client := newTestClient(srv, "")
		if _, err := client.Undo(ctx, "mix_123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := client.Redo(ctx, "mix_123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := client.SpotifyExport(ctx, "mix_123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{
			"POST /mixtape/mix_123/undo",
			"POST /mixtape/mix_123/redo",
			"POST /mixtape/mix_123/spotify-export",
		}
		for i, path := range want {
			if i >= len(paths) || paths[i] != path {
				t.Errorf("expected %q at call %d, got %v", path, i, paths)
			}
		}
	})

	t.Run("Claim Requires Token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("expected no request without a token")
		}))
		defer srv.Close()

		_, err := newTestClient(srv, "").ClaimMixtape(ctx, "mix_123")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("ListMixtapes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/mixtape" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]MixtapeOverview{
				{PublicID: "mix_1", Name: "First", TrackCount: 4},
				{PublicID: "mix_2", Name: "Second", TrackCount: 9},
			})
		}))
		defer srv.Close()

		overviews, err := newTestClient(srv, "tok").ListMixtapes(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(overviews) != 2 || overviews[1].TrackCount != 9 {
			t.Errorf("expected decoded overviews, got %+v", overviews)
		}
	})

	t.Run("SearchTracks", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/spotify/search" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if query := r.URL.Query().Get("query"); query != "bowie life on mars" {
				t.Errorf("expected escaped query, got %q", query)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]TrackDetails{{ID: "t1", Name: "Life on Mars?", URI: "spotify:track:1"}})
		}))
		defer srv.Close()

		results, err := newTestClient(srv, "").SearchTracks(ctx, "bowie life on mars")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(results) != 1 || results[0].URI != "spotify:track:1" {
			t.Errorf("expected decoded results, got %+v", results)
		}

		if _, err := newTestClient(srv, "").SearchTracks(ctx, ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty query, got %v", err)
		}
	})

	t.Run("Error Mapping", func(t *testing.T) {
		status := http.StatusUnauthorized
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		defer srv.Close()

		client := newTestClient(srv, "")

		if _, err := client.GetMixtape(ctx, "mix_123"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated for 401, got %v", err)
		}

		status = http.StatusNotFound
		if _, err := client.GetMixtape(ctx, "mix_123"); !errors.Is(err, shared.ErrMixtapeNotFound) {
			t.Errorf("expected ErrMixtapeNotFound for 404, got %v", err)
		}

		status = http.StatusInternalServerError
		if _, err := client.GetMixtape(ctx, "mix_123"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest for 500, got %v", err)
		}
	})

	t.Run("Search Cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := newTestClient(srv, "").SearchTracks(cancelCtx, "query"); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
