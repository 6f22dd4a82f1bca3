package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tapedeck/internal/api"
	tu "github.com/desertthunder/tapedeck/internal/testing"
)

// sessionFixture builds a session over the mock service with a short
// debounce and a fake clipboard.
type sessionFixture struct {
	svc     *tu.MockMixtapeService
	clip    *tu.FakeClipboard
	session *Session
	updated chan *api.MixtapeRequest
}

func newSessionFixture(t *testing.T, mixtape *api.MixtapeResponse, mutate func(*SessionOpts)) *sessionFixture {
	t.Helper()

	f := &sessionFixture{
		svc:     &tu.MockMixtapeService{},
		clip:    &tu.FakeClipboard{},
		updated: make(chan *api.MixtapeRequest, 16),
	}

	f.svc.UpdateFunc = func(ctx context.Context, publicID string, req *api.MixtapeRequest) (*api.MixtapeResponse, error) {
		resp := &api.MixtapeResponse{
			PublicID: publicID,
			Name:     "SERVER CANONICAL NAME",
			Version:  99,
			CanUndo:  true,
			CanRedo:  false,
		}
		f.updated <- req
		return resp, nil
	}

	opts := SessionOpts{
		Mixtape:       mixtape,
		Service:       f.svc,
		Debounce:      25 * time.Millisecond,
		ShareBaseURL:  "https://tapedeck.example",
		Authenticated: true,
		Clipboard:     f.clip.Write,
	}
	if mutate != nil {
		mutate(&opts)
	}

	f.session = NewSession(context.Background(), opts)
	t.Cleanup(f.session.Close)
	return f
}

func (f *sessionFixture) waitForUpdate(t *testing.T) *api.MixtapeRequest {
	t.Helper()
	select {
	case req := <-f.updated:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update request")
		return nil
	}
}

func TestSession(t *testing.T) {
	t.Run("Field Edits Debounce To One Save", func(t *testing.T) {
		f := newSessionFixture(t, sampleMixtape(), nil)

		f.session.SetName("R")
		f.session.SetName("Ro")
		f.session.SetIntroText("late night")
		f.session.SetName("Road Trip II")

		req := f.waitForUpdate(t)
		if req.Name != "Road Trip II" || req.IntroText != "late night" {
			t.Errorf("expected latest values coalesced, got name=%q intro=%q", req.Name, req.IntroText)
		}

		select {
		case <-f.updated:
			t.Error("expected a single coalesced save")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("Save Response Never Overwrites Form", func(t *testing.T) {
		f := newSessionFixture(t, sampleMixtape(), nil)

		f.session.AddTrack(sampleDetails("Added", "spotify:track:new"))
		f.waitForUpdate(t)

		deadline := time.After(2 * time.Second)
		for f.session.Mixtape().Version != 99 {
			select {
			case <-deadline:
				t.Fatal("timed out waiting for merge")
			case <-time.After(5 * time.Millisecond):
			}
		}

		form := f.session.Form()
		if form.Name != "Road Trip" {
			t.Errorf("expected form name untouched by server response, got %q", form.Name)
		}

		m := f.session.Mixtape()
		if !m.CanUndo || m.CanRedo {
			t.Error("expected history flags merged from response")
		}
		if !f.session.CanUndo() {
			t.Error("expected undo enabled after merged flags")
		}
	})

	t.Run("Track Operations Save Immediately", func(t *testing.T) {
		f := newSessionFixture(t, sampleMixtape(), nil)

		f.session.SetName("typed but not settled")
		f.session.AddTrack(sampleDetails("Added", "spotify:track:new"))

		req := f.waitForUpdate(t)
		if len(req.Tracks) != 3 {
			t.Fatalf("expected 3 tracks in immediate save, got %d", len(req.Tracks))
		}
		if req.Name != "typed but not settled" {
			t.Errorf("expected in-progress title in snapshot, got %q", req.Name)
		}
		if req.Tracks[2].TrackPosition != 3 {
			t.Errorf("expected contiguous positions, got %d last", req.Tracks[2].TrackPosition)
		}
	})

	t.Run("Undo Replaces Whole Form", func(t *testing.T) {
		f := newSessionFixture(t, sampleMixtape(), nil)
		f.svc.UndoFunc = func(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
			return &api.MixtapeResponse{
				PublicID: publicID,
				Name:     "Earlier Title",
				Version:  3,
				CanUndo:  false,
				CanRedo:  true,
				Tracks: []api.MixtapeTrackResponse{
					{TrackPosition: 1, Track: sampleDetails("Only Song", "spotify:track:only")},
				},
			}, nil
		}

		f.session.SetName("local edit about to be discarded")

		if err := f.session.Undo(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		form := f.session.Form()
		if form.Name != "Earlier Title" {
			t.Errorf("expected snapshot name, got %q", form.Name)
		}
		if len(form.Tracks) != 1 {
			t.Errorf("expected snapshot track list, got %d tracks", len(form.Tracks))
		}
		if f.session.CanUndo() || !f.session.CanRedo() {
			t.Error("expected flags replaced from snapshot")
		}
	})

	t.Run("Undo Ignored When Unavailable", func(t *testing.T) {
		mixtape := sampleMixtape()
		mixtape.CanUndo = false
		f := newSessionFixture(t, mixtape, nil)

		if err := f.session.Undo(context.Background()); err != nil {
			t.Fatalf("expected nil for ignored undo, got %v", err)
		}
		for _, call := range f.svc.Calls() {
			if call == "Undo" {
				t.Error("expected no Undo call when capability is off")
			}
		}
	})

	t.Run("Undo Failure Keeps Local State", func(t *testing.T) {
		f := newSessionFixture(t, sampleMixtape(), nil)
		boom := errors.New("service unavailable")
		f.svc.UndoFunc = func(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
			return nil, boom
		}

		f.session.SetName("survives the failed undo")

		if err := f.session.Undo(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("expected service error, got %v", err)
		}
		if f.session.Form().Name != "survives the failed undo" {
			t.Error("expected local edits untouched after failed undo")
		}
	})

	t.Run("Claim Requires Sign In", func(t *testing.T) {
		mixtape := sampleMixtape()
		mixtape.OwnerID = nil
		f := newSessionFixture(t, mixtape, func(opts *SessionOpts) {
			opts.Authenticated = false
			opts.SignInURL = func(next string) string {
				return "https://id.example/signin?next=" + next
			}
		})

		err := f.session.Claim(context.Background())
		var signIn *SignInRequiredError
		if !errors.As(err, &signIn) {
			t.Fatalf("expected SignInRequiredError, got %v", err)
		}
		if !strings.Contains(signIn.URL, "/mixtape/mix_123/edit") {
			t.Errorf("expected return path in sign-in URL, got %q", signIn.URL)
		}
		for _, call := range f.svc.Calls() {
			if call == "ClaimMixtape" {
				t.Error("expected no claim request without credentials")
			}
		}
	})

	t.Run("Claim Invokes Callback Without Mutating Owner", func(t *testing.T) {
		mixtape := sampleMixtape()
		mixtape.OwnerID = nil
		claimed := false
		f := newSessionFixture(t, mixtape, func(opts *SessionOpts) {
			opts.OnClaimed = func() { claimed = true }
		})

		if err := f.session.Claim(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !claimed {
			t.Error("expected OnClaimed callback")
		}
		if f.session.Mixtape().OwnerID != nil {
			t.Error("expected no optimistic ownership mutation")
		}
	})

	t.Run("Claim Ignored For Owned Mixtape", func(t *testing.T) {
		owner := "user_1"
		mixtape := sampleMixtape()
		mixtape.OwnerID = &owner
		f := newSessionFixture(t, mixtape, nil)

		if err := f.session.Claim(context.Background()); err != nil {
			t.Fatalf("expected nil for owned mixtape, got %v", err)
		}
		if len(f.svc.Calls()) != 0 {
			t.Errorf("expected no service calls, got %v", f.svc.Calls())
		}
	})

	t.Run("Export Copies Playlist URL", func(t *testing.T) {
		f := newSessionFixture(t, sampleMixtape(), nil)
		playlist := "https://open.spotify.com/playlist/xyz"
		f.svc.ExportFunc = func(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
			return &api.MixtapeResponse{PublicID: publicID, SpotifyPlaylistURL: &playlist}, nil
		}

		url, err := f.session.ExportToSpotify(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if url != playlist {
			t.Errorf("expected playlist URL returned, got %q", url)
		}

		writes := f.clip.Writes()
		if len(writes) != 1 || writes[0] != playlist {
			t.Errorf("expected playlist URL on clipboard, got %v", writes)
		}
		if got := f.session.Mixtape().SpotifyPlaylistURL; got == nil || *got != playlist {
			t.Error("expected playlist URL merged into mixtape view")
		}
	})

	t.Run("Clipboard Failure Does Not Fail Export", func(t *testing.T) {
		f := newSessionFixture(t, sampleMixtape(), nil)
		f.clip.Err = fmt.Errorf("no display")
		playlist := "https://open.spotify.com/playlist/xyz"
		f.svc.ExportFunc = func(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
			return &api.MixtapeResponse{PublicID: publicID, SpotifyPlaylistURL: &playlist}, nil
		}

		url, err := f.session.ExportToSpotify(context.Background())
		if err != nil {
			t.Fatalf("expected export to succeed despite clipboard, got %v", err)
		}
		if url != playlist {
			t.Errorf("expected playlist URL, got %q", url)
		}

		sawClipboardEvent := false
		for {
			select {
			case ev := <-f.session.Events():
				if ev.Phase == PhaseClipboard {
					sawClipboardEvent = true
				}
				continue
			default:
			}
			break
		}
		if !sawClipboardEvent {
			t.Error("expected a clipboard failure event")
		}
	})

	t.Run("Share Link", func(t *testing.T) {
		f := newSessionFixture(t, sampleMixtape(), nil)

		want := "https://tapedeck.example/mixtape/mix_123"
		if got := f.session.ShareURL(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}

		if err := f.session.CopyShareLink(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		writes := f.clip.Writes()
		if len(writes) != 1 || writes[0] != want {
			t.Errorf("expected share link on clipboard, got %v", writes)
		}
	})

	t.Run("Status Events Flow", func(t *testing.T) {
		f := newSessionFixture(t, sampleMixtape(), nil)

		f.session.AddTrack(sampleDetails("Added", "spotify:track:new"))
		f.waitForUpdate(t)

		deadline := time.After(2 * time.Second)
		sawSaving := false
		for !sawSaving {
			select {
			case ev := <-f.session.Events():
				if ev.Phase == PhaseSave && ev.Status == "Saving..." {
					sawSaving = true
				}
			case <-deadline:
				t.Fatal("timed out waiting for saving event")
			}
		}
	})

	t.Run("Close Flushes Pending Edits", func(t *testing.T) {
		f := newSessionFixture(t, sampleMixtape(), func(opts *SessionOpts) {
			opts.Debounce = time.Hour
		})

		f.session.SetName("typed just before quitting")
		f.session.Close()

		req := f.waitForUpdate(t)
		if req.Name != "typed just before quitting" {
			t.Errorf("expected pending edit flushed on close, got %q", req.Name)
		}
	})
}
