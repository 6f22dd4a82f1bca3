package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tapedeck/internal/api"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// SnapshotStore persists server snapshots locally (the draft cache).
type SnapshotStore interface {
	Save(ctx context.Context, mixtape *api.MixtapeResponse) error
}

// SignInRequiredError is returned by Claim when the user must authenticate
// first. URL points at the identity provider with the editor's path as the
// return target.
type SignInRequiredError struct {
	URL string
}

func (e *SignInRequiredError) Error() string {
	return fmt.Sprintf("sign-in required: %s", e.URL)
}

// SessionOpts contains dependencies and configuration for an editing session.
type SessionOpts struct {
	Mixtape       *api.MixtapeResponse
	Service       api.MixtapeService
	Store         SnapshotStore // optional draft cache
	Debounce      time.Duration
	Logger        *log.Logger
	ShareBaseURL  string
	SignInURL     func(next string) string
	Authenticated bool
	OnClaimed     func()
	Clipboard     func(text string) error
	EventBuffer   int
}

// Session is the editing core for one mixtape.
//
// It owns the form values, routes every mutation through the scheduler in
// the right save mode (structural track changes immediately, text and
// toggle edits debounced), reconciles server responses, and drives the
// claim, share, and Spotify-export flows. One session is constructed per
// mixtape being edited and closed when editing ends.
type Session struct {
	svc       api.MixtapeService
	store     SnapshotStore
	logger    *log.Logger
	scheduler *SaveScheduler
	history   *UndoRedoController
	tracks    *TrackListEditor

	shareBase     string
	signInURL     func(next string) string
	authenticated bool
	onClaimed     func()
	writeClip     func(string) error

	mu       lockedState
	events   chan Event
	closed   bool
	claiming bool
}

// lockedState is the session's mutable state guarded by its mutex: event
// handlers and save/undo completions interleave from different goroutines.
type lockedState struct {
	sync.Mutex
	mixtape api.MixtapeResponse
	form    FormValues
}

// NewSession starts an editing session for the given mixtape.
func NewSession(ctx context.Context, opts SessionOpts) *Session {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 50
	}

	s := &Session{
		svc:           opts.Service,
		store:         opts.Store,
		logger:        shared.WithLogger(opts.Logger, "mixtape", opts.Mixtape.PublicID),
		shareBase:     opts.ShareBaseURL,
		signInURL:     opts.SignInURL,
		authenticated: opts.Authenticated,
		onClaimed:     opts.OnClaimed,
		writeClip:     opts.Clipboard,
		events:        make(chan Event, opts.EventBuffer),
	}

	s.mu.mixtape = *opts.Mixtape
	s.mu.form = FormFromMixtape(opts.Mixtape)

	s.scheduler = NewSaveScheduler(ctx, opts.Debounce, s.saveValues, nil, s.logger)
	s.history = NewUndoRedoController(opts.Service, opts.Mixtape.PublicID, opts.Mixtape.CanUndo, opts.Mixtape.CanRedo)
	s.tracks = NewTrackListEditor(&s.mu.form, s.scheduler.Schedule)

	return s
}

// Events returns the status event stream consumed by the toolbar.
func (s *Session) Events() <-chan Event { return s.events }

// Form returns a deep copy of the current form values.
func (s *Session) Form() FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.form.Clone()
}

// Mixtape returns a copy of the server-side view of the mixtape.
func (s *Session) Mixtape() api.MixtapeResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.mixtape
}

// Saving reports whether a save request is in flight.
func (s *Session) Saving() bool { return s.scheduler.Saving() }

// CanUndo reports whether the undo button should be enabled.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether the redo button should be enabled.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Anonymous reports whether the mixtape was created without an owner and is
// still claimable.
func (s *Session) Anonymous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.mixtape.OwnerID == nil
}

// Authenticated reports whether the session carries user credentials.
func (s *Session) Authenticated() bool { return s.authenticated }

// SetName updates the title and schedules a debounced save.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	s.mu.form.Name = name
	values := s.mu.form.Clone()
	s.mu.Unlock()

	s.scheduler.Schedule(values, false)
}

// SetIntroText updates the intro text and schedules a debounced save.
func (s *Session) SetIntroText(text string) {
	s.mu.Lock()
	s.mu.form.IntroText = text
	values := s.mu.form.Clone()
	s.mu.Unlock()

	s.scheduler.Schedule(values, false)
}

// SetSubtitle updates subtitle line n (1..3) and schedules a debounced save.
func (s *Session) SetSubtitle(n int, text string) error {
	s.mu.Lock()
	switch n {
	case 1:
		s.mu.form.Subtitle1 = text
	case 2:
		s.mu.form.Subtitle2 = text
	case 3:
		s.mu.form.Subtitle3 = text
	default:
		s.mu.Unlock()
		return fmt.Errorf("%w: subtitle index %d", shared.ErrInvalidArgument, n)
	}
	values := s.mu.form.Clone()
	s.mu.Unlock()

	s.scheduler.Schedule(values, false)
	return nil
}

// SetPublic updates the visibility toggle and schedules a debounced save.
func (s *Session) SetPublic(public bool) {
	s.mu.Lock()
	s.mu.form.IsPublic = public
	values := s.mu.form.Clone()
	s.mu.Unlock()

	s.scheduler.Schedule(values, false)
}

// AddTrack appends a track from search details; persists immediately.
func (s *Session) AddTrack(details api.TrackDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks.Add(details)
}

// RemoveTrack removes the track at the given position; persists immediately.
func (s *Session) RemoveTrack(position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracks.Remove(position)
}

// EditTrackText replaces a track's annotation; persists immediately.
func (s *Session) EditTrackText(position int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracks.EditText(position, text)
}

// MoveTrack relocates a track between positions; persists immediately.
func (s *Session) MoveTrack(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracks.Move(from, to)
}

// ReorderTracks replaces the track order wholesale; persists immediately.
func (s *Session) ReorderTracks(tracks []Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks.Reorder(tracks)
}

// TrackList returns the current tracks normalized to the response shape.
func (s *Session) TrackList() []api.MixtapeTrackResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracks.Tracks()
}

// Undo steps one version back in the server's history. Clicks while an
// operation is pending, or with nothing to undo, are ignored.
//
// On success the entire form state is replaced with the server's snapshot;
// this is the one path where server state unconditionally overwrites local
// edits. On failure local state is untouched.
func (s *Session) Undo(ctx context.Context) error {
	if !s.history.CanUndo() {
		return nil
	}

	s.emit(historyStartedEvent(PhaseUndo))

	snapshot, err := s.history.Undo(ctx)
	if err != nil {
		s.logger.Error("undo failed", "error", err)
		s.emit(historySettledEvent(PhaseUndo, err))
		return err
	}
	if snapshot == nil {
		return nil
	}

	s.applySnapshot(ctx, snapshot)
	s.emit(historySettledEvent(PhaseUndo, nil))
	return nil
}

// Redo steps one version forward, with the same semantics as Undo.
func (s *Session) Redo(ctx context.Context) error {
	if !s.history.CanRedo() {
		return nil
	}

	s.emit(historyStartedEvent(PhaseRedo))

	snapshot, err := s.history.Redo(ctx)
	if err != nil {
		s.logger.Error("redo failed", "error", err)
		s.emit(historySettledEvent(PhaseRedo, err))
		return err
	}
	if snapshot == nil {
		return nil
	}

	s.applySnapshot(ctx, snapshot)
	s.emit(historySettledEvent(PhaseRedo, nil))
	return nil
}

// Claim attaches an anonymously created mixtape to the user's account.
//
// Unauthenticated callers receive a [SignInRequiredError] carrying the
// identity provider URL with the editor's path as the return target. On
// success the OnClaimed callback fires (typically a refetch); ownership is
// never mutated optimistically. Failures are logged and the claiming flag
// reset, nothing more.
func (s *Session) Claim(ctx context.Context) error {
	s.mu.Lock()
	publicID := s.mu.mixtape.PublicID
	claimable := s.mu.mixtape.OwnerID == nil
	if !claimable || s.claiming {
		s.mu.Unlock()
		return nil
	}

	if !s.authenticated {
		s.mu.Unlock()
		next := fmt.Sprintf("/mixtape/%s/edit", publicID)
		if s.signInURL == nil {
			return fmt.Errorf("%w: no sign-in route configured", shared.ErrNotAuthenticated)
		}
		return &SignInRequiredError{URL: s.signInURL(next)}
	}

	s.claiming = true
	s.mu.Unlock()

	s.emit(claimEvent(statusClaiming, nil))

	_, err := s.svc.ClaimMixtape(ctx, publicID)

	s.mu.Lock()
	s.claiming = false
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("claim failed", "error", err)
		return err
	}

	s.emit(claimEvent(statusClaimed, nil))
	if s.onClaimed != nil {
		s.onClaimed()
	}
	return nil
}

// ExportToSpotify exports the mixtape as a Spotify playlist, copies the
// playlist URL to the clipboard, and returns the URL.
//
// A clipboard failure is surfaced on its own event, separate from export
// failure; the export still counts as successful.
func (s *Session) ExportToSpotify(ctx context.Context) (string, error) {
	s.mu.Lock()
	publicID := s.mu.mixtape.PublicID
	s.mu.Unlock()

	s.emit(exportEvent(statusExporting, nil))

	resp, err := s.svc.SpotifyExport(ctx, publicID)
	if err != nil {
		s.logger.Error("spotify export failed", "error", err)
		s.emit(exportEvent(statusExportFailed, err))
		return "", err
	}

	s.mergeServerFields(resp)
	s.storeSnapshot(ctx, resp)

	var playlistURL string
	if resp.SpotifyPlaylistURL != nil {
		playlistURL = *resp.SpotifyPlaylistURL
		if err := s.writeClip(playlistURL); err != nil {
			s.logger.Warn("clipboard write failed", "error", err)
			s.emit(clipboardFailedEvent(fmt.Errorf("%w: %v", shared.ErrClipboard, err)))
		}
	}

	s.emit(exportEvent(statusExported, nil))
	return playlistURL, nil
}

// ShareURL returns the public viewing link for the mixtape.
func (s *Session) ShareURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%s/mixtape/%s", s.shareBase, s.mu.mixtape.PublicID)
}

// CopyShareLink writes the public viewing link to the clipboard.
func (s *Session) CopyShareLink() error {
	if err := s.writeClip(s.ShareURL()); err != nil {
		clipErr := fmt.Errorf("%w: %v", shared.ErrClipboard, err)
		s.emit(clipboardFailedEvent(clipErr))
		return clipErr
	}
	return nil
}

// Flush persists any pending debounced values synchronously.
func (s *Session) Flush() { s.scheduler.Flush() }

// Close flushes pending edits, stops the scheduler, and closes the event
// stream. Safe to call more than once; the session must not be used
// afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.scheduler.Flush()
	s.scheduler.Stop()
	close(s.events)
}

// saveValues is the scheduler's [SaveFunc]: one PUT with the supplied form
// snapshot. On success only the server-owned fields (version, history
// flags, playlist URL) are merged back; the user's in-flight edits are
// never overwritten.
func (s *Session) saveValues(ctx context.Context, values FormValues) error {
	s.mu.Lock()
	publicID := s.mu.mixtape.PublicID
	s.mu.Unlock()

	s.emit(saveStartedEvent())

	resp, err := s.svc.UpdateMixtape(ctx, publicID, values.Request())
	if err != nil {
		s.emit(saveSettledEvent(err))
		return err
	}

	s.mergeServerFields(resp)
	s.storeSnapshot(ctx, resp)
	s.emit(saveSettledEvent(nil))
	return nil
}

// mergeServerFields applies the server-owned subset of a response: version,
// undo/redo capability, and the exported playlist URL. Form values are
// never merged here.
func (s *Session) mergeServerFields(resp *api.MixtapeResponse) {
	s.mu.Lock()
	s.mu.mixtape.Version = resp.Version
	s.mu.mixtape.CanUndo = resp.CanUndo
	s.mu.mixtape.CanRedo = resp.CanRedo
	s.mu.mixtape.SpotifyPlaylistURL = resp.SpotifyPlaylistURL
	s.mu.Unlock()

	s.history.SetFlags(resp.CanUndo, resp.CanRedo)
}

// applySnapshot replaces both the mixtape view and the entire form with a
// history snapshot ("resetForm"): undo/redo is a go-to-this-point-in-history
// operation, so pending local edits are intentionally discarded.
func (s *Session) applySnapshot(ctx context.Context, snapshot *api.MixtapeResponse) {
	s.mu.Lock()
	s.mu.mixtape = *snapshot
	s.mu.form = FormFromMixtape(snapshot)
	s.mu.Unlock()

	s.history.SetFlags(snapshot.CanUndo, snapshot.CanRedo)
	s.storeSnapshot(ctx, snapshot)
}

func (s *Session) storeSnapshot(ctx context.Context, snapshot *api.MixtapeResponse) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, snapshot); err != nil {
		s.logger.Warn("failed to cache draft", "error", err)
	}
}

// emit sends an event without blocking; a full or closed stream drops the
// update rather than stalling a save. The lock orders the send against
// Close so a settling save cannot hit a closed channel.
func (s *Session) emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.events <- ev:
	default:
	}
}
