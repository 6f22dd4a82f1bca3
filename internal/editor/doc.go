// Package editor implements the mixtape editing engine: the client-side
// state machine that keeps form values, the track list, and the
// server-persisted version in sync under concurrent edits.
//
// The core abstractions are:
//
//   - [Track] : the explicit variant of the service's two track shapes
//     (resolved details vs bare URI), normalized per direction by
//     [Track.Request] and [Track.Response]
//   - [FormValues] : the in-progress, unsaved editable snapshot of a mixtape;
//     the sole source of truth for what the next save sends
//   - [SaveScheduler] : decides whether a mutation persists immediately or
//     behind a trailing-edge debounce, coalescing rapid text edits
//   - [TrackListEditor] : ordered track collection with add, remove, annotate
//     and reorder, each persisted immediately with contiguous renumbering
//   - [UndoRedoController] : server-authoritative history navigation that
//     replaces the whole local edit state on success
//   - [Session] : composes the above and owns the claim, share, and
//     Spotify-export flows
//
// Sessions emit [Event] values through a non-blocking channel for status
// display (saving indicator, undo/redo progress, export results).
package editor
