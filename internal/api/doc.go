// Package api implements the HTTP client for the mixtape service.
//
// The package contains two categories of types:
//
// 1. Wire types mirroring the service's REST contract:
//   - [MixtapeResponse] / [MixtapeRequest] : the mixtape aggregate
//   - [MixtapeTrackResponse] / [MixtapeTrackRequest] : the two track shapes
//   - [TrackDetails] : display metadata for a playable track
//
// 2. Clients:
//   - [MixtapeService] : CRUD, claim, undo/redo, and Spotify export
//   - [TrackSearchService] : track search used by the editor's add-track flow
//
// [Client] implements both interfaces. All calls are context-first; callers
// that need per-keystroke cancellation (search autocomplete) cancel the
// previous call's context before issuing the next one.
package api
