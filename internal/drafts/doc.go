// Package drafts implements the local SQLite snapshot cache.
//
// Every server response the editor reconciles is written through here, so
// the last known good version of each mixtape survives restarts and is
// browsable offline. The cache is advisory: the service stays the source of
// truth and a failed cache write only logs.
package drafts
