// Package ui implements the interactive mixtape editor using bubbletea's Elm architecture.
//
// The TUI is a single editing surface with modal prompts:
//  1. [EditView] : The cassette sleeve (title, subtitles, intro) and the annotated track list
//  2. [PromptView] : A one-line input for renaming, annotating, and search queries
//  3. [SearchView] : Catalog search results to add to the tape
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern. Save,
// undo, redo, claim, and export status flows through the editing session's event
// channel into the toolbar, mirroring how every mutation is persisted in the
// background while the user keeps typing.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
