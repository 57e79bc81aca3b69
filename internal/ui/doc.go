// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI browses the song catalog one page at a time:
//  1. [SongListView] : Browse a page of songs and rate the selected one with 0-5
//  2. [DetailView] : Show every column of a song and its rating history
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Catalog calls run as [tea.Cmd] functions so the UI never blocks on a save.
//
// Keyboard navigation uses vim-style bindings (j/k, n/p, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
