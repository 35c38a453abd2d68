// Package ui implements the interactive terminal player using bubbletea's Elm architecture.
//
// The TUI has three views sharing one now-playing bar:
//  1. [HomeView] : Recently played tracks followed by trending tracks
//  2. [SearchView] : Debounced catalog search with infinite paging; shows recent searches while the query is empty
//  3. [LibraryView] : Liked songs
//
// Playback state is read from the [playback.Session] on a ticker and whenever the session mounts or unmounts
// a widget. Notices raised anywhere in the application arrive through a [notify.ChanNotifier] and are shown as
// short-lived toasts. A lyrics overlay (bubbles/viewport) opens over the current view.
//
// Keyboard navigation uses vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui
