package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/playback"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgHomeLoaded MsgKind = iota
	MsgSearchDebounced
	MsgSearchResults
	MsgLibraryLoaded
	MsgNotice
	MsgPlayerChanged
	MsgTick
	MsgLyricsLoaded
	MsgActionDone
)

type homePayload struct {
	recent   []models.RecentEntry
	searches []models.RecentEntry
	trending []models.Track
	err      error
}

type searchPayload struct {
	seq    int
	query  string
	tracks []models.Track
	more   bool
	err    error
}

type libraryPayload struct {
	likes []*models.LikedTrack
	err   error
}

// homeLoadedMsg is the constructor for [MsgHomeLoaded]
func homeLoadedMsg(recent, searches []models.RecentEntry, trending []models.Track, err error) Msg {
	return Msg{kind: MsgHomeLoaded, data: homePayload{recent, searches, trending, err}}
}

// searchDebouncedMsg is the constructor for [MsgSearchDebounced]; seq identifies the keystroke that scheduled it
func searchDebouncedMsg(seq int) Msg {
	return Msg{kind: MsgSearchDebounced, data: seq}
}

// searchResultsMsg is the constructor for [MsgSearchResults]
func searchResultsMsg(seq int, query string, tracks []models.Track, more bool, err error) Msg {
	return Msg{kind: MsgSearchResults, data: searchPayload{seq, query, tracks, more, err}}
}

// libraryLoadedMsg is the constructor for [MsgLibraryLoaded]
func libraryLoadedMsg(likes []*models.LikedTrack, err error) Msg {
	return Msg{kind: MsgLibraryLoaded, data: libraryPayload{likes, err}}
}

// noticeMsg is the constructor for [MsgNotice]
func noticeMsg(n notify.Notice) Msg {
	return Msg{kind: MsgNotice, data: n}
}

// playerChangedMsg is the constructor for [MsgPlayerChanged]
func playerChangedMsg(c playback.Change) Msg {
	return Msg{kind: MsgPlayerChanged, data: c}
}

// tickMsg is the constructor for [MsgTick]
func tickMsg() Msg {
	return Msg{kind: MsgTick}
}

// lyricsLoadedMsg is the constructor for [MsgLyricsLoaded]
func lyricsLoadedMsg(gen uint64) Msg {
	return Msg{kind: MsgLyricsLoaded, data: gen}
}

// actionDoneMsg is the constructor for [MsgActionDone]; reload asks for the library to be refetched
func actionDoneMsg(reload bool) Msg {
	return Msg{kind: MsgActionDone, data: reload}
}
