package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/spin/internal/models"
)

var _ list.Item = trackItem{}

// source records where a list row came from so actions can target the right store.
type source int

const (
	fromCatalog source = iota
	fromRecent
	fromLibrary
)

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track  models.Track
	source source
	liked  bool
}

func (i trackItem) FilterValue() string { return i.track.Name }

func (i trackItem) Title() string {
	title := i.track.Name
	if i.liked {
		title = "♥ " + title
	}
	return title
}

func (i trackItem) Description() string {
	desc := i.track.ArtistName
	if i.track.Year != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Year)
	}
	switch i.source {
	case fromRecent:
		desc = "recent • " + desc
	case fromLibrary:
		desc = "liked • " + desc
	}
	if !i.track.Playable() {
		desc += " • unavailable"
	}
	return desc
}

func recentItems(entries []models.RecentEntry, liked func(string) bool) []list.Item {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, trackItem{track: e.Track(), source: fromRecent, liked: liked(e.ID)})
	}
	return items
}

func trackItems(tracks []models.Track, src source, liked func(string) bool) []list.Item {
	items := make([]list.Item, 0, len(tracks))
	for _, t := range tracks {
		items = append(items, trackItem{track: t, source: src, liked: liked(t.ID)})
	}
	return items
}

func newTrackList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}
