package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	play     key.Binding
	next     key.Binding
	search   key.Binding
	back     key.Binding
	pause    key.Binding
	mute     key.Binding
	loop     key.Binding
	forward  key.Binding
	rewind   key.Binding
	lyrics   key.Binding
	download key.Binding
	like     key.Binding
	remove   key.Binding
	stop     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		play:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		pause:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		mute:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		loop:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "loop")),
		forward:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "+5s")),
		rewind:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "-5s")),
		lyrics:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "lyrics")),
		download: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		like:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "like")),
		remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		stop:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close player")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.next, k.search, k.pause, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.play, k.next, k.search, k.back},
		{k.pause, k.mute, k.loop, k.forward, k.rewind, k.stop},
		{k.lyrics, k.download, k.like, k.remove, k.quit},
	}
}
