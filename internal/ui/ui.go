package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/spin/internal/library"
	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/playback"
	"github.com/desertthunder/spin/internal/recent"
	"github.com/desertthunder/spin/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HomeView ViewState = iota
	SearchView
	LibraryView
)

var viewNames = []string{"Home", "Search", "Library"}

func (v ViewState) String() string { return viewNames[v] }

const (
	tickInterval  = 250 * time.Millisecond
	debounceDelay = 300 * time.Millisecond
	toastTTL      = 3 * time.Second
	maxToasts     = 3
	seekStep      = 5.0
)

// Deps are the services the TUI drives.
type Deps struct {
	Catalog services.Catalog
	Recent  *recent.Cache
	Session *playback.Session
	Library *library.Library
	Notices *notify.ChanNotifier
	Logger  *log.Logger
}

type toast struct {
	notice  notify.Notice
	expires time.Time
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	deps    Deps
	view    ViewState
	width   int
	height  int
	home    list.Model
	search  list.Model
	library list.Model

	query       textinput.Model
	typing      bool
	searchSeq   int
	pager       *services.Paginator
	loadingMore bool
	searches    []models.RecentEntry

	track      *models.ActiveTrack
	player     playback.State
	lyrics     viewport.Model
	showLyrics bool

	toasts  []toast
	changes chan playback.Change
	help    help.Model
	keys    keyMap
	now     func() time.Time
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}

	query := textinput.New()
	query.Placeholder = "Search songs"
	query.Prompt = "/ "

	m := &Model{
		ctx:     ctx,
		deps:    deps,
		view:    HomeView,
		home:    newTrackList("Recently Played & Trending"),
		search:  newTrackList("Recent Searches"),
		library: newTrackList("Liked Songs"),
		query:   query,
		lyrics:  viewport.New(0, 0),
		changes: make(chan playback.Change, 8),
		help:    help.New(),
		keys:    newKeyMap(),
		now:     time.Now,
	}

	deps.Session.Subscribe(func(c playback.Change) {
		select {
		case m.changes <- c:
		default:
		}
	})
	return m
}

// Init loads the home and library views and starts the player ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadHome(), m.loadLibrary(), m.waitForNotice(), m.waitForChange(), m.tick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case Msg:
		return m.handleMsg(msg)
	}
	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgHomeLoaded:
		p := msg.data.(homePayload)
		if p.err != nil {
			m.pushToast(notify.Notice{Level: notify.Error, Message: "Failed to load trending songs"})
		}
		items := append(recentItems(p.recent, m.isLiked), trackItems(p.trending, fromCatalog, m.isLiked)...)
		m.home.SetItems(items)
		m.searches = p.searches
		if m.pager == nil {
			m.search.SetItems(recentItems(p.searches, m.isLiked))
		}
		return m, nil

	case MsgSearchDebounced:
		if msg.data.(int) != m.searchSeq {
			return m, nil
		}
		return m, m.startSearch()

	case MsgSearchResults:
		p := msg.data.(searchPayload)
		if p.seq != m.searchSeq {
			return m, nil
		}
		m.loadingMore = false
		if p.err != nil {
			m.pushToast(notify.Notice{Level: notify.Error, Message: "Search failed"})
			return m, nil
		}
		m.search.Title = "Results for \"" + p.query + "\""
		m.search.SetItems(trackItems(p.tracks, fromCatalog, m.isLiked))
		return m, nil

	case MsgLibraryLoaded:
		p := msg.data.(libraryPayload)
		if p.err != nil {
			return m, nil
		}
		tracks := make([]models.Track, 0, len(p.likes))
		for _, like := range p.likes {
			tracks = append(tracks, like.Track())
		}
		m.library.SetItems(trackItems(tracks, fromLibrary, m.isLiked))
		return m, m.relabel()

	case MsgNotice:
		m.pushToast(msg.data.(notify.Notice))
		return m, m.waitForNotice()

	case MsgPlayerChanged:
		m.refreshPlayer()
		return m, m.waitForChange()

	case MsgTick:
		m.refreshPlayer()
		m.pruneToasts()
		return m, m.tick()

	case MsgLyricsLoaded:
		m.refreshPlayer()
		return m, nil

	case MsgActionDone:
		m.refreshPlayer()
		if msg.data.(bool) {
			return m, tea.Batch(m.loadLibrary(), m.loadHome())
		}
		return m, m.loadHome()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.typing {
		return m.handleQueryKeys(msg)
	}
	if m.showLyrics {
		return m.handleLyricsKeys(msg)
	}

	w := m.deps.Session.Widget()

	switch {
	case key.Matches(msg, m.keys.quit):
		m.deps.Session.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		m.view = (m.view + 1) % ViewState(len(viewNames))
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.typing = true
		return m, m.query.Focus()
	case key.Matches(msg, m.keys.back):
		if m.view == SearchView && m.query.Value() != "" {
			m.clearSearch()
		}
		return m, nil
	case key.Matches(msg, m.keys.play):
		if item, ok := m.selected(); ok {
			return m, m.play(item)
		}
		return m, nil
	case key.Matches(msg, m.keys.like):
		return m, m.toggleLike()
	case key.Matches(msg, m.keys.remove):
		return m, m.removeRecent()
	}

	if w == nil {
		return m.updateList(msg)
	}

	var err error
	switch {
	case key.Matches(msg, m.keys.pause):
		err = w.TogglePlayPause()
	case key.Matches(msg, m.keys.mute):
		err = w.ToggleMute()
	case key.Matches(msg, m.keys.loop):
		err = w.ToggleLoop()
	case key.Matches(msg, m.keys.forward):
		err = w.Seek(w.State().Position + seekStep)
	case key.Matches(msg, m.keys.rewind):
		err = w.Seek(w.State().Position - seekStep)
	case key.Matches(msg, m.keys.stop):
		w.Close()
	case key.Matches(msg, m.keys.lyrics):
		m.showLyrics = true
		return m, m.fetchLyrics(w)
	case key.Matches(msg, m.keys.download):
		return m, m.download(w)
	default:
		return m.updateList(msg)
	}

	if err != nil {
		m.deps.Logger.Debug("player control failed", "key", msg.String(), "error", err)
	}
	m.refreshPlayer()
	return m, nil
}

func (m *Model) handleQueryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.deps.Session.Close()
		return m, tea.Quit
	case "esc", "enter", "down", "tab":
		m.typing = false
		m.query.Blur()
		if msg.String() == "enter" && strings.TrimSpace(m.query.Value()) != "" {
			m.searchSeq++
			return m, m.startSearch()
		}
		return m, nil
	}

	before := m.query.Value()
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	if m.query.Value() == before {
		return m, cmd
	}

	m.searchSeq++
	if strings.TrimSpace(m.query.Value()) == "" {
		m.clearSearch()
		return m, cmd
	}
	seq := m.searchSeq
	return m, tea.Batch(cmd, tea.Tick(debounceDelay, func(time.Time) tea.Msg { return searchDebouncedMsg(seq) }))
}

func (m *Model) handleLyricsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c":
		m.deps.Session.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.lyrics), key.Matches(msg, m.keys.quit):
		m.showLyrics = false
		if w := m.deps.Session.Widget(); w != nil {
			w.CloseLyrics()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.lyrics, cmd = m.lyrics.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case HomeView:
		m.home, cmd = m.home.Update(msg)
	case SearchView:
		m.search, cmd = m.search.Update(msg)
		if more := m.loadMore(); more != nil {
			return m, tea.Batch(cmd, more)
		}
	case LibraryView:
		m.library, cmd = m.library.Update(msg)
	}
	return m, cmd
}

func (m *Model) currentList() *list.Model {
	switch m.view {
	case SearchView:
		return &m.search
	case LibraryView:
		return &m.library
	}
	return &m.home
}

func (m *Model) selected() (trackItem, bool) {
	item, ok := m.currentList().SelectedItem().(trackItem)
	return item, ok
}

func (m *Model) isLiked(id string) bool {
	return m.deps.Library != nil && m.deps.Library.IsLiked(id)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	listHeight := max(height-9, 3)
	for _, l := range []*list.Model{&m.home, &m.search, &m.library} {
		l.SetSize(width-4, listHeight)
	}
	m.query.Width = max(width-6, 10)
	m.lyrics.Width = max(width-4, 10)
	m.lyrics.Height = listHeight
	m.help.Width = width
}

func (m *Model) pushToast(n notify.Notice) {
	m.toasts = append(m.toasts, toast{notice: n, expires: m.now().Add(toastTTL)})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
}

func (m *Model) pruneToasts() {
	now := m.now()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// refreshPlayer copies the mounted widget's state into the model.
func (m *Model) refreshPlayer() {
	m.track = m.deps.Session.CurrentTrack()
	w := m.deps.Session.Widget()
	if w == nil {
		m.player = playback.State{}
		m.showLyrics = false
		return
	}

	m.player = w.State()
	if m.showLyrics {
		switch {
		case m.player.Lyrics.Loading:
			m.lyrics.SetContent("Loading lyrics...")
		case m.player.Lyrics.Text != nil:
			m.lyrics.SetContent(*m.player.Lyrics.Text)
		default:
			m.lyrics.SetContent("No lyrics available")
		}
	}
}

func (m *Model) clearSearch() {
	m.query.SetValue("")
	m.pager = nil
	m.loadingMore = false
	m.search.Title = "Recent Searches"
	m.search.SetItems(recentItems(m.searches, m.isLiked))
}

// relabel refreshes the liked markers of every list.
func (m *Model) relabel() tea.Cmd {
	var cmds []tea.Cmd
	for _, l := range []*list.Model{&m.home, &m.search, &m.library} {
		items := l.Items()
		for i, it := range items {
			if ti, ok := it.(trackItem); ok {
				ti.liked = m.isLiked(ti.track.ID)
				items[i] = ti
			}
		}
		cmds = append(cmds, l.SetItems(items))
	}
	return tea.Batch(cmds...)
}
