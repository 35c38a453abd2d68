package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/playback"
	"github.com/desertthunder/spin/internal/recent"
	"github.com/desertthunder/spin/internal/services"
)

func (m *Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg() })
}

func (m *Model) waitForNotice() tea.Cmd {
	if m.deps.Notices == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case n := <-m.deps.Notices.C():
			return noticeMsg(n)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case c := <-m.changes:
			return playerChangedMsg(c)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) loadHome() tea.Cmd {
	return func() tea.Msg {
		home, err := m.deps.Recent.List(m.ctx, recent.Home)
		if err != nil {
			m.deps.Logger.Warn("failed to load recent tracks", "error", err)
		}
		searches, err := m.deps.Recent.List(m.ctx, recent.Search)
		if err != nil {
			m.deps.Logger.Warn("failed to load recent searches", "error", err)
		}
		trending, err := m.deps.Catalog.Trending(m.ctx)
		return homeLoadedMsg(home, searches, trending, err)
	}
}

func (m *Model) loadLibrary() tea.Cmd {
	if m.deps.Library == nil {
		return nil
	}
	return func() tea.Msg {
		if err := m.deps.Library.LoadLikes(); err != nil {
			return libraryLoadedMsg(nil, err)
		}
		likes, err := m.deps.Library.LikedTracks()
		return libraryLoadedMsg(likes, err)
	}
}

// startSearch runs the first page of the current query with a fresh paginator.
func (m *Model) startSearch() tea.Cmd {
	seq := m.searchSeq
	pager := services.NewPaginator(m.deps.Catalog, m.query.Value(), services.DefaultPageSize)
	m.pager = pager
	m.loadingMore = true
	return fetchPage(m, pager, seq)
}

// loadMore fetches the next page once the cursor reaches the last search result.
func (m *Model) loadMore() tea.Cmd {
	if m.pager == nil || m.loadingMore || !m.pager.HasMore() {
		return nil
	}
	if n := len(m.search.Items()); n == 0 || m.search.Index() < n-1 {
		return nil
	}
	m.loadingMore = true
	return fetchPage(m, m.pager, m.searchSeq)
}

func fetchPage(m *Model, pager *services.Paginator, seq int) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_, err := pager.Next(ctx)
		return searchResultsMsg(seq, pager.Query(), pager.Tracks(), pager.HasMore(), err)
	}
}

// play mounts item in the player and records it in the recently played list of the view it came from.
func (m *Model) play(item trackItem) tea.Cmd {
	if !item.track.Playable() {
		m.pushToast(notify.Notice{Level: notify.Error, Message: "This song is not available for playback"})
		return nil
	}

	view := m.view
	track := item.track
	return func() tea.Msg {
		m.deps.Session.SetCurrentTrack(m.ctx, track.Active())

		var err error
		if view == SearchView {
			err = m.deps.Recent.RecordFromSearch(m.ctx, track.Recent())
		} else {
			_, err = m.deps.Recent.Record(m.ctx, recent.Home, track.Recent())
		}
		if err != nil {
			m.deps.Logger.Warn("failed to record recent track", "track", track.ID, "error", err)
		}
		return actionDoneMsg(false)
	}
}

// toggleLike likes or unlikes the selected row, falling back to the playing track.
func (m *Model) toggleLike() tea.Cmd {
	if m.deps.Library == nil {
		return nil
	}

	item, ok := m.selected()
	track := item.track
	if !ok {
		if m.track == nil {
			return nil
		}
		track.ID = m.track.TrackID
		track.Name = m.track.Title
		track.ArtistName = m.track.ArtistName
		track.ImageURL = m.track.ArtworkURL
		track.DownloadURL = m.track.StreamURL
	}

	return func() tea.Msg {
		if _, err := m.deps.Library.ToggleLike(track); err != nil {
			m.deps.Logger.Warn("failed to toggle like", "track", track.ID, "error", err)
		}
		return actionDoneMsg(true)
	}
}

// removeRecent drops the selected recently played row from its list.
func (m *Model) removeRecent() tea.Cmd {
	item, ok := m.selected()
	if !ok || item.source != fromRecent {
		return nil
	}

	view := recent.Home
	if m.view == SearchView {
		view = recent.Search
	}
	return func() tea.Msg {
		if _, err := m.deps.Recent.Remove(m.ctx, view, item.track.ID); err != nil {
			m.deps.Logger.Warn("failed to remove recent track", "track", item.track.ID, "error", err)
		}
		return actionDoneMsg(false)
	}
}

func (m *Model) fetchLyrics(w *playback.Widget) tea.Cmd {
	m.lyrics.SetContent("Loading lyrics...")
	m.lyrics.GotoTop()
	return func() tea.Msg {
		if err := w.FetchLyrics(m.ctx); err != nil {
			m.deps.Logger.Debug("lyrics unavailable", "error", err)
		}
		return lyricsLoadedMsg(w.Generation())
	}
}

func (m *Model) download(w *playback.Widget) tea.Cmd {
	return func() tea.Msg {
		if _, err := w.Download(m.ctx); err != nil {
			m.deps.Logger.Warn("download failed", "error", err)
		}
		return nil
	}
}
