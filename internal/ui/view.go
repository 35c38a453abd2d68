package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/playback"
)

const progressWidth = 30

// View renders the UI based on the current view state.
func (m *Model) View() string {
	sections := []string{m.renderTabs()}

	switch {
	case m.showLyrics:
		sections = append(sections, m.renderLyrics())
	case m.view == SearchView:
		sections = append(sections, m.query.View(), m.search.View())
	case m.view == LibraryView:
		sections = append(sections, m.library.View())
	default:
		sections = append(sections, m.home.View())
	}

	sections = append(sections, m.renderPlayer())
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, m.help.ShortHelpView(m.helpKeys()))

	return strings.Join(sections, "\n")
}

func (m *Model) renderTabs() string {
	tabs := []string{styles.ok.Render("spin")}
	for i, name := range viewNames {
		if ViewState(i) == m.view {
			tabs = append(tabs, styles.active.Render(name))
		} else {
			tabs = append(tabs, styles.tab.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderLyrics() string {
	title := "Lyrics"
	if m.track != nil {
		title = fmt.Sprintf("Lyrics · %s", m.track.Title)
	}
	return fmt.Sprintf("%s\n%s", styles.title.Render(title), m.lyrics.View())
}

// renderPlayer draws the now-playing bar.
func (m *Model) renderPlayer() string {
	if m.track == nil {
		return styles.bar.Render(styles.muted.Render("Nothing playing"))
	}

	icon := "⏸"
	if m.player.IsPlaying {
		icon = "▶"
	}
	if !m.player.Ready {
		icon = "…"
	}

	line1 := fmt.Sprintf("%s %s · %s", icon, styles.ok.Render(m.track.Title), m.track.ArtistName)
	if m.isLiked(m.track.TrackID) {
		line1 += " " + styles.err.Render("♥")
	}

	line2 := fmt.Sprintf("%s %s %s%s",
		playback.FormatTime(m.player.Position),
		progressBar(m.player.Position, m.player.Duration, progressWidth),
		playback.FormatTime(m.player.Duration),
		flags(m.player),
	)
	return styles.bar.Render(line1 + "\n" + line2)
}

// progressBar renders position/duration as a fixed-width bar. An unknown duration renders empty.
func progressBar(position, duration float64, width int) string {
	filled := 0
	if duration > 0 {
		filled = int(float64(width) * min(max(position/duration, 0), 1))
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func flags(st playback.State) string {
	var parts []string
	if st.IsMuted {
		parts = append(parts, "muted")
	}
	if st.IsLooping {
		parts = append(parts, "loop")
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + styles.warn.Render(strings.Join(parts, " "))
}

func (m *Model) renderToasts() string {
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		style := styles.ok
		if t.notice.Level == notify.Error {
			style = styles.err
		}
		lines = append(lines, styles.toast.Render(style.Render(t.notice.Message)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) helpKeys() []key.Binding {
	switch {
	case m.typing:
		return []key.Binding{m.keys.play, m.keys.back}
	case m.showLyrics:
		return []key.Binding{m.keys.up, m.keys.down, m.keys.back}
	case m.track != nil:
		return []key.Binding{m.keys.play, m.keys.pause, m.keys.forward, m.keys.loop, m.keys.mute, m.keys.lyrics, m.keys.download, m.keys.like, m.keys.stop, m.keys.quit}
	}
	return []key.Binding{m.keys.play, m.keys.next, m.keys.search, m.keys.like, m.keys.remove, m.keys.quit}
}
