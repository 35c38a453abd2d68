package formatter

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/desertthunder/spin/internal/models"
)

const heart = "♥"

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// TrackTable renders tracks with a 1-based index column. Tracks in liked get a heart.
func TrackTable(w io.Writer, tracks []models.Track, liked map[string]bool) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "", "Title", "Artist", "Year", "ID"})

	for i, track := range tracks {
		mark := ""
		if liked[track.ID] {
			mark = text.FgRed.Sprint(heart)
		}
		title := track.Name
		if !track.Playable() {
			title = text.FgHiBlack.Sprint(title)
		}
		t.AppendRow(table.Row{i + 1, mark, title, track.ArtistName, track.Year, track.ID})
	}

	t.Render()
}

// PlaylistTable renders playlists with their track counts.
func PlaylistTable(w io.Writer, playlists []*models.Playlist, counts map[string]int) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Name", "Tracks", "Visibility", "ID"})

	for _, p := range playlists {
		vis := visibility(p.Public)
		if p.Public {
			vis = text.FgGreen.Sprint(vis)
		}
		t.AppendRow(table.Row{p.Sequence, p.Name, strconv.Itoa(counts[p.ID()]), vis, p.ID()})
	}

	t.Render()
}

// HistoryTable renders play history, newest first.
func HistoryTable(w io.Writer, plays []*models.PlayHistory) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Played", "Title", "Artist", "ID"})

	for _, p := range plays {
		t.AppendRow(table.Row{p.PlayedAt.Local().Format("Jan 2 15:04"), p.Name, p.ArtistName, p.TrackID})
	}

	t.Render()
}
