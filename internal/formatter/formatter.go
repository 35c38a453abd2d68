// package formatter exports playlists and liked songs (CSV, Markdown, plain text, JSON) and renders terminal tables
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/shared"
)

// Export is a named list of tracks ready to be written out.
type Export struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Public      bool           `json:"public"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	ExportedAt  time.Time      `json:"exportedAt"`
	Tracks      []models.Track `json:"tracks"`
}

// PlaylistExport builds an [Export] from a stored playlist. The cover is the first track's artwork.
func PlaylistExport(playlist *models.Playlist, tracks []*models.PlaylistTrack) *Export {
	export := &Export{
		ID:          playlist.ID(),
		Name:        playlist.Name,
		Description: playlist.Description,
		Public:      playlist.Public,
		ImageURL:    playlist.AvatarURL,
		ExportedAt:  time.Now(),
		Tracks:      make([]models.Track, 0, len(tracks)),
	}
	for _, pt := range tracks {
		export.Tracks = append(export.Tracks, pt.Track())
	}
	if export.ImageURL == "" && len(export.Tracks) > 0 {
		export.ImageURL = export.Tracks[0].ImageURL
	}
	return export
}

// LikedExport builds an [Export] of the liked songs.
func LikedExport(likes []*models.LikedTrack) *Export {
	export := &Export{
		ID:         "liked-songs",
		Name:       "Liked Songs",
		ExportedAt: time.Now(),
		Tracks:     make([]models.Track, 0, len(likes)),
	}
	for _, like := range likes {
		export.Tracks = append(export.Tracks, like.Track())
	}
	return export
}

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

// Formats lists the accepted values of [ParseFormat].
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// Ext is the file extension a format writes. Markdown writes a directory and has none.
func (f Format) Ext() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatText:
		return ".txt"
	case FormatJSON:
		return ".json"
	}
	return ""
}

// ParseFormat accepts a format name or common alias ("md", "txt").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// ExportToCSV converts an [Export] to CSV with columns: ID, Title, Artist, Year, Image URL, Download URL
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Year", "Image URL", "Download URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.Tracks {
		record := []string{track.ID, track.Name, track.ArtistName, track.Year, track.ImageURL, track.DownloadURL}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an [Export] to Markdown with an optional cover image
func ExportToMarkdown(export *Export, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	if export.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", export.Description)
	}

	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(export.Tracks))
	fmt.Fprintf(&buf, "**Visibility**: %s\n\n", visibility(export.Public))

	buf.WriteString("## Tracks\n\n")
	for i, track := range export.Tracks {
		year := ""
		if track.Year != "" {
			year = fmt.Sprintf(" (%s)", track.Year)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, track.ArtistName, track.Name, year)
	}

	return buf.Bytes(), nil
}

// ExportToText converts an [Export] to plain text
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.Name)
	if export.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", export.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(export.Tracks))

	for i, track := range export.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.ArtistName, track.Name)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts an [Export] to indented JSON
func ExportToJSON(export *Export) ([]byte, error) {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

func visibility(public bool) string {
	if public {
		return "Public"
	}
	return "Private"
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// Writer writes exports to disk.
type Writer struct {
	// Client fetches cover images for Markdown exports. Nil disables covers.
	Client *http.Client
	Logger *log.Logger
}

// Write exports in format to path and returns the files created.
//
// An empty path defaults to a name derived from the export ID. Markdown exports are written as a
// directory holding README.md and, when a cover can be fetched, cover.jpg.
func (w *Writer) Write(export *Export, format Format, path string) ([]string, error) {
	switch format {
	case FormatCSV:
		return w.writeFile(export, path, format.Ext(), ExportToCSV)
	case FormatText:
		return w.writeFile(export, path, format.Ext(), ExportToText)
	case FormatJSON:
		return w.writeFile(export, path, format.Ext(), ExportToJSON)
	case FormatMarkdown:
		return w.writeMarkdown(export, path)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
}

func (w *Writer) writeFile(export *Export, path, ext string, render func(*Export) ([]byte, error)) ([]string, error) {
	if path == "" {
		path = export.ID + ext
	}

	data, err := render(export)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return []string{path}, nil
}

func (w *Writer) writeMarkdown(export *Export, dir string) ([]string, error) {
	if dir == "" {
		dir = export.ID
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var files []string
	cover := ""
	if w.Client != nil && export.ImageURL != "" {
		if data, err := DownloadImage(w.Client, export.ImageURL); err != nil {
			w.warn("failed to download cover image", err)
		} else if err := os.WriteFile(filepath.Join(dir, "cover.jpg"), data, 0644); err != nil {
			w.warn("failed to save cover image", err)
		} else {
			cover = "cover.jpg"
			files = append(files, filepath.Join(dir, cover))
		}
	}

	md, err := ExportToMarkdown(export, cover)
	if err != nil {
		return nil, err
	}

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, md, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return append(files, readme), nil
}

func (w *Writer) warn(msg string, err error) {
	if w.Logger != nil {
		w.Logger.Warn(msg, "error", err)
	}
}
