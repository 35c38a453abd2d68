package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spin/internal/library"
	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/shared"
)

// PlaylistSource resolves public playlists.
type PlaylistSource interface {
	SharedPlaylist(id string) (*library.SharedPlaylist, error)
}

// SharedPlaylistResponse is the JSON document served for a shared playlist.
type SharedPlaylistResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	AvatarURL   string         `json:"avatarUrl,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Tracks      []models.Track `json:"tracks"`
}

// ShareHandler serves public playlists.
type ShareHandler struct {
	playlists PlaylistSource
	logger    *log.Logger
}

func NewShareHandler(playlists PlaylistSource, logger *log.Logger) *ShareHandler {
	return &ShareHandler{playlists: playlists, logger: logger}
}

func (h *ShareHandler) Routes() []string {
	return []string{"/shared-playlist/{id}"}
}

func (h *ShareHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	sp, err := h.playlists.SharedPlaylist(id)
	switch {
	case errors.Is(err, shared.ErrPlaylistNotFound):
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	case err != nil:
		h.logger.Error("failed to load shared playlist", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load playlist")
		return
	}

	resp := SharedPlaylistResponse{
		ID:          sp.Playlist.ID(),
		Name:        sp.Playlist.Name,
		Description: sp.Playlist.Description,
		AvatarURL:   sp.Playlist.AvatarURL,
		UpdatedAt:   sp.Playlist.UpdatedAt(),
		Tracks:      make([]models.Track, 0, len(sp.Tracks)),
	}
	for _, pt := range sp.Tracks {
		resp.Tracks = append(resp.Tracks, pt.Track())
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ShareURL builds the public link for playlistID under base.
func ShareURL(base, playlistID string) string {
	return strings.TrimRight(base, "/") + "/shared-playlist/" + url.PathEscape(playlistID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
