package library

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/shared"
)

// owned returns playlist id if it belongs to the user.
func (l *Library) owned(id string) (*models.Playlist, error) {
	playlist, err := l.store.Playlists.Get(id)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != l.userID {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return playlist, nil
}

// CreatePlaylist creates a private playlist.
func (l *Library) CreatePlaylist(name, description string) (*models.Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	playlist := models.NewPlaylist(l.userID, name, description)
	if err := l.store.Playlists.Create(playlist); err != nil {
		l.logger.Error("failed to create playlist", "error", err)
		notify.Errorf(l.notifier, "Failed to create playlist")
		return nil, err
	}

	notify.Infof(l.notifier, "Playlist created successfully")
	return playlist, nil
}

// Playlists returns the user's playlists in creation order.
func (l *Library) Playlists() ([]*models.Playlist, error) {
	playlists, err := l.store.Playlists.List(map[string]any{"user_id": l.userID})
	if err != nil {
		notify.Errorf(l.notifier, "Failed to load playlists")
		return nil, err
	}
	return playlists, nil
}

// Playlist returns one of the user's playlists.
func (l *Library) Playlist(id string) (*models.Playlist, error) {
	return l.owned(id)
}

// RenamePlaylist changes a playlist's name, restoring the old name if the write fails.
func (l *Library) RenamePlaylist(id, name string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	playlist, err := l.owned(id)
	if err != nil {
		notify.Errorf(l.notifier, "Failed to rename playlist")
		return nil, err
	}

	previous := playlist.Name
	playlist.Name = name
	if err := l.store.Playlists.Update(playlist); err != nil {
		playlist.Name = previous
		notify.Errorf(l.notifier, "Failed to rename playlist")
		return playlist, err
	}

	notify.Infof(l.notifier, "Playlist renamed successfully")
	return playlist, nil
}

// SetPublic toggles whether the playlist can be opened through a share link.
func (l *Library) SetPublic(id string, public bool) (*models.Playlist, error) {
	playlist, err := l.owned(id)
	if err != nil {
		return nil, err
	}

	previous := playlist.Public
	playlist.Public = public
	if err := l.store.Playlists.Update(playlist); err != nil {
		playlist.Public = previous
		notify.Errorf(l.notifier, "Failed to share playlist")
		return playlist, err
	}
	return playlist, nil
}

// DeletePlaylist soft-deletes a playlist.
func (l *Library) DeletePlaylist(id string) error {
	if _, err := l.owned(id); err != nil {
		notify.Errorf(l.notifier, "Failed to delete playlist")
		return err
	}
	if err := l.store.Playlists.Delete(id); err != nil {
		notify.Errorf(l.notifier, "Failed to delete playlist")
		return err
	}

	notify.Infof(l.notifier, "Playlist deleted successfully")
	return nil
}

// AddToPlaylist appends track. A track already in the playlist is rejected with [shared.ErrAlreadyExists].
func (l *Library) AddToPlaylist(id string, track models.Track) error {
	if _, err := l.owned(id); err != nil {
		notify.Errorf(l.notifier, "Failed to add track to playlist")
		return err
	}

	err := l.store.Tracks.Add(models.NewPlaylistTrack(id, track))
	switch {
	case errors.Is(err, shared.ErrAlreadyExists):
		notify.Errorf(l.notifier, "This song is already in the playlist")
		return err
	case err != nil:
		l.logger.Error("failed to add track", "playlist", id, "track", track.ID, "error", err)
		notify.Errorf(l.notifier, "Failed to add track to playlist")
		return err
	}

	notify.Infof(l.notifier, "Track added to playlist")
	return nil
}

// RemoveFromPlaylist removes trackID from the playlist.
func (l *Library) RemoveFromPlaylist(id, trackID string) error {
	if _, err := l.owned(id); err != nil {
		notify.Errorf(l.notifier, "Failed to remove track from playlist")
		return err
	}
	if err := l.store.Tracks.Remove(id, trackID); err != nil {
		notify.Errorf(l.notifier, "Failed to remove track from playlist")
		return err
	}

	notify.Infof(l.notifier, "Track removed from playlist")
	return nil
}

// PlaylistTracks returns the tracks of one of the user's playlists.
func (l *Library) PlaylistTracks(id string) ([]*models.PlaylistTrack, error) {
	if _, err := l.owned(id); err != nil {
		return nil, err
	}
	tracks, err := l.store.Tracks.List(id)
	if err != nil {
		notify.Errorf(l.notifier, "Failed to load playlist tracks")
		return nil, err
	}
	return tracks, nil
}
