package models

import (
	"fmt"
	"strings"
	"time"
)

// Playlist is a user playlist persisted in the relational store.
type Playlist struct {
	entity
	Sequence    int
	UserID      string
	Name        string
	Description string
	AvatarURL   string
	Public      bool
	LikesCount  int
}

// NewPlaylist creates a private playlist owned by userID.
func NewPlaylist(userID, name, description string) *Playlist {
	return &Playlist{
		entity:      newEntity(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: description,
	}
}

// Validate checks required playlist fields.
func (p *Playlist) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("playlist user_id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("playlist name is required")
	}
	return nil
}

// PlaylistTrack is a track's membership in a playlist. The track metadata is denormalized onto the row.
type PlaylistTrack struct {
	ID          string    `json:"id"`
	PlaylistID  string    `json:"playlist_id"`
	TrackID     string    `json:"track_id"`
	Name        string    `json:"name"`
	ArtistName  string    `json:"artist_name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	DownloadURL string    `json:"download_url"`
	AddedAt     time.Time `json:"added_at"`
}

// NewPlaylistTrack builds a membership row for track in playlistID.
func NewPlaylistTrack(playlistID string, track Track) *PlaylistTrack {
	return &PlaylistTrack{
		PlaylistID:  playlistID,
		TrackID:     track.ID,
		Name:        track.Name,
		ArtistName:  track.ArtistName,
		ImageURL:    track.ImageURL,
		DownloadURL: track.DownloadURL,
		AddedAt:     time.Now(),
	}
}

// Track converts the row into a [Track].
func (pt PlaylistTrack) Track() Track {
	return Track{
		ID:          pt.TrackID,
		Name:        pt.Name,
		ArtistName:  pt.ArtistName,
		ImageURL:    pt.ImageURL,
		DownloadURL: pt.DownloadURL,
	}
}
