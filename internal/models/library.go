package models

import (
	"fmt"
	"time"
)

// LikedTrack is a track in a user's liked songs.
type LikedTrack struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TrackID     string    `json:"track_id"`
	Name        string    `json:"name"`
	ArtistName  string    `json:"artist_name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	DownloadURL string    `json:"download_url"`
	AddedAt     time.Time `json:"added_at"`
}

// NewLikedTrack builds a like row for userID.
func NewLikedTrack(userID string, track Track) *LikedTrack {
	return &LikedTrack{
		UserID:      userID,
		TrackID:     track.ID,
		Name:        track.Name,
		ArtistName:  track.ArtistName,
		ImageURL:    track.ImageURL,
		DownloadURL: track.DownloadURL,
		AddedAt:     time.Now(),
	}
}

// Validate checks required like fields.
func (l *LikedTrack) Validate() error {
	if l.UserID == "" || l.TrackID == "" {
		return fmt.Errorf("liked track requires user_id and track_id")
	}
	return nil
}

// Track converts the row into a [Track].
func (l LikedTrack) Track() Track {
	return Track{
		ID:          l.TrackID,
		Name:        l.Name,
		ArtistName:  l.ArtistName,
		ImageURL:    l.ImageURL,
		DownloadURL: l.DownloadURL,
	}
}

// PlayHistory is one play event.
type PlayHistory struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TrackID     string    `json:"track_id"`
	Name        string    `json:"name"`
	ArtistName  string    `json:"artist_name"`
	ImageURL    string    `json:"image_url"`
	DownloadURL string    `json:"download_url"`
	PlayedAt    time.Time `json:"played_at"`
}

// Session is the signed-in user as reported by the auth provider.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
