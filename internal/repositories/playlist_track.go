package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/shared"
)

// PlaylistTrackRepository stores playlist membership rows.
type PlaylistTrackRepository struct {
	db *sql.DB
}

// NewPlaylistTrackRepository creates a new PlaylistTrackRepository
func NewPlaylistTrackRepository(db *sql.DB) *PlaylistTrackRepository {
	return &PlaylistTrackRepository{db: db}
}

// Add inserts a track into a playlist. Adding the same track twice returns [shared.ErrAlreadyExists].
func (r *PlaylistTrackRepository) Add(pt *models.PlaylistTrack) error {
	if pt.PlaylistID == "" || pt.TrackID == "" {
		return fmt.Errorf("%w: playlist_id and track_id are required", shared.ErrInvalidInput)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO playlist_tracks (id, playlist_id, track_id, name, artist_name, description, image_url, download_url, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, id, pt.PlaylistID, pt.TrackID, pt.Name, pt.ArtistName, pt.Description, pt.ImageURL, pt.DownloadURL, pt.AddedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: track %s in playlist %s", shared.ErrAlreadyExists, pt.TrackID, pt.PlaylistID)
	}
	if err != nil {
		return fmt.Errorf("failed to add playlist track: %w", err)
	}

	pt.ID = id
	return nil
}

// Remove deletes a track from a playlist
func (r *PlaylistTrackRepository) Remove(playlistID, trackID string) error {
	result, err := r.db.Exec(`DELETE FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?`, playlistID, trackID)
	if err != nil {
		return fmt.Errorf("failed to remove playlist track: %w", err)
	}
	return expectAffected(result, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID))
}

// List returns a playlist's tracks in insertion order
func (r *PlaylistTrackRepository) List(playlistID string) ([]*models.PlaylistTrack, error) {
	query := `
		SELECT id, playlist_id, track_id, name, artist_name, description, image_url, download_url, added_at
		FROM playlist_tracks
		WHERE playlist_id = ?
		ORDER BY added_at ASC, rowid ASC
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.PlaylistTrack
	for rows.Next() {
		var pt models.PlaylistTrack
		if err := rows.Scan(&pt.ID, &pt.PlaylistID, &pt.TrackID, &pt.Name, &pt.ArtistName, &pt.Description, &pt.ImageURL, &pt.DownloadURL, &pt.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist track: %w", err)
		}
		tracks = append(tracks, &pt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// Count returns the number of tracks in a playlist
func (r *PlaylistTrackRepository) Count(playlistID string) (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM playlist_tracks WHERE playlist_id = ?`, playlistID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count playlist tracks: %w", err)
	}
	return n, nil
}
