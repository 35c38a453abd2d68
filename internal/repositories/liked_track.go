package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/shared"
)

// LikedTrackRepository stores a user's liked songs.
type LikedTrackRepository struct {
	db *sql.DB
}

// NewLikedTrackRepository creates a new LikedTrackRepository
func NewLikedTrackRepository(db *sql.DB) *LikedTrackRepository {
	return &LikedTrackRepository{db: db}
}

// Create inserts a like. Liking a track twice returns [shared.ErrAlreadyExists].
func (r *LikedTrackRepository) Create(like *models.LikedTrack) error {
	if err := like.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO liked_tracks (id, user_id, track_id, name, artist_name, description, image_url, download_url, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, id, like.UserID, like.TrackID, like.Name, like.ArtistName, like.Description, like.ImageURL, like.DownloadURL, like.AddedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: track %s", shared.ErrAlreadyExists, like.TrackID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert liked track: %w", err)
	}

	like.ID = id
	return nil
}

// Delete removes a like
func (r *LikedTrackRepository) Delete(userID, trackID string) error {
	result, err := r.db.Exec(`DELETE FROM liked_tracks WHERE user_id = ? AND track_id = ?`, userID, trackID)
	if err != nil {
		return fmt.Errorf("failed to delete liked track: %w", err)
	}
	return expectAffected(result, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID))
}

// Exists reports whether userID has liked trackID
func (r *LikedTrackRepository) Exists(userID, trackID string) (bool, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM liked_tracks WHERE user_id = ? AND track_id = ?`, userID, trackID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check liked track: %w", err)
	}
	return n > 0, nil
}

// List returns userID's likes, newest first
func (r *LikedTrackRepository) List(userID string) ([]*models.LikedTrack, error) {
	query := `
		SELECT id, user_id, track_id, name, artist_name, description, image_url, download_url, added_at
		FROM liked_tracks
		WHERE user_id = ?
		ORDER BY added_at DESC, rowid DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked tracks: %w", err)
	}
	defer rows.Close()

	var likes []*models.LikedTrack
	for rows.Next() {
		var l models.LikedTrack
		if err := rows.Scan(&l.ID, &l.UserID, &l.TrackID, &l.Name, &l.ArtistName, &l.Description, &l.ImageURL, &l.DownloadURL, &l.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan liked track: %w", err)
		}
		likes = append(likes, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return likes, nil
}
