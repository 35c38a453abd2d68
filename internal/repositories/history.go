package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/shared"
)

// PlayHistoryRepository is the append-only play log.
type PlayHistoryRepository struct {
	db *sql.DB
}

// NewPlayHistoryRepository creates a new PlayHistoryRepository
func NewPlayHistoryRepository(db *sql.DB) *PlayHistoryRepository {
	return &PlayHistoryRepository{db: db}
}

// Create appends a play event
func (r *PlayHistoryRepository) Create(h *models.PlayHistory) error {
	if h.UserID == "" || h.TrackID == "" {
		return fmt.Errorf("%w: user_id and track_id are required", shared.ErrInvalidInput)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO play_history (id, user_id, track_id, name, artist_name, image_url, download_url, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query, id, h.UserID, h.TrackID, h.Name, h.ArtistName, h.ImageURL, h.DownloadURL, h.PlayedAt); err != nil {
		return fmt.Errorf("failed to insert play history: %w", err)
	}

	h.ID = id
	return nil
}

// List returns the newest limit plays for userID. A limit of zero or less returns everything.
func (r *PlayHistoryRepository) List(userID string, limit int) ([]*models.PlayHistory, error) {
	query := `
		SELECT id, user_id, track_id, name, artist_name, image_url, download_url, played_at
		FROM play_history
		WHERE user_id = ?
		ORDER BY played_at DESC, rowid DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query play history: %w", err)
	}
	defer rows.Close()

	var plays []*models.PlayHistory
	for rows.Next() {
		var h models.PlayHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.TrackID, &h.Name, &h.ArtistName, &h.ImageURL, &h.DownloadURL, &h.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play history: %w", err)
		}
		plays = append(plays, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return plays, nil
}
