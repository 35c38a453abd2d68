// package library manages a user's likes, playlists and play history
//
// Likes are mirrored in a local set that is updated optimistically and rolled back when the
// relational store rejects a write. Every user-visible outcome is reported through a notice.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/xrash/smetrics"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/playback"
	"github.com/desertthunder/spin/internal/repositories"
	"github.com/desertthunder/spin/internal/shared"
)

// Store bundles the repositories behind the library.
type Store struct {
	Playlists *repositories.PlaylistRepository
	Tracks    *repositories.PlaylistTrackRepository
	Likes     *repositories.LikedTrackRepository
	History   *repositories.PlayHistoryRepository
}

// NewStore creates repositories over db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		Playlists: repositories.NewPlaylistRepository(db),
		Tracks:    repositories.NewPlaylistTrackRepository(db),
		Likes:     repositories.NewLikedTrackRepository(db),
		History:   repositories.NewPlayHistoryRepository(db),
	}
}

// SharedPlaylist is a public playlist with its tracks.
type SharedPlaylist struct {
	Playlist *models.Playlist
	Tracks   []*models.PlaylistTrack
}

// SharedPlaylist loads a public playlist without requiring a session.
// Private and missing playlists both return [shared.ErrPlaylistNotFound].
func (s *Store) SharedPlaylist(id string) (*SharedPlaylist, error) {
	playlist, err := s.Playlists.Get(id)
	if err != nil {
		return nil, err
	}
	if !playlist.Public {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	tracks, err := s.Tracks.List(id)
	if err != nil {
		return nil, err
	}
	return &SharedPlaylist{Playlist: playlist, Tracks: tracks}, nil
}

var _ playback.Recorder = (*Library)(nil)

// Library is one user's view of the store.
type Library struct {
	mu       sync.Mutex
	store    *Store
	userID   string
	liked    map[string]bool
	notifier notify.Notifier
	logger   *log.Logger
}

// ForUser binds the store to userID.
func (s *Store) ForUser(userID string, notifier notify.Notifier, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.Default()
	}
	return &Library{
		store:    s,
		userID:   userID,
		liked:    map[string]bool{},
		notifier: notifier,
		logger:   shared.WithLogger(logger, "component", "library", "user", userID),
	}
}

// UserID returns the owner of the library.
func (l *Library) UserID() string { return l.userID }

// LoadLikes replaces the local liked set with the store's.
func (l *Library) LoadLikes() error {
	likes, err := l.store.Likes.List(l.userID)
	if err != nil {
		notify.Errorf(l.notifier, "Failed to load liked tracks")
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.liked = lo.SliceToMap(likes, func(like *models.LikedTrack) (string, bool) {
		return like.TrackID, true
	})
	return nil
}

// IsLiked reports the local liked state of trackID.
func (l *Library) IsLiked(trackID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.liked[trackID]
}

// Like adds track to the liked songs. Liking a track twice is reported, not returned as an error.
func (l *Library) Like(track models.Track) error {
	l.mu.Lock()
	if l.liked[track.ID] {
		l.mu.Unlock()
		notify.Infof(l.notifier, "This song is already in your library")
		return nil
	}
	l.liked[track.ID] = true
	l.mu.Unlock()

	err := l.store.Likes.Create(models.NewLikedTrack(l.userID, track))
	switch {
	case errors.Is(err, shared.ErrAlreadyExists):
		notify.Infof(l.notifier, "This song is already in your library")
		return nil
	case err != nil:
		l.mu.Lock()
		delete(l.liked, track.ID)
		l.mu.Unlock()
		l.logger.Error("failed to like track", "track", track.ID, "error", err)
		notify.Errorf(l.notifier, "Failed to add song to library")
		return err
	}

	notify.Infof(l.notifier, "Song added to your library")
	return nil
}

// Unlike removes trackID from the liked songs.
func (l *Library) Unlike(trackID string) error {
	l.mu.Lock()
	was := l.liked[trackID]
	delete(l.liked, trackID)
	l.mu.Unlock()

	if err := l.store.Likes.Delete(l.userID, trackID); err != nil && !errors.Is(err, shared.ErrTrackNotFound) {
		if was {
			l.mu.Lock()
			l.liked[trackID] = true
			l.mu.Unlock()
		}
		l.logger.Error("failed to unlike track", "track", trackID, "error", err)
		notify.Errorf(l.notifier, "Failed to remove song from library")
		return err
	}

	notify.Infof(l.notifier, "Song removed from your library")
	return nil
}

// ToggleLike likes or unlikes track and returns the new state.
func (l *Library) ToggleLike(track models.Track) (bool, error) {
	if l.IsLiked(track.ID) {
		return false, l.Unlike(track.ID)
	}
	if err := l.Like(track); err != nil {
		return false, err
	}
	return true, nil
}

// LikedTracks returns the liked songs, newest first.
func (l *Library) LikedTracks() ([]*models.LikedTrack, error) {
	likes, err := l.store.Likes.List(l.userID)
	if err != nil {
		notify.Errorf(l.notifier, "Failed to load liked tracks")
		return nil, err
	}
	return likes, nil
}

// Match is a fuzzy search hit.
type Match struct {
	Track *models.LikedTrack
	Score float64
}

// MinMatchScore is the lowest Jaro-Winkler similarity [Library.FindLiked] returns.
const MinMatchScore = 0.7

// FindLiked ranks liked songs against query by Jaro-Winkler similarity of the title and artist.
// Substring hits always match.
func (l *Library) FindLiked(query string) ([]Match, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", shared.ErrInvalidArgument)
	}

	likes, err := l.LikedTracks()
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, like := range likes {
		score := 0.0
		for _, field := range []string{like.Name, like.ArtistName, like.Name + " " + like.ArtistName} {
			field = strings.ToLower(field)
			if strings.Contains(field, query) {
				score = 1
				break
			}
			score = max(score, smetrics.JaroWinkler(query, field, 0.7, 4))
		}
		if score >= MinMatchScore {
			matches = append(matches, Match{Track: like, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// RecordPlay appends track to the play history.
func (l *Library) RecordPlay(ctx context.Context, track models.ActiveTrack) error {
	return l.store.History.Create(&models.PlayHistory{
		UserID:      l.userID,
		TrackID:     track.TrackID,
		Name:        track.Title,
		ArtistName:  track.ArtistName,
		ImageURL:    track.ArtworkURL,
		DownloadURL: track.StreamURL,
		PlayedAt:    time.Now(),
	})
}

// History returns the newest limit plays.
func (l *Library) History(limit int) ([]*models.PlayHistory, error) {
	return l.store.History.List(l.userID, limit)
}
