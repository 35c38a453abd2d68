package services

import (
	"context"

	"github.com/desertthunder/spin/internal/models"
)

// DefaultPageSize is the number of tracks requested per search page.
const DefaultPageSize = 20

// Catalog searches the track catalog.
type Catalog interface {
	// SearchTracks returns one page of results; page numbering starts at 1.
	SearchTracks(ctx context.Context, query string, page, limit int) ([]models.Track, error)

	// Trending returns the trending shelf.
	Trending(ctx context.Context) ([]models.Track, error)

	// NewReleases returns the new releases shelf.
	NewReleases(ctx context.Context) ([]models.Track, error)

	// Genre returns the shelf for one of [Genres].
	Genre(ctx context.Context, genre string) ([]models.Track, error)
}

// LyricsProvider fetches raw (possibly HTML-bearing) lyrics by track id.
type LyricsProvider interface {
	GetLyrics(ctx context.Context, trackID string) (string, error)
}

// Streamer fetches the bytes behind a stream URL.
type Streamer interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Genres lists the home screen genre shelves in display order.
var Genres = []string{"pop", "rock", "rap", "jazz", "electronic", "country", "classical"}
