// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/shared"
)

// MemoryKV is an in-memory [repositories.KVStore]. Setting Err makes every call fail.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
	Err    error
	Writes int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.values[key] = value
	m.Writes++
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.values, key)
	return nil
}

// MockCatalog is a test double for [services.Catalog] backed by a fixed track list.
//
// SearchTracks pages through Tracks; queries are recorded in Queries.
type MockCatalog struct {
	mu      sync.Mutex
	Tracks  []models.Track
	Err     error
	Queries []string
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, page, limit int) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}

	start := (page - 1) * limit
	if start >= len(m.Tracks) {
		return []models.Track{}, nil
	}
	end := min(start+limit, len(m.Tracks))
	return append([]models.Track(nil), m.Tracks[start:end]...), nil
}

func (m *MockCatalog) Trending(ctx context.Context) ([]models.Track, error) {
	return m.SearchTracks(ctx, "trending", 1, 20)
}

func (m *MockCatalog) NewReleases(ctx context.Context) ([]models.Track, error) {
	return m.SearchTracks(ctx, "new", 1, 20)
}

func (m *MockCatalog) Genre(ctx context.Context, genre string) ([]models.Track, error) {
	return m.SearchTracks(ctx, genre, 1, 20)
}

// MockLyrics returns Text for every track, or Err. A non-nil Gate blocks each call until it is closed.
type MockLyrics struct {
	Text  string
	Err   error
	Gate  chan struct{}
	Calls int
	mu    sync.Mutex
}

func (m *MockLyrics) GetLyrics(ctx context.Context, trackID string) (string, error) {
	m.mu.Lock()
	m.Calls++
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Text == "" {
		return "", shared.ErrLyricsUnavailable
	}
	return m.Text, nil
}

// MockStreamer serves Data for any url, or Err.
type MockStreamer struct {
	Data []byte
	Err  error
	URLs []string
	mu   sync.Mutex
}

func (m *MockStreamer) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.URLs = append(m.URLs, url)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Data, nil
}

// SampleTracks builds n tracks with ids "t1".."tn".
func SampleTracks(n int) []models.Track {
	tracks := make([]models.Track, 0, n)
	for i := 1; i <= n; i++ {
		id := "t" + strconv.Itoa(i)
		tracks = append(tracks, models.Track{
			ID:          id,
			Name:        "Song " + id,
			ArtistName:  "Artist " + id,
			ImageURL:    "https://img.example.com/" + id + ".jpg",
			DownloadURL: "https://cdn.example.com/" + id + ".mp4",
			Year:        "2024",
		})
	}
	return tracks
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
