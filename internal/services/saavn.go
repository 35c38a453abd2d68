package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/shared"
)

var (
	_ Catalog        = (*SaavnService)(nil)
	_ LyricsProvider = (*SaavnService)(nil)
)

const (
	trendingQuery    = "english trending songs"
	newReleasesQuery = "english new songs 2024"
)

// SaavnService talks to a JioSaavn-compatible search API.
type SaavnService struct {
	baseURL    string
	lyricsURL  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// SaavnOptions configures [NewSaavnService].
type SaavnOptions struct {
	BaseURL   string
	LyricsURL string
	RateLimit float64 // requests per second; zero disables limiting
	Client    *http.Client
	Logger    *log.Logger
}

// NewSaavnService creates a catalog client. An empty LyricsURL falls back to BaseURL + "/api".
func NewSaavnService(opts SaavnOptions) *SaavnService {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://saavn.dev"
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.LyricsURL == "" {
		opts.LyricsURL = opts.BaseURL + "/api"
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &SaavnService{
		baseURL:    opts.BaseURL,
		lyricsURL:  strings.TrimRight(opts.LyricsURL, "/"),
		httpClient: opts.Client,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     opts.Logger,
	}
}

// NewSaavnServiceFromConfig builds a catalog client from the [catalog] config section.
func NewSaavnServiceFromConfig(cfg shared.CatalogConfig, logger *log.Logger) *SaavnService {
	client := &http.Client{}
	if cfg.TimeoutSeconds > 0 {
		client.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return NewSaavnService(SaavnOptions{
		BaseURL:   cfg.BaseURL,
		LyricsURL: cfg.LyricsURL,
		RateLimit: cfg.RateLimit,
		Client:    client,
		Logger:    logger,
	})
}

type saavnLink struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type saavnSong struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Year      string      `json:"year"`
	Duration  *int        `json:"duration"`
	Language  string      `json:"language"`
	Label     string      `json:"label"`
	HasLyrics bool        `json:"hasLyrics"`
	PlayCount *int        `json:"playCount"`
	URL       string      `json:"url"`
	Album     saavnAlbum  `json:"album"`
	Artists   saavnCredit `json:"artists"`
	Image     []saavnLink `json:"image"`
	Download  []saavnLink `json:"downloadUrl"`
}

type saavnAlbum struct {
	ID string `json:"id"`
}

type saavnCredit struct {
	Primary []struct {
		Name string `json:"name"`
	} `json:"primary"`
}

type saavnSearchResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Total   int         `json:"total"`
		Results []saavnSong `json:"results"`
	} `json:"data"`
}

type saavnLyricsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Lyrics string `json:"lyrics"`
	} `json:"data"`
}

// lastURL returns the highest quality link, which the API lists last.
func lastURL(links []saavnLink) string {
	if len(links) == 0 {
		return ""
	}
	return links[len(links)-1].URL
}

// Track converts a search result into the canonical track shape.
func (s saavnSong) Track() models.Track {
	artist := models.UnknownArtist
	if len(s.Artists.Primary) > 0 && s.Artists.Primary[0].Name != "" {
		artist = s.Artists.Primary[0].Name
	}

	t := models.Track{
		ID:          s.ID,
		Name:        s.Name,
		ArtistName:  artist,
		AlbumID:     s.Album.ID,
		ImageURL:    lastURL(s.Image),
		DownloadURL: lastURL(s.Download),
		Year:        s.Year,
		Language:    s.Language,
		Label:       s.Label,
		HasLyrics:   s.HasLyrics,
		URL:         s.URL,
	}
	if s.Duration != nil {
		t.Duration = *s.Duration
	}
	if s.PlayCount != nil {
		t.PlayCount = *s.PlayCount
	}
	return t
}

// getJSON performs a rate limited GET and decodes the body into result.
// The status code is returned alongside decode errors so callers can distinguish API failures.
func (s *SaavnService) getJSON(ctx context.Context, fullURL string, result any) (int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// SearchTracks returns one page of search results.
//
// A response with success=false yields an empty page rather than an error.
func (s *SaavnService) SearchTracks(ctx context.Context, query string, page, limit int) ([]models.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", shared.ErrInvalidArgument)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var body saavnSearchResponse
	if _, err := s.getJSON(ctx, s.baseURL+"/api/search/songs?"+params.Encode(), &body); err != nil {
		return nil, err
	}

	if !body.Success {
		s.logger.Warn("search unsuccessful", "query", query, "page", page)
		return []models.Track{}, nil
	}

	tracks := make([]models.Track, 0, len(body.Data.Results))
	for _, song := range body.Data.Results {
		tracks = append(tracks, song.Track())
	}

	s.logger.Debug("search complete", "query", query, "page", page, "results", len(tracks))
	return tracks, nil
}

func (s *SaavnService) Trending(ctx context.Context) ([]models.Track, error) {
	return s.SearchTracks(ctx, trendingQuery, 1, DefaultPageSize)
}

func (s *SaavnService) NewReleases(ctx context.Context) ([]models.Track, error) {
	return s.SearchTracks(ctx, newReleasesQuery, 1, DefaultPageSize)
}

// Genre returns the "english <genre> songs" shelf.
func (s *SaavnService) Genre(ctx context.Context, genre string) ([]models.Track, error) {
	genre = strings.ToLower(strings.TrimSpace(genre))
	if !slices.Contains(Genres, genre) {
		return nil, fmt.Errorf("%w: unknown genre %q", shared.ErrInvalidArgument, genre)
	}
	return s.SearchTracks(ctx, "english "+genre+" songs", 1, DefaultPageSize)
}

// GetLyrics returns the raw lyrics text for trackID.
//
// Any answer from the API other than non-empty lyrics wraps [shared.ErrLyricsUnavailable].
// Failures to reach the API are returned as they are.
func (s *SaavnService) GetLyrics(ctx context.Context, trackID string) (string, error) {
	if trackID == "" {
		return "", fmt.Errorf("%w: track id not available", shared.ErrLyricsUnavailable)
	}

	var body saavnLyricsResponse
	status, err := s.getJSON(ctx, s.lyricsURL+"/songs/"+url.PathEscape(trackID)+"/lyrics", &body)
	if err != nil {
		s.logger.Warn("lyrics request failed", "track", trackID, "status", status, "error", err)
		if status == 0 {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", shared.ErrLyricsUnavailable, err)
	}

	if body.Data.Lyrics == "" {
		return "", fmt.Errorf("%w: empty response for %s", shared.ErrLyricsUnavailable, trackID)
	}
	return body.Data.Lyrics, nil
}
