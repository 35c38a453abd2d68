package models

// UnknownArtist is shown when the catalog returns no primary artist.
const UnknownArtist = "Unknown Artist"

// Track is the canonical track value used throughout the application.
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ArtistName  string `json:"artistName"`
	AlbumID     string `json:"albumId,omitempty"`
	ImageURL    string `json:"imageUrl"`
	DownloadURL string `json:"downloadUrl"`
	Year        string `json:"year,omitempty"`
	Duration    int    `json:"duration,omitempty"` // seconds
	Language    string `json:"language,omitempty"`
	Label       string `json:"label,omitempty"`
	HasLyrics   bool   `json:"hasLyrics,omitempty"`
	PlayCount   int    `json:"playCount,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Playable reports whether the track has a stream to play.
func (t Track) Playable() bool {
	return t.DownloadURL != ""
}

// Active converts the track into the player's [ActiveTrack].
func (t Track) Active() *ActiveTrack {
	return &ActiveTrack{
		StreamURL:  t.DownloadURL,
		TrackID:    t.ID,
		Title:      t.Name,
		ArtistName: t.ArtistName,
		ArtworkURL: t.ImageURL,
	}
}

// Recent converts the track into a [RecentEntry].
func (t Track) Recent() RecentEntry {
	return RecentEntry{
		ID:          t.ID,
		Name:        t.Name,
		ArtistName:  t.ArtistName,
		ImageURL:    t.ImageURL,
		DownloadURL: t.DownloadURL,
		Year:        t.Year,
	}
}

// ActiveTrack is the single track currently loaded into the player.
//
// An empty StreamURL means no track is active.
type ActiveTrack struct {
	StreamURL  string `json:"streamUrl"`
	TrackID    string `json:"trackId"`
	Title      string `json:"title"`
	ArtistName string `json:"artistName"`
	ArtworkURL string `json:"artworkUrl"`
}

// RecentEntry is one item of a recently played list. Field names match the persisted JSON.
type RecentEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ArtistName  string `json:"artistName"`
	ImageURL    string `json:"imageUrl"`
	DownloadURL string `json:"downloadUrl"`
	Year        string `json:"year,omitempty"`
}

// Track converts the entry back into a [Track].
func (e RecentEntry) Track() Track {
	return Track{
		ID:          e.ID,
		Name:        e.Name,
		ArtistName:  e.ArtistName,
		ImageURL:    e.ImageURL,
		DownloadURL: e.DownloadURL,
		Year:        e.Year,
	}
}
