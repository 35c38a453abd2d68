package services

import (
	"context"

	"github.com/desertthunder/spin/internal/models"
)

// Paginator walks search result pages for a single query.
//
// A page shorter than the page size marks the end of results.
type Paginator struct {
	catalog Catalog
	query   string
	limit   int
	page    int
	hasMore bool
	tracks  []models.Track
}

// NewPaginator starts a paginator for query; nothing is fetched until [Paginator.Next].
func NewPaginator(catalog Catalog, query string, limit int) *Paginator {
	if limit < 1 {
		limit = DefaultPageSize
	}
	return &Paginator{catalog: catalog, query: query, limit: limit, hasMore: true}
}

// Next fetches the following page and appends it to the accumulated results.
// Calling Next after the last page is a no-op.
func (p *Paginator) Next(ctx context.Context) ([]models.Track, error) {
	if !p.hasMore {
		return nil, nil
	}

	tracks, err := p.catalog.SearchTracks(ctx, p.query, p.page+1, p.limit)
	if err != nil {
		return nil, err
	}

	p.page++
	p.hasMore = len(tracks) == p.limit
	p.tracks = append(p.tracks, tracks...)
	return tracks, nil
}

func (p *Paginator) HasMore() bool { return p.hasMore }
func (p *Paginator) Page() int { return p.page }
func (p *Paginator) Query() string { return p.query }
func (p *Paginator) Tracks() []models.Track { return p.tracks }
