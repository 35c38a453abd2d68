// package recent keeps the bounded "recently played" lists shown on the home and search views
//
// Each view owns one most-recent-first list of at most [Capacity] entries, persisted as a JSON
// array in a key-value store. Recording a track removes any earlier entry with the same id,
// prepends the new one and truncates.
package recent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/repositories"
	"github.com/desertthunder/spin/internal/shared"
)

// Capacity is the maximum number of entries kept per view.
const Capacity = 10

// View names a recently played list.
type View string

const (
	Home   View = "home"
	Search View = "search"
)

var keys = map[View]string{
	Home:   "homeRecentlyPlayed",
	Search: "searchRecentlyPlayed",
}

// ParseView converts user input into a [View].
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := keys[v]; !ok {
		return "", fmt.Errorf("%w: unknown view %q (want home or search)", shared.ErrInvalidArgument, s)
	}
	return v, nil
}

// Key returns the store key for v.
func (v View) Key() string { return keys[v] }

// Cache reads and writes recently played lists.
type Cache struct {
	mu     sync.Mutex
	store  repositories.KVStore
	logger *log.Logger
}

// New creates a Cache over store.
func New(store repositories.KVStore, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{store: store, logger: shared.WithLogger(logger, "component", "recent")}
}

// List returns the entries for view, most recent first.
func (c *Cache) List(ctx context.Context, view View) ([]models.RecentEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx, view)
}

// Record moves entry to the head of view's list and persists it.
func (c *Cache) Record(ctx context.Context, view View, entry models.RecentEntry) ([]models.RecentEntry, error) {
	if entry.ID == "" {
		return nil, fmt.Errorf("%w: entry id is required", shared.ErrInvalidArgument)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.load(ctx, view)
	if err != nil {
		return nil, err
	}

	updated := append([]models.RecentEntry{entry}, withoutID(existing, entry.ID)...)
	if len(updated) > Capacity {
		updated = updated[:Capacity]
	}

	if err := c.save(ctx, view, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// RecordFromSearch records a play started from the search view.
//
// The entry lands in the search list and is cross-posted to the home list.
// Plays started from home never reach the search list.
func (c *Cache) RecordFromSearch(ctx context.Context, entry models.RecentEntry) error {
	if _, err := c.Record(ctx, Search, entry); err != nil {
		return err
	}
	if _, err := c.Record(ctx, Home, entry); err != nil {
		return err
	}
	return nil
}

// Remove deletes the entry with id from view and returns the updated list.
func (c *Cache) Remove(ctx context.Context, view View, id string) ([]models.RecentEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.load(ctx, view)
	if err != nil {
		return nil, err
	}

	updated := withoutID(existing, id)
	if err := c.save(ctx, view, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func withoutID(entries []models.RecentEntry, id string) []models.RecentEntry {
	return lo.Filter(entries, func(e models.RecentEntry, _ int) bool {
		return e.ID != id
	})
}

// load reads view's list. Unreadable JSON is logged and treated as empty.
func (c *Cache) load(ctx context.Context, view View) ([]models.RecentEntry, error) {
	key, ok := keys[view]
	if !ok {
		return nil, fmt.Errorf("%w: unknown view %q", shared.ErrInvalidArgument, view)
	}

	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found || raw == "" {
		return []models.RecentEntry{}, nil
	}

	var entries []models.RecentEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		c.logger.Warn("discarding unreadable recently played list", "key", key, "error", err)
		return []models.RecentEntry{}, nil
	}
	if entries == nil {
		entries = []models.RecentEntry{}
	}
	return entries, nil
}

func (c *Cache) save(ctx context.Context, view View, entries []models.RecentEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode recently played list: %w", err)
	}
	if err := c.store.Set(ctx, keys[view], string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", keys[view], err)
	}
	return nil
}
