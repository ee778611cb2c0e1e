package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/starburger/dispatch-system/internal/core/domain"
)

// LocationCache is the persistent address store, keyed by the exact address
// string (case- and whitespace-sensitive). Entries are never expired by this
// layer; lifecycle is an operational concern. Key format: location:<address>
type LocationCache struct {
	client *redis.Client
}

// NewLocationCache creates a LocationCache wrapping the given Redis client.
func NewLocationCache(client *redis.Client) *LocationCache {
	return &LocationCache{client: client}
}

// locationDocument is the stored JSON shape. Lat/Lng are absent for addresses
// that have been looked up but never resolved.
type locationDocument struct {
	Lat        *float64  `json:"lat,omitempty"`
	Lng        *float64  `json:"lng,omitempty"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Get returns the cached entry for the address, or nil when the address has
// never been seen.
func (c *LocationCache) Get(ctx context.Context, address string) (*domain.LocationEntry, error) {
	raw, err := c.client.Get(ctx, c.key(address)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("location cache get: %w", err)
	}

	var doc locationDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("location cache get: decode %q: %w", address, err)
	}

	entry := &domain.LocationEntry{Address: address, ResolvedAt: doc.ResolvedAt}
	if doc.Lat != nil && doc.Lng != nil {
		coord := domain.NewCoordinate(*doc.Lat, *doc.Lng)
		entry.Coordinate = &coord
	}
	return entry, nil
}

// Put stores the entry, replacing any previous value. The whole document is
// written in a single SET, so an entry moves from "no coordinate" to "has
// coordinate" atomically and readers never see a partial write.
func (c *LocationCache) Put(ctx context.Context, entry *domain.LocationEntry) error {
	doc := locationDocument{ResolvedAt: entry.ResolvedAt}
	if entry.Coordinate != nil {
		doc.Lat = &entry.Coordinate.Lat
		doc.Lng = &entry.Coordinate.Lng
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("location cache put: %w", err)
	}

	if err := c.client.Set(ctx, c.key(entry.Address), raw, 0).Err(); err != nil {
		return fmt.Errorf("location cache put: %w", err)
	}
	return nil
}

func (c *LocationCache) key(address string) string {
	return "location:" + address
}
