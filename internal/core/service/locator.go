package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/starburger/dispatch-system/internal/core/domain"
	"github.com/starburger/dispatch-system/internal/core/ports"
	"github.com/starburger/dispatch-system/internal/pkg/metrics"
)

// Locator implements ports.AddressLocator: cache-first address resolution with
// per-address coalescing of in-flight provider calls.
//
// Policy: a cached entry with a coordinate is returned without touching the
// provider. A missing entry, or an entry without a coordinate (an earlier
// failed resolution), triggers one provider call; success writes the
// coordinate back, failure writes (or refreshes) a coordinate-less entry so
// the address stays eligible for re-resolution later. Every failure mode
// degrades to a nil coordinate; a locator never fails its caller.
type Locator struct {
	cache    ports.LocationCache
	geocoder ports.Geocoder
	log      zerolog.Logger

	mu       sync.Mutex
	inflight map[string]*resolution
}

// resolution tracks one in-flight provider call so concurrent callers for the
// same address wait for it instead of issuing duplicates.
type resolution struct {
	done  chan struct{}
	coord *domain.Coordinate
}

// NewLocator creates a Locator over the given cache and geocoding provider.
func NewLocator(cache ports.LocationCache, geocoder ports.Geocoder, log zerolog.Logger) *Locator {
	return &Locator{
		cache:    cache,
		geocoder: geocoder,
		log:      log,
		inflight: make(map[string]*resolution),
	}
}

// Resolve returns the coordinate for the address, or nil when it cannot be
// resolved. Addresses are matched exactly; no normalization beyond what the
// caller stored.
func (l *Locator) Resolve(ctx context.Context, address string) *domain.Coordinate {
	entry, err := l.cache.Get(ctx, address)
	if err != nil {
		l.log.Warn().Err(err).Str("address", address).Msg("location cache read failed")
	}
	if entry != nil && entry.Coordinate != nil {
		metrics.GeocodeCacheTotal.WithLabelValues("hit").Inc()
		return entry.Coordinate
	}
	metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()

	l.mu.Lock()
	if r, ok := l.inflight[address]; ok {
		l.mu.Unlock()
		select {
		case <-r.done:
			return r.coord
		case <-ctx.Done():
			return nil
		}
	}
	r := &resolution{done: make(chan struct{})}
	l.inflight[address] = r
	l.mu.Unlock()

	r.coord = l.resolveUncached(ctx, address)

	l.mu.Lock()
	delete(l.inflight, address)
	l.mu.Unlock()
	close(r.done)

	return r.coord
}

// resolveUncached calls the provider and updates the cache. The returned
// coordinate is nil on provider error or when no match was found.
func (l *Locator) resolveUncached(ctx context.Context, address string) *domain.Coordinate {
	coord, err := l.geocoder.Geocode(ctx, address)
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		l.log.Warn().Err(err).Str("address", address).Msg("geocoding failed")
		coord = nil
	} else if coord == nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("no_result").Inc()
		l.log.Debug().Str("address", address).Msg("geocoder found no match")
	} else {
		metrics.GeocodeRequestsTotal.WithLabelValues("resolved").Inc()
	}

	entry := &domain.LocationEntry{
		Address:    address,
		Coordinate: coord,
		ResolvedAt: time.Now().UTC(),
	}
	if putErr := l.cache.Put(ctx, entry); putErr != nil {
		l.log.Warn().Err(putErr).Str("address", address).Msg("location cache write failed")
	}

	return coord
}
