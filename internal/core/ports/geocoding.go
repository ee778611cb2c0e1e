package ports

import (
	"context"

	"github.com/starburger/dispatch-system/internal/core/domain"
)

// Geocoder wraps an external address-to-coordinate lookup. A nil Coordinate
// with a nil error means the provider answered but found no match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Coordinate, error)
}

// LocationCache is the persistent address store behind the Geocoder. Lookups
// are keyed by the exact address string; a nil entry means the address has
// never been seen. Put must replace the whole entry atomically so readers
// never observe a partially written coordinate.
type LocationCache interface {
	Get(ctx context.Context, address string) (*domain.LocationEntry, error)
	Put(ctx context.Context, entry *domain.LocationEntry) error
}

// AddressLocator resolves an address to a coordinate, or nil when resolution
// fails. Implementations funnel every lookup through the LocationCache so each
// distinct address hits the external provider at most once per cache lifetime.
// Failures are recovered as nil, never surfaced to the caller.
type AddressLocator interface {
	Resolve(ctx context.Context, address string) *domain.Coordinate
}
