package ports

import (
	"context"

	"github.com/starburger/dispatch-system/internal/core/domain"
)

// CatalogRepository supplies the read-only catalog snapshot a dispatch pass
// works from: restaurants (with their addresses), products, and the
// availability matrix.
type CatalogRepository interface {
	ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	// ListMenuAvailability returns the full matrix in a deterministic order
	// (restaurant, then product), which fixes the insertion order of every
	// derived eligible set.
	ListMenuAvailability(ctx context.Context) ([]domain.MenuAvailability, error)
}
