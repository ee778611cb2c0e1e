package service

import (
	"fmt"

	"github.com/starburger/dispatch-system/internal/core/domain"
)

// MenuIndex answers "which restaurants carry product P" for one catalog
// snapshot. It is built once per dispatch pass, never mutated afterwards.
type MenuIndex struct {
	byProduct map[domain.ProductID][]domain.RestaurantID
}

type menuPair struct {
	restaurant domain.RestaurantID
	product    domain.ProductID
}

// BuildMenuIndex indexes the availability matrix. Only records with
// Available=true are indexed, but the at-most-one-record-per-pair invariant is
// enforced over the whole matrix: a corrupted snapshot cannot produce a
// trustworthy answer for any order, so duplicates fail construction.
func BuildMenuIndex(records []domain.MenuAvailability) (*MenuIndex, error) {
	seen := make(map[menuPair]struct{}, len(records))
	byProduct := make(map[domain.ProductID][]domain.RestaurantID)

	for _, rec := range records {
		pair := menuPair{restaurant: rec.RestaurantID, product: rec.ProductID}
		if _, dup := seen[pair]; dup {
			return nil, fmt.Errorf("%w: restaurant %d, product %d",
				domain.ErrDuplicateMenuRecord, rec.RestaurantID, rec.ProductID)
		}
		seen[pair] = struct{}{}

		if rec.Available {
			byProduct[rec.ProductID] = append(byProduct[rec.ProductID], rec.RestaurantID)
		}
	}

	return &MenuIndex{byProduct: byProduct}, nil
}

// RestaurantsFor returns the restaurants carrying the product, in the order
// their records appeared in the snapshot. The returned slice is shared; callers
// must not mutate it.
func (ix *MenuIndex) RestaurantsFor(productID domain.ProductID) []domain.RestaurantID {
	return ix.byProduct[productID]
}

// Products returns the number of distinct products with at least one carrying
// restaurant.
func (ix *MenuIndex) Products() int {
	return len(ix.byProduct)
}
