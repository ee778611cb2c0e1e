package service

import "github.com/starburger/dispatch-system/internal/core/domain"

// EligibleRestaurants computes the set of restaurants that carry every
// distinct product in the order: the intersection of the carrying sets of all
// its products. The result preserves the insertion order of the first
// product's carrying set, so for a fixed snapshot the output sequence is
// deterministic. An order with no lines, or referencing any product nobody
// carries, yields an empty set.
func EligibleRestaurants(order *domain.Order, index *MenuIndex) []domain.RestaurantID {
	products := order.ProductIDs()
	if len(products) == 0 {
		return nil
	}

	candidates := index.RestaurantsFor(products[0])
	if len(candidates) == 0 {
		return nil
	}
	// Copy before narrowing: RestaurantsFor returns shared slices.
	eligible := make([]domain.RestaurantID, len(candidates))
	copy(eligible, candidates)

	for _, productID := range products[1:] {
		carrying := index.RestaurantsFor(productID)
		if len(carrying) == 0 {
			return nil
		}
		eligible = intersect(eligible, carrying)
		if len(eligible) == 0 {
			return nil
		}
	}

	return eligible
}

// intersect narrows current to the members also present in other, keeping
// current's order.
func intersect(current []domain.RestaurantID, other []domain.RestaurantID) []domain.RestaurantID {
	otherSet := make(map[domain.RestaurantID]struct{}, len(other))
	for _, id := range other {
		otherSet[id] = struct{}{}
	}

	kept := current[:0]
	for _, id := range current {
		if _, ok := otherSet[id]; ok {
			kept = append(kept, id)
		}
	}
	return kept
}
