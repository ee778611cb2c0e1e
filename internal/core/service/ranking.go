package service

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/starburger/dispatch-system/internal/core/domain"
)

// Rank orders the eligible restaurants by great-circle distance to the
// delivery coordinate, ascending. Candidates whose distance cannot be computed
// (unresolved restaurant coordinate, or an unresolved order coordinate, which
// makes every distance unknown) keep their eligible-set insertion order and
// sort after all candidates with a known distance. The sort is stable, so
// equal distances also keep insertion order.
func Rank(orderCoord *domain.Coordinate, eligible []domain.RestaurantID, coords map[domain.RestaurantID]*domain.Coordinate) []domain.RankedCandidate {
	candidates := make([]domain.RankedCandidate, 0, len(eligible))
	for _, id := range eligible {
		candidate := domain.RankedCandidate{RestaurantID: id}
		if orderCoord != nil {
			if restCoord := coords[id]; restCoord != nil {
				km := domain.RoundDistanceKm(distanceKm(*orderCoord, *restCoord))
				candidate.DistanceKm = &km
			}
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].DistanceKm, candidates[j].DistanceKm
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})

	return candidates
}

// distanceKm computes the haversine distance between two coordinates in km.
func distanceKm(from, to domain.Coordinate) float64 {
	a := orb.Point{from.Lng, from.Lat}
	b := orb.Point{to.Lng, to.Lat}
	return geo.DistanceHaversine(a, b) / 1000.0
}
