package ports

import (
	"context"
	"time"

	"github.com/starburger/dispatch-system/internal/core/domain"
)

// RankedCandidateView is one (restaurant, distance) pair in a dispatch view,
// enriched with the restaurant name for display.
type RankedCandidateView struct {
	RestaurantID int64
	Name         string
	DistanceKm   *float64
}

// RankedOrder is a single order annotated with its eligible restaurants and
// distance-ranked candidates.
type RankedOrder struct {
	Number      string
	Firstname   string
	Lastname    string
	Phonenumber string
	Address     string
	Status      string
	TotalCost   float64
	CreatedAt   time.Time
	Eligible    []int64
	Candidates  []RankedCandidateView
}

// DispatchSnapshot is the result of one batch ranking pass over all open orders.
type DispatchSnapshot struct {
	Orders      []RankedOrder
	GeneratedAt time.Time
}

// OrderAnnotation is the core per-order output of a batch pass, before any
// display enrichment.
type OrderAnnotation struct {
	Eligible []domain.RestaurantID
	Ranked   []domain.RankedCandidate
}

// DispatchService runs batch eligibility and ranking passes.
type DispatchService interface {
	// RankOpenOrders loads the catalog snapshot and all non-terminal orders,
	// then annotates every order with eligible restaurants and ranked distances.
	RankOpenOrders(ctx context.Context) (*DispatchSnapshot, error)
}
