package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/starburger/dispatch-system/internal/core/domain"
	"github.com/starburger/dispatch-system/internal/core/ports"
	"github.com/starburger/dispatch-system/internal/pkg/metrics"
)

const defaultGeocodeConcurrency = 4

// DispatchService runs batch eligibility and ranking passes over open orders.
// One pass builds the menu index once and shares a single locator, so each
// distinct address is resolved at most once per run no matter how many orders
// reference it.
type DispatchService struct {
	orders      ports.OrderRepository
	catalog     ports.CatalogRepository
	locator     ports.AddressLocator
	concurrency int
	log         zerolog.Logger
}

// NewDispatchService creates a DispatchService. concurrency bounds the number
// of simultaneous geocoding lookups per batch; values <= 0 fall back to a
// conservative default.
func NewDispatchService(
	orders ports.OrderRepository,
	catalog ports.CatalogRepository,
	locator ports.AddressLocator,
	concurrency int,
	log zerolog.Logger,
) *DispatchService {
	if concurrency <= 0 {
		concurrency = defaultGeocodeConcurrency
	}
	return &DispatchService{
		orders:      orders,
		catalog:     catalog,
		locator:     locator,
		concurrency: concurrency,
		log:         log,
	}
}

// Process annotates every order in the batch with its eligible restaurants and
// distance-ranked candidates. The availability snapshot and restaurant
// addresses are read-only inputs; orders are never mutated. Only a corrupted
// availability snapshot fails the batch; every per-order problem (empty
// order, unknown product, unresolved address) degrades to an empty set or an
// absent distance for that order alone.
func (s *DispatchService) Process(
	ctx context.Context,
	orders []*domain.Order,
	availability []domain.MenuAvailability,
	restaurantAddresses map[domain.RestaurantID]string,
) (map[string]ports.OrderAnnotation, error) {
	index, err := BuildMenuIndex(availability)
	if err != nil {
		return nil, fmt.Errorf("process batch: %w", err)
	}

	eligible := make(map[string][]domain.RestaurantID, len(orders))
	for _, order := range orders {
		eligible[order.Number] = EligibleRestaurants(order, index)
	}

	coords := s.resolveAddresses(ctx, orders, eligible, restaurantAddresses)

	result := make(map[string]ports.OrderAnnotation, len(orders))
	for _, order := range orders {
		restaurantCoords := make(map[domain.RestaurantID]*domain.Coordinate, len(eligible[order.Number]))
		for _, id := range eligible[order.Number] {
			restaurantCoords[id] = coords[restaurantAddresses[id]]
		}
		result[order.Number] = ports.OrderAnnotation{
			Eligible: eligible[order.Number],
			Ranked:   Rank(coords[order.Address], eligible[order.Number], restaurantCoords),
		}
	}

	return result, nil
}

// resolveAddresses prefetches every address the batch needs (delivery
// addresses plus the addresses of all eligible restaurants) with bounded
// concurrency. The locator coalesces duplicate in-flight lookups, so this is
// where a batch amortizes geocoding across orders.
func (s *DispatchService) resolveAddresses(
	ctx context.Context,
	orders []*domain.Order,
	eligible map[string][]domain.RestaurantID,
	restaurantAddresses map[domain.RestaurantID]string,
) map[string]*domain.Coordinate {
	needed := make(map[string]struct{})
	for _, order := range orders {
		if order.Address != "" {
			needed[order.Address] = struct{}{}
		}
		for _, id := range eligible[order.Number] {
			if addr := restaurantAddresses[id]; addr != "" {
				needed[addr] = struct{}{}
			}
		}
	}

	coords := make(map[string]*domain.Coordinate, len(needed))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for address := range needed {
		address := address
		g.Go(func() error {
			coord := s.locator.Resolve(gctx, address)
			mu.Lock()
			coords[address] = coord
			mu.Unlock()
			return nil
		})
	}
	// Resolve never returns an error; Wait only observes ctx cancellation,
	// which leaves the affected addresses unresolved.
	_ = g.Wait()

	return coords
}

// RankOpenOrders implements ports.DispatchService: it loads the current
// catalog snapshot and all non-terminal orders, runs Process, and enriches the
// result for display.
func (s *DispatchService) RankOpenOrders(ctx context.Context) (*ports.DispatchSnapshot, error) {
	started := time.Now()

	orders, err := s.orders.ListOpen(ctx)
	if err != nil {
		metrics.BatchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rank open orders: %w", err)
	}
	availability, err := s.catalog.ListMenuAvailability(ctx)
	if err != nil {
		metrics.BatchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rank open orders: %w", err)
	}
	restaurants, err := s.catalog.ListRestaurants(ctx)
	if err != nil {
		metrics.BatchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rank open orders: %w", err)
	}

	addresses := make(map[domain.RestaurantID]string, len(restaurants))
	names := make(map[domain.RestaurantID]string, len(restaurants))
	for _, r := range restaurants {
		addresses[r.ID] = r.Address
		names[r.ID] = r.Name
	}

	annotations, err := s.Process(ctx, orders, availability, addresses)
	if err != nil {
		metrics.BatchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	snapshot := &ports.DispatchSnapshot{
		Orders:      make([]ports.RankedOrder, 0, len(orders)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, order := range orders {
		annotation := annotations[order.Number]
		ranked := ports.RankedOrder{
			Number:      order.Number,
			Firstname:   order.Firstname,
			Lastname:    order.Lastname,
			Phonenumber: order.Phonenumber,
			Address:     order.Address,
			Status:      string(order.Status),
			TotalCost:   order.TotalCost(),
			CreatedAt:   order.CreatedAt,
			Eligible:    make([]int64, 0, len(annotation.Eligible)),
			Candidates:  make([]ports.RankedCandidateView, 0, len(annotation.Ranked)),
		}
		for _, id := range annotation.Eligible {
			ranked.Eligible = append(ranked.Eligible, int64(id))
		}
		for _, candidate := range annotation.Ranked {
			ranked.Candidates = append(ranked.Candidates, ports.RankedCandidateView{
				RestaurantID: int64(candidate.RestaurantID),
				Name:         names[candidate.RestaurantID],
				DistanceKm:   candidate.DistanceKm,
			})
		}
		snapshot.Orders = append(snapshot.Orders, ranked)
	}

	metrics.BatchesTotal.WithLabelValues("ok").Inc()
	metrics.BatchDuration.Observe(time.Since(started).Seconds())
	metrics.OrdersRankedTotal.Add(float64(len(orders)))

	s.log.Info().
		Int("orders", len(orders)).
		Int("availability_records", len(availability)).
		Dur("took", time.Since(started)).
		Msg("batch ranking pass completed")

	return snapshot, nil
}
