package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/starburger/dispatch-system/internal/core/domain"
	"github.com/starburger/dispatch-system/internal/core/ports"
	"github.com/starburger/dispatch-system/internal/pkg/metrics"
)

const warmupTimeout = 10 * time.Second

// OrderService registers orders and moves them along the fulfillment pipeline.
type OrderService struct {
	orders  ports.OrderRepository
	catalog ports.CatalogRepository
	locator ports.AddressLocator
	log     zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	catalog ports.CatalogRepository,
	locator ports.AddressLocator,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{orders: orders, catalog: catalog, locator: locator, log: log}
}

// CreateOrder registers a new order in accepted status. Product references are
// checked against the catalog and current prices are snapshotted into the
// lines. The delivery address is pushed into the location cache in the
// background so the next dispatch pass finds it already resolved.
func (s *OrderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.OrderResult, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	prices := make(map[domain.ProductID]float64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}

	lines := make([]domain.OrderLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		productID := domain.ProductID(line.ProductID)
		price, ok := prices[productID]
		if !ok {
			return nil, fmt.Errorf("create order: %w: %d", domain.ErrProductNotFound, line.ProductID)
		}
		lines = append(lines, domain.OrderLine{
			ProductID: productID,
			Quantity:  line.Quantity,
			Price:     price,
		})
	}

	order := &domain.Order{
		Number:      generateOrderNumber(),
		Firstname:   input.Firstname,
		Lastname:    input.Lastname,
		Phonenumber: input.Phonenumber,
		Address:     input.Address,
		Status:      domain.StatusAccepted,
		Lines:       lines,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.log.Error().Err(err).Msg("failed to create order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	metrics.OrdersCreatedTotal.Inc()
	s.log.Info().Str("number", order.Number).Int("lines", len(lines)).Msg("order created")

	go s.warmLocationCache(order.Address)

	return &ports.OrderResult{
		Number:    order.Number,
		Status:    string(order.Status),
		TotalCost: order.TotalCost(),
		CreatedAt: order.CreatedAt,
	}, nil
}

// warmLocationCache resolves the delivery address outside the request so the
// intake latency never depends on the geocoding provider.
func (s *OrderService) warmLocationCache(address string) {
	ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
	defer cancel()
	s.locator.Resolve(ctx, address)
}

// AssignRestaurant hands the order to a restaurant and moves it into assembly.
// The restaurant must belong to the order's current eligible set, computed
// against the live availability matrix.
func (s *OrderService) AssignRestaurant(ctx context.Context, number string, restaurantID int64) error {
	order, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return fmt.Errorf("assign restaurant: %w", err)
	}
	if !order.Status.CanTransitionTo(domain.StatusAssembly) {
		return fmt.Errorf("assign restaurant: %w (from %s)", domain.ErrInvalidTransition, order.Status)
	}

	availability, err := s.catalog.ListMenuAvailability(ctx)
	if err != nil {
		return fmt.Errorf("assign restaurant: %w", err)
	}
	index, err := BuildMenuIndex(availability)
	if err != nil {
		return fmt.Errorf("assign restaurant: %w", err)
	}

	target := domain.RestaurantID(restaurantID)
	eligible := false
	for _, id := range EligibleRestaurants(order, index) {
		if id == target {
			eligible = true
			break
		}
	}
	if !eligible {
		return fmt.Errorf("assign restaurant: %w: restaurant %d, order %s",
			domain.ErrRestaurantNotEligible, restaurantID, number)
	}

	if err := s.orders.AssignRestaurant(ctx, number, target, time.Now().UTC()); err != nil {
		return fmt.Errorf("assign restaurant: %w", err)
	}

	s.log.Info().Str("number", number).Int64("restaurant_id", restaurantID).Msg("order assigned")
	return nil
}

// AdvanceStatus moves the order to the given pipeline status, enforcing the
// state machine.
func (s *OrderService) AdvanceStatus(ctx context.Context, number string, status string) error {
	order, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return fmt.Errorf("advance status: %w", err)
	}

	next := domain.OrderStatus(status)
	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("advance status: %w (from %s to %s)", domain.ErrInvalidTransition, order.Status, next)
	}

	if err := s.orders.UpdateStatus(ctx, number, next, time.Now().UTC()); err != nil {
		return fmt.Errorf("advance status: %w", err)
	}

	s.log.Info().Str("number", number).Str("status", status).Msg("order status advanced")
	return nil
}

// generateOrderNumber returns a unique order number in the format FD-XXXXXXXX.
func generateOrderNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("FD-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("FD-%08X", b)
}
