package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/starburger/dispatch-system/internal/core/domain"
)

// stubOrderRepo is an in-memory ports.OrderRepository shared across the
// service tests.
type stubOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	seq    []string

	listErr   error
	createErr error
}

func newStubOrderRepo(orders ...*domain.Order) *stubOrderRepo {
	repo := &stubOrderRepo{orders: make(map[string]*domain.Order)}
	for _, o := range orders {
		repo.orders[o.Number] = o
		repo.seq = append(repo.seq, o.Number)
	}
	return repo
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.orders[o.Number] = o
	r.seq = append(r.seq, o.Number)
	return nil
}

func (r *stubOrderRepo) FindByNumber(_ context.Context, number string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[number]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) ListOpen(_ context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	open := make([]*domain.Order, 0, len(r.seq))
	for _, number := range r.seq {
		if o := r.orders[number]; !o.Status.IsTerminal() {
			open = append(open, o)
		}
	}
	return open, nil
}

func (r *stubOrderRepo) AssignRestaurant(_ context.Context, number string, restaurantID domain.RestaurantID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[number]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.RestaurantID = &restaurantID
	o.Status = domain.StatusAssembly
	o.AssemblyStartedAt = &at
	return nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, number string, status domain.OrderStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[number]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

// stubCatalogRepo serves fixed catalog snapshots.
type stubCatalogRepo struct {
	restaurants  []*domain.Restaurant
	products     []*domain.Product
	availability []domain.MenuAvailability

	availabilityErr error
}

func (r *stubCatalogRepo) ListRestaurants(_ context.Context) ([]*domain.Restaurant, error) {
	return r.restaurants, nil
}

func (r *stubCatalogRepo) ListProducts(_ context.Context) ([]*domain.Product, error) {
	return r.products, nil
}

func (r *stubCatalogRepo) ListMenuAvailability(_ context.Context) ([]domain.MenuAvailability, error) {
	if r.availabilityErr != nil {
		return nil, r.availabilityErr
	}
	return r.availability, nil
}

// stubAddressLocator resolves from a fixed table, counting lookups per address.
type stubAddressLocator struct {
	mu     sync.Mutex
	coords map[string]*domain.Coordinate
	calls  map[string]int
}

func newStubAddressLocator(coords map[string]*domain.Coordinate) *stubAddressLocator {
	return &stubAddressLocator{coords: coords, calls: make(map[string]int)}
}

func (l *stubAddressLocator) Resolve(_ context.Context, address string) *domain.Coordinate {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[address]++
	return l.coords[address]
}

func (l *stubAddressLocator) callsFor(address string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[address]
}

func deliveryOrder(number, address string, products ...int64) *domain.Order {
	o := orderWithProducts(products...)
	o.Number = number
	o.Address = address
	o.CreatedAt = time.Now().UTC()
	return o
}

func TestDispatchService_Process_IntersectsAndRanks(t *testing.T) {
	// Restaurant 1 (X) and 2 (Y) carry product 10; 2 (Y) and 3 (Z) carry 11.
	records := []domain.MenuAvailability{
		availability(1, 10, true),
		availability(2, 10, true),
		availability(2, 11, true),
		availability(3, 11, true),
	}
	addresses := map[domain.RestaurantID]string{
		1: "addr-x", 2: "addr-y", 3: "addr-z",
	}
	locator := newStubAddressLocator(map[string]*domain.Coordinate{
		"delivery": coordPtr(55.75, 37.62),
		"addr-y":   coordPtr(55.76, 37.63),
	})
	svc := NewDispatchService(newStubOrderRepo(), &stubCatalogRepo{}, locator, 2, discardLogger())

	order := deliveryOrder("FD-00000001", "delivery", 10, 11)
	annotations, err := svc.Process(context.Background(), []*domain.Order{order}, records, addresses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	annotation := annotations["FD-00000001"]
	if len(annotation.Eligible) != 1 || annotation.Eligible[0] != 2 {
		t.Fatalf("expected eligible set [2], got %v", annotation.Eligible)
	}
	if len(annotation.Ranked) != 1 || annotation.Ranked[0].RestaurantID != 2 {
		t.Fatalf("expected ranked [2], got %v", annotation.Ranked)
	}
	if annotation.Ranked[0].DistanceKm == nil {
		t.Fatal("expected a resolved distance for restaurant 2")
	}
}

func TestDispatchService_Process_ResolvesEachAddressOnce(t *testing.T) {
	records := []domain.MenuAvailability{
		availability(1, 10, true),
	}
	addresses := map[domain.RestaurantID]string{1: "addr-x"}
	locator := newStubAddressLocator(map[string]*domain.Coordinate{
		"shared-delivery": coordPtr(55.75, 37.62),
		"addr-x":          coordPtr(55.70, 37.60),
	})
	svc := NewDispatchService(newStubOrderRepo(), &stubCatalogRepo{}, locator, 4, discardLogger())

	// Three orders to the same address, all eligible for restaurant 1.
	orders := []*domain.Order{
		deliveryOrder("FD-A", "shared-delivery", 10),
		deliveryOrder("FD-B", "shared-delivery", 10),
		deliveryOrder("FD-C", "shared-delivery", 10),
	}

	if _, err := svc.Process(context.Background(), orders, records, addresses); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := locator.callsFor("shared-delivery"); n != 1 {
		t.Errorf("expected 1 lookup for the shared delivery address, got %d", n)
	}
	if n := locator.callsFor("addr-x"); n != 1 {
		t.Errorf("expected 1 lookup for the restaurant address, got %d", n)
	}
}

func TestDispatchService_Process_CorruptAvailabilityFailsBatch(t *testing.T) {
	records := []domain.MenuAvailability{
		availability(1, 10, true),
		availability(1, 10, true),
	}
	svc := NewDispatchService(newStubOrderRepo(), &stubCatalogRepo{}, newStubAddressLocator(nil), 2, discardLogger())

	_, err := svc.Process(context.Background(),
		[]*domain.Order{deliveryOrder("FD-A", "delivery", 10)}, records, nil)
	if !errors.Is(err, domain.ErrDuplicateMenuRecord) {
		t.Fatalf("expected ErrDuplicateMenuRecord, got %v", err)
	}
}

func TestDispatchService_Process_UnresolvedAddressesDegradeToAbsentDistances(t *testing.T) {
	records := []domain.MenuAvailability{
		availability(1, 10, true),
		availability(2, 10, true),
	}
	addresses := map[domain.RestaurantID]string{1: "addr-x", 2: "addr-y"}
	// Nothing resolves.
	locator := newStubAddressLocator(nil)
	svc := NewDispatchService(newStubOrderRepo(), &stubCatalogRepo{}, locator, 2, discardLogger())

	annotations, err := svc.Process(context.Background(),
		[]*domain.Order{deliveryOrder("FD-A", "delivery", 10)}, records, addresses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ranked := annotations["FD-A"].Ranked
	if len(ranked) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ranked))
	}
	if ranked[0].RestaurantID != 1 || ranked[1].RestaurantID != 2 {
		t.Errorf("expected insertion order [1 2], got [%d %d]", ranked[0].RestaurantID, ranked[1].RestaurantID)
	}
	for _, c := range ranked {
		if c.DistanceKm != nil {
			t.Errorf("expected absent distance for restaurant %d, got %.2f", c.RestaurantID, *c.DistanceKm)
		}
	}
}

func TestDispatchService_RankOpenOrders_BuildsEnrichedSnapshot(t *testing.T) {
	orderRepo := newStubOrderRepo(
		deliveryOrder("FD-A", "delivery", 10),
		&domain.Order{Number: "FD-DONE", Status: domain.StatusCompleted, Address: "elsewhere"},
	)
	orderRepo.orders["FD-A"].Lines[0].Price = 12.5
	orderRepo.orders["FD-A"].Lines[0].Quantity = 2

	catalogRepo := &stubCatalogRepo{
		restaurants: []*domain.Restaurant{
			{ID: 1, Name: "North Star", Address: "addr-x"},
			{ID: 2, Name: "South Gate", Address: "addr-y"},
		},
		availability: []domain.MenuAvailability{
			availability(1, 10, true),
			availability(2, 10, true),
		},
	}
	locator := newStubAddressLocator(map[string]*domain.Coordinate{
		"delivery": coordPtr(55.75, 37.62),
		"addr-x":   coordPtr(55.90, 37.70), // farther
		"addr-y":   coordPtr(55.76, 37.63), // nearer
	})
	svc := NewDispatchService(orderRepo, catalogRepo, locator, 2, discardLogger())

	snapshot, err := svc.RankOpenOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snapshot.Orders) != 1 {
		t.Fatalf("expected 1 open order in snapshot, got %d", len(snapshot.Orders))
	}
	ranked := snapshot.Orders[0]
	if ranked.Number != "FD-A" {
		t.Errorf("expected FD-A, got %s", ranked.Number)
	}
	if ranked.TotalCost != 25.0 {
		t.Errorf("expected total cost 25.0, got %v", ranked.TotalCost)
	}
	if len(ranked.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ranked.Candidates))
	}
	if ranked.Candidates[0].RestaurantID != 2 || ranked.Candidates[0].Name != "South Gate" {
		t.Errorf("expected nearest candidate South Gate (2) first, got %+v", ranked.Candidates[0])
	}
	if ranked.Candidates[1].RestaurantID != 1 || ranked.Candidates[1].Name != "North Star" {
		t.Errorf("expected North Star (1) second, got %+v", ranked.Candidates[1])
	}
}

func TestDispatchService_RankOpenOrders_PropagatesLoadErrors(t *testing.T) {
	orderRepo := newStubOrderRepo()
	orderRepo.listErr = errors.New("mongo down")
	svc := NewDispatchService(orderRepo, &stubCatalogRepo{}, newStubAddressLocator(nil), 2, discardLogger())

	if _, err := svc.RankOpenOrders(context.Background()); err == nil {
		t.Fatal("expected error when order listing fails")
	}

	catalogRepo := &stubCatalogRepo{availabilityErr: errors.New("mongo down")}
	svc = NewDispatchService(newStubOrderRepo(), catalogRepo, newStubAddressLocator(nil), 2, discardLogger())

	if _, err := svc.RankOpenOrders(context.Background()); err == nil {
		t.Fatal("expected error when availability listing fails")
	}
}
