package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starburger/dispatch-system/internal/core/domain"
	"github.com/starburger/dispatch-system/internal/core/ports"
)

func catalogWithProducts() *stubCatalogRepo {
	return &stubCatalogRepo{
		products: []*domain.Product{
			{ID: 10, Name: "Margherita", Price: 9.5},
			{ID: 11, Name: "Pepperoni", Price: 12.0},
		},
		availability: []domain.MenuAvailability{
			availability(1, 10, true),
			availability(2, 10, true),
			availability(2, 11, true),
		},
	}
}

func TestOrderService_CreateOrder_SnapshotsPricesAndAcceptsOrder(t *testing.T) {
	orderRepo := newStubOrderRepo()
	svc := NewOrderService(orderRepo, catalogWithProducts(), newStubAddressLocator(nil), discardLogger())

	result, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		Firstname:   "Ivan",
		Lastname:    "Petrov",
		Phonenumber: "+79161234567",
		Address:     "Moscow, Arbat 12",
		Lines: []ports.OrderLineInput{
			{ProductID: 10, Quantity: 2},
			{ProductID: 11, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(result.Number, "FD-") {
		t.Errorf("expected FD- prefix, got %s", result.Number)
	}
	if result.Status != string(domain.StatusAccepted) {
		t.Errorf("expected accepted status, got %s", result.Status)
	}
	if result.TotalCost != 2*9.5+12.0 {
		t.Errorf("expected total 31.0, got %v", result.TotalCost)
	}

	stored, err := orderRepo.FindByNumber(context.Background(), result.Number)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if stored.Lines[0].Price != 9.5 || stored.Lines[1].Price != 12.0 {
		t.Errorf("expected snapshotted prices, got %+v", stored.Lines)
	}
}

func TestOrderService_CreateOrder_UnknownProduct(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), catalogWithProducts(), newStubAddressLocator(nil), discardLogger())

	_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		Firstname:   "Ivan",
		Lastname:    "Petrov",
		Phonenumber: "+79161234567",
		Address:     "Moscow, Arbat 12",
		Lines:       []ports.OrderLineInput{{ProductID: 999, Quantity: 1}},
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestOrderService_AssignRestaurant_EligibleRestaurant(t *testing.T) {
	order := deliveryOrder("FD-A", "delivery", 10, 11)
	orderRepo := newStubOrderRepo(order)
	svc := NewOrderService(orderRepo, catalogWithProducts(), newStubAddressLocator(nil), discardLogger())

	// Only restaurant 2 carries both products.
	if err := svc.AssignRestaurant(context.Background(), "FD-A", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := orderRepo.FindByNumber(context.Background(), "FD-A")
	if stored.RestaurantID == nil || *stored.RestaurantID != 2 {
		t.Errorf("expected restaurant 2 assigned, got %v", stored.RestaurantID)
	}
	if stored.Status != domain.StatusAssembly {
		t.Errorf("expected assembly status, got %s", stored.Status)
	}
}

func TestOrderService_AssignRestaurant_NotEligible(t *testing.T) {
	order := deliveryOrder("FD-A", "delivery", 10, 11)
	svc := NewOrderService(newStubOrderRepo(order), catalogWithProducts(), newStubAddressLocator(nil), discardLogger())

	// Restaurant 1 carries product 10 but not 11.
	err := svc.AssignRestaurant(context.Background(), "FD-A", 1)
	if !errors.Is(err, domain.ErrRestaurantNotEligible) {
		t.Fatalf("expected ErrRestaurantNotEligible, got %v", err)
	}
}

func TestOrderService_AssignRestaurant_InvalidTransition(t *testing.T) {
	order := deliveryOrder("FD-A", "delivery", 10)
	order.Status = domain.StatusDelivery
	svc := NewOrderService(newStubOrderRepo(order), catalogWithProducts(), newStubAddressLocator(nil), discardLogger())

	err := svc.AssignRestaurant(context.Background(), "FD-A", 2)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestOrderService_AssignRestaurant_OrderNotFound(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), catalogWithProducts(), newStubAddressLocator(nil), discardLogger())

	err := svc.AssignRestaurant(context.Background(), "FD-MISSING", 1)
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_AdvanceStatus_WalksThePipeline(t *testing.T) {
	order := deliveryOrder("FD-A", "delivery", 10)
	order.Status = domain.StatusAssembly
	orderRepo := newStubOrderRepo(order)
	svc := NewOrderService(orderRepo, catalogWithProducts(), newStubAddressLocator(nil), discardLogger())

	if err := svc.AdvanceStatus(context.Background(), "FD-A", "delivery"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AdvanceStatus(context.Background(), "FD-A", "completed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := orderRepo.FindByNumber(context.Background(), "FD-A")
	if stored.Status != domain.StatusCompleted {
		t.Errorf("expected completed, got %s", stored.Status)
	}
}

func TestOrderService_AdvanceStatus_RejectsSkippedStage(t *testing.T) {
	order := deliveryOrder("FD-A", "delivery", 10)
	svc := NewOrderService(newStubOrderRepo(order), catalogWithProducts(), newStubAddressLocator(nil), discardLogger())

	// accepted -> completed skips assembly and delivery.
	err := svc.AdvanceStatus(context.Background(), "FD-A", "completed")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
