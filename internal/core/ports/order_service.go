package ports

import (
	"context"
	"time"
)

// OrderLineInput is a single order position as submitted by the client.
type OrderLineInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput carries all data needed to register a new order.
type CreateOrderInput struct {
	Firstname   string
	Lastname    string
	Phonenumber string
	Address     string
	Lines       []OrderLineInput
}

// OrderResult is returned by the service after registering an order.
type OrderResult struct {
	Number    string
	Status    string
	TotalCost float64
	CreatedAt time.Time
}

// OrderService defines use-case operations on individual orders.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderResult, error)
	// AssignRestaurant hands the order to one of its eligible restaurants and
	// moves it into assembly.
	AssignRestaurant(ctx context.Context, number string, restaurantID int64) error
	// AdvanceStatus moves the order one step along the fulfillment pipeline.
	AdvanceStatus(ctx context.Context, number string, status string) error
}
