package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the fulfillment pipeline state of an order.
type OrderStatus string

const (
	StatusAccepted  OrderStatus = "accepted"
	StatusAssembly  OrderStatus = "assembly"
	StatusDelivery  OrderStatus = "delivery"
	StatusCompleted OrderStatus = "completed"
)

// validTransitions defines the allowed pipeline transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusAccepted: {StatusAssembly},
	StatusAssembly: {StatusDelivery},
	StatusDelivery: {StatusCompleted},
}

var ErrOrderNotFound = errors.New("order not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrRestaurantNotEligible = errors.New("restaurant cannot fulfill this order")
var ErrProductNotFound = errors.New("product not found")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order has left the fulfillment pipeline.
// Only non-terminal orders participate in dispatch ranking.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// OrderLine is a single order position. Price is snapshotted from the catalog
// at order creation so later price changes do not rewrite history.
type OrderLine struct {
	ProductID ProductID `json:"product_id" bson:"product_id"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	Price     float64   `json:"price" bson:"price"`
}

// Order is the core aggregate root.
type Order struct {
	Number            string        `json:"number" bson:"_id"`
	Firstname         string        `json:"firstname" bson:"firstname"`
	Lastname          string        `json:"lastname" bson:"lastname"`
	Phonenumber       string        `json:"phonenumber" bson:"phonenumber"`
	Address           string        `json:"address" bson:"address"`
	Status            OrderStatus   `json:"status" bson:"status"`
	Lines             []OrderLine   `json:"lines" bson:"lines"`
	RestaurantID      *RestaurantID `json:"restaurant_id,omitempty" bson:"restaurant_id,omitempty"`
	CreatedAt         time.Time     `json:"created_at" bson:"created_at"`
	AssemblyStartedAt *time.Time    `json:"assembly_started_at,omitempty" bson:"assembly_started_at,omitempty"`
	DeliveryStartedAt *time.Time    `json:"delivery_started_at,omitempty" bson:"delivery_started_at,omitempty"`
	CompletedAt       *time.Time    `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// TotalCost sums quantity times snapshotted price over all lines.
func (o *Order) TotalCost() float64 {
	var total float64
	for _, line := range o.Lines {
		total += float64(line.Quantity) * line.Price
	}
	return total
}

// ProductIDs returns the distinct products referenced by the order's lines,
// in first-occurrence order.
func (o *Order) ProductIDs() []ProductID {
	seen := make(map[ProductID]struct{}, len(o.Lines))
	ids := make([]ProductID, 0, len(o.Lines))
	for _, line := range o.Lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}
