package ports

import "context"

// AvailableProduct is a catalog product currently carried by at least one
// restaurant.
type AvailableProduct struct {
	ID          int64
	Name        string
	Category    string
	Price       float64
	Description string
	Special     bool
	// Restaurants carrying the product, in snapshot order.
	Restaurants []int64
}

// CatalogService exposes the customer-facing catalog read operations.
type CatalogService interface {
	ListAvailableProducts(ctx context.Context) ([]AvailableProduct, error)
}
