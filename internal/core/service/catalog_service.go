package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/starburger/dispatch-system/internal/core/ports"
)

// CatalogService serves catalog reads for the customer-facing API.
type CatalogService struct {
	catalog ports.CatalogRepository
	log     zerolog.Logger
}

func NewCatalogService(catalog ports.CatalogRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, log: log}
}

// ListAvailableProducts returns the products currently carried by at least one
// restaurant, annotated with their carrying restaurants.
func (s *CatalogService) ListAvailableProducts(ctx context.Context) ([]ports.AvailableProduct, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available products: %w", err)
	}
	availability, err := s.catalog.ListMenuAvailability(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available products: %w", err)
	}
	index, err := BuildMenuIndex(availability)
	if err != nil {
		return nil, fmt.Errorf("list available products: %w", err)
	}

	available := make([]ports.AvailableProduct, 0, len(products))
	for _, p := range products {
		carrying := index.RestaurantsFor(p.ID)
		if len(carrying) == 0 {
			continue
		}
		restaurants := make([]int64, 0, len(carrying))
		for _, id := range carrying {
			restaurants = append(restaurants, int64(id))
		}
		available = append(available, ports.AvailableProduct{
			ID:          int64(p.ID),
			Name:        p.Name,
			Category:    p.Category,
			Price:       p.Price,
			Description: p.Description,
			Special:     p.Special,
			Restaurants: restaurants,
		})
	}

	return available, nil
}
