package ports

import (
	"context"
	"time"

	"github.com/starburger/dispatch-system/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByNumber(ctx context.Context, number string) (*domain.Order, error)
	// ListOpen returns all non-terminal orders sorted by creation time, so a
	// dispatch pass always sees orders in a stable sequence.
	ListOpen(ctx context.Context) ([]*domain.Order, error)
	// AssignRestaurant sets the fulfilling restaurant and moves the order into
	// assembly in a single update.
	AssignRestaurant(ctx context.Context, number string, restaurantID domain.RestaurantID, at time.Time) error
	// UpdateStatus sets the new status and stamps the matching pipeline timestamp.
	UpdateStatus(ctx context.Context, number string, status domain.OrderStatus, at time.Time) error
}
