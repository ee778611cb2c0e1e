package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/starburger/dispatch-system/internal/core/domain"
)

const collectionOrders = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

// Create inserts a new order document.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, o)
	return err
}

// FindByNumber retrieves an order by its order number.
func (r *OrderRepository) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Order
	err := r.col.FindOne(ctx, bson.M{"_id": number}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListOpen returns all non-terminal orders, oldest first. The stable sort
// keeps dispatch passes deterministic for a fixed data set.
func (r *OrderRepository) ListOpen(ctx context.Context) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"status": bson.M{"$ne": string(domain.StatusCompleted)}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AssignRestaurant sets the fulfilling restaurant and moves the order into
// assembly in one atomic update.
func (r *OrderRepository) AssignRestaurant(ctx context.Context, number string, restaurantID domain.RestaurantID, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"restaurant_id":       int64(restaurantID),
		"status":              string(domain.StatusAssembly),
		"assembly_started_at": at.UTC(),
	}}

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": number}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// UpdateStatus sets the new status and stamps the matching pipeline timestamp.
func (r *OrderRepository) UpdateStatus(ctx context.Context, number string, status domain.OrderStatus, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields := bson.M{"status": string(status)}
	switch status {
	case domain.StatusAssembly:
		fields["assembly_started_at"] = at.UTC()
	case domain.StatusDelivery:
		fields["delivery_started_at"] = at.UTC()
	case domain.StatusCompleted:
		fields["completed_at"] = at.UTC()
	}

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": number}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the orders collection.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
