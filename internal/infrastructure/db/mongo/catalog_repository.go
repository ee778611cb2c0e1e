package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/starburger/dispatch-system/internal/core/domain"
)

const (
	collectionRestaurants = "restaurants"
	collectionProducts    = "products"
	collectionMenuItems   = "menu_items"
)

// CatalogRepository serves the read-only restaurant/product/availability
// snapshot for dispatch passes.
type CatalogRepository struct {
	db *mongo.Database
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListRestaurants returns all restaurants sorted by id.
func (r *CatalogRepository) ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(collectionRestaurants).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var restaurants []*domain.Restaurant
	if err := cursor.All(ctx, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// ListProducts returns all products sorted by id.
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(collectionProducts).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListMenuAvailability returns the full availability matrix sorted by
// (restaurant_id, product_id). The fixed sort pins down the insertion order of
// every eligible set derived from the snapshot.
func (r *CatalogRepository) ListMenuAvailability(ctx context.Context) ([]domain.MenuAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "restaurant_id", Value: 1}, {Key: "product_id", Value: 1}})
	cursor, err := r.db.Collection(collectionMenuItems).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.MenuAvailability
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureIndexes creates necessary indexes on the catalog collections. The
// unique index on (restaurant_id, product_id) enforces the
// one-record-per-pair invariant at the storage layer.
func (r *CatalogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.db.Collection(collectionMenuItems).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "restaurant_id", Value: 1}, {Key: "product_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
