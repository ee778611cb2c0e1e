package domain

import "errors"

// RestaurantID identifies a restaurant in the catalog.
type RestaurantID int64

// ProductID identifies a product in the catalog.
type ProductID int64

var ErrRestaurantNotFound = errors.New("restaurant not found")
var ErrDuplicateMenuRecord = errors.New("duplicate menu availability record")

// Restaurant is a fulfillment location.
type Restaurant struct {
	ID           RestaurantID `json:"id" bson:"_id"`
	Name         string       `json:"name" bson:"name"`
	Address      string       `json:"address" bson:"address"`
	ContactPhone string       `json:"contact_phone,omitempty" bson:"contact_phone,omitempty"`
}

// Product is a sellable catalog item.
type Product struct {
	ID          ProductID `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Special     bool      `json:"special" bson:"special"`
}

// MenuAvailability is one cell of the restaurant x product availability matrix.
// At most one record may exist per (restaurant, product) pair.
type MenuAvailability struct {
	RestaurantID RestaurantID `json:"restaurant_id" bson:"restaurant_id"`
	ProductID    ProductID    `json:"product_id" bson:"product_id"`
	Available    bool         `json:"available" bson:"available"`
}
