package domain

import (
	"math"
	"time"
)

// Coordinate is a geographic point. Values are stored with 6 decimal places,
// matching the precision of the location store.
type Coordinate struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// NewCoordinate builds a Coordinate rounded to 6 decimal places.
func NewCoordinate(lat, lng float64) Coordinate {
	return Coordinate{Lat: round(lat, 6), Lng: round(lng, 6)}
}

// LocationEntry is one cached address resolution. Coordinate is nil when the
// address has been looked up but never successfully resolved; such entries are
// retried on the next lookup rather than treated as a permanent miss.
type LocationEntry struct {
	Address    string
	Coordinate *Coordinate
	ResolvedAt time.Time
}

// RankedCandidate pairs an eligible restaurant with its distance to the
// delivery address. DistanceKm is nil when either coordinate is unresolved.
type RankedCandidate struct {
	RestaurantID RestaurantID `json:"restaurant_id"`
	DistanceKm   *float64     `json:"distance_km,omitempty"`
}

// RoundDistanceKm rounds a distance to the 2 decimal places used everywhere a
// distance is reported.
func RoundDistanceKm(km float64) float64 {
	return round(km, 2)
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
