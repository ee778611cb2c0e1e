package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type orderLineRequest struct {
	Product  int64 `json:"product"  validate:"required"`
	Quantity int   `json:"quantity" validate:"required,min=1,max=100"`
}

type createOrderRequest struct {
	Firstname   string             `json:"firstname"   validate:"required"`
	Lastname    string             `json:"lastname"    validate:"required"`
	Phonenumber string             `json:"phonenumber" validate:"required,e164"`
	Address     string             `json:"address"     validate:"required"`
	Products    []orderLineRequest `json:"products"    validate:"required,min=1,dive"`
}

type assignRestaurantRequest struct {
	RestaurantID int64 `json:"restaurant_id" validate:"required"`
}

type advanceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=assembly delivery completed"`
}

// --- Response types ---
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type orderLinks struct {
	Self     string `json:"self"`
	Dispatch string `json:"dispatch"`
}

type createOrderResponse struct {
	Number    string     `json:"number"`
	Status    string     `json:"status"`
	TotalCost float64    `json:"total_cost"`
	CreatedAt time.Time  `json:"created_at"`
	Links     orderLinks `json:"_links"`
}

type orderUpdatedResponse struct {
	Number string `json:"number"`
	Status string `json:"status"`
}
