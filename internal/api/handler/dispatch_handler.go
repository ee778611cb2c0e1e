package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/starburger/dispatch-system/internal/core/ports"
)

// BatchRunner is the interface the handler uses to execute ranking passes.
type BatchRunner interface {
	Run(ctx context.Context) (*ports.DispatchSnapshot, error)
}

// DispatchHandler serves the staff dispatch view: every open order with its
// eligible restaurants ranked by distance.
type DispatchHandler struct {
	runner BatchRunner
}

// NewDispatchHandler creates a DispatchHandler backed by the given runner.
func NewDispatchHandler(runner BatchRunner) *DispatchHandler {
	return &DispatchHandler{runner: runner}
}

type rankedCandidateResponse struct {
	RestaurantID int64    `json:"restaurant_id"`
	Name         string   `json:"name"`
	DistanceKm   *float64 `json:"distance_km"`
}

type dispatchOrderResponse struct {
	Number      string                    `json:"number"`
	Firstname   string                    `json:"firstname"`
	Lastname    string                    `json:"lastname"`
	Phonenumber string                    `json:"phonenumber"`
	Address     string                    `json:"address"`
	Status      string                    `json:"status"`
	TotalCost   float64                   `json:"total_cost"`
	CreatedAt   time.Time                 `json:"created_at"`
	Eligible    []int64                   `json:"eligible_restaurants"`
	Candidates  []rankedCandidateResponse `json:"candidates"`
}

type dispatchOrdersResponse struct {
	Data        []dispatchOrderResponse `json:"data"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// Orders handles GET /api/v1/dispatch/orders. It runs a batch ranking pass
// over all open orders and returns the annotated list.
//
// @Summary      Rank open orders against eligible restaurants
// @Tags         dispatch
// @Produce      json
// @Success      200  {object}  dispatchOrdersResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/dispatch/orders [get]
func (h *DispatchHandler) Orders(c echo.Context) error {
	snapshot, err := h.runner.Run(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]dispatchOrderResponse, 0, len(snapshot.Orders))
	for _, order := range snapshot.Orders {
		candidates := make([]rankedCandidateResponse, 0, len(order.Candidates))
		for _, candidate := range order.Candidates {
			candidates = append(candidates, rankedCandidateResponse{
				RestaurantID: candidate.RestaurantID,
				Name:         candidate.Name,
				DistanceKm:   candidate.DistanceKm,
			})
		}
		items = append(items, dispatchOrderResponse{
			Number:      order.Number,
			Firstname:   order.Firstname,
			Lastname:    order.Lastname,
			Phonenumber: order.Phonenumber,
			Address:     order.Address,
			Status:      order.Status,
			TotalCost:   order.TotalCost,
			CreatedAt:   order.CreatedAt,
			Eligible:    order.Eligible,
			Candidates:  candidates,
		})
	}

	return c.JSON(http.StatusOK, dispatchOrdersResponse{
		Data:        items,
		GeneratedAt: snapshot.GeneratedAt,
	})
}
