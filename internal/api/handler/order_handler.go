package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/starburger/dispatch-system/internal/core/domain"
	"github.com/starburger/dispatch-system/internal/core/ports"
)

// OrderHandler handles HTTP requests for order intake and pipeline operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /api/v1/orders.
//
// @Summary      Register a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  createOrderResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.CreateOrder(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toCreateResponse(result))
}

// Assign handles POST /api/v1/orders/:number/assign.
//
// @Summary      Assign an eligible restaurant to an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        number  path      string                   true  "Order number (e.g. FD-7A8B9C2D)"
// @Param        body    body      assignRestaurantRequest  true  "Restaurant"
// @Success      200     {object}  orderUpdatedResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /api/v1/orders/{number}/assign [post]
func (h *OrderHandler) Assign(c echo.Context) error {
	var req assignRestaurantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	number := c.Param("number")
	if err := h.service.AssignRestaurant(c.Request().Context(), number, req.RestaurantID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderUpdatedResponse{
		Number: number,
		Status: string(domain.StatusAssembly),
	})
}

// AdvanceStatus handles PATCH /api/v1/orders/:number/status.
//
// @Summary      Advance an order along the fulfillment pipeline
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        number  path      string                true  "Order number"
// @Param        body    body      advanceStatusRequest  true  "Target status"
// @Success      200     {object}  orderUpdatedResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /api/v1/orders/{number}/status [patch]
func (h *OrderHandler) AdvanceStatus(c echo.Context) error {
	var req advanceStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	number := c.Param("number")
	if err := h.service.AdvanceStatus(c.Request().Context(), number, req.Status); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderUpdatedResponse{
		Number: number,
		Status: req.Status,
	})
}
