package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/starburger/dispatch-system/internal/core/ports"
)

// ProductHandler serves the customer-facing catalog.
type ProductHandler struct {
	service ports.CatalogService
}

func NewProductHandler(service ports.CatalogService) *ProductHandler {
	return &ProductHandler{service: service}
}

type productResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Special     bool    `json:"special"`
	Restaurants []int64 `json:"restaurants"`
}

type productListResponse struct {
	Data []productResponse `json:"data"`
}

// List handles GET /api/v1/products: products currently on sale somewhere.
//
// @Summary      List available products
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  productListResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.ListAvailableProducts(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]productResponse, 0, len(products))
	for _, p := range products {
		items = append(items, productResponse{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Price:       p.Price,
			Description: p.Description,
			Special:     p.Special,
			Restaurants: p.Restaurants,
		})
	}

	return c.JSON(http.StatusOK, productListResponse{Data: items})
}
