package handler

import "github.com/starburger/dispatch-system/internal/core/ports"

// --- Request → Service input ---

func toCreateInput(req createOrderRequest) ports.CreateOrderInput {
	lines := make([]ports.OrderLineInput, 0, len(req.Products))
	for _, p := range req.Products {
		lines = append(lines, ports.OrderLineInput{
			ProductID: p.Product,
			Quantity:  p.Quantity,
		})
	}
	return ports.CreateOrderInput{
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Phonenumber: req.Phonenumber,
		Address:     req.Address,
		Lines:       lines,
	}
}

// --- Service result → HTTP response ---

func toCreateResponse(r *ports.OrderResult) createOrderResponse {
	return createOrderResponse{
		Number:    r.Number,
		Status:    r.Status,
		TotalCost: r.TotalCost,
		CreatedAt: r.CreatedAt.UTC(),
		Links: orderLinks{
			Self:     "/api/v1/orders/" + r.Number,
			Dispatch: "/api/v1/dispatch/orders",
		},
	}
}
