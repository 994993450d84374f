package httpx

import (
	"time"

	"github.com/commercekit/order-lifecycle/internal/order/domain"
)

type CreateOrderRequest struct {
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Priority     string  `json:"priority,omitempty"`
	DiscountCode string  `json:"discount_code,omitempty"`
}

type UpdateOrderRequest struct {
	Quantity int `json:"quantity"`
}

type OrderResponse struct {
	ID             int64   `json:"id"`
	ProductName    string  `json:"product_name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	Priority       string  `json:"priority"`
	DiscountCode   string  `json:"discount_code,omitempty"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalPrice     float64 `json:"total_price"`
	State          string  `json:"state"`
	CreatedAt      string  `json:"created_at"`
}

type CancelOrderResponse struct {
	Cancelled bool `json:"cancelled"`
}

type UpdateOrderResponse struct {
	Updated bool `json:"updated"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapOrderToResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:             o.ID,
		ProductName:    o.ProductName,
		Quantity:       o.Quantity,
		UnitPrice:      o.UnitPrice,
		Priority:       string(o.Priority),
		DiscountCode:   o.DiscountCode,
		DiscountAmount: o.DiscountAmount,
		TotalPrice:     o.TotalPrice,
		State:          string(o.State),
		CreatedAt:      o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
