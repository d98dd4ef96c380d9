package dto

import (
	"time"

	"github.com/spec-kit/order-service/internal/domain"
)

// OrderCreateRequest payload for placing an order.
type OrderCreateRequest struct {
	TotalAmount float64 `json:"total_amount"`
}

// OrderStatusUpdateRequest payload for admin status changes.
type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	Status      string    `json:"status"`
	OrderDate   time.Time `json:"order_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
		OrderDate:   order.OrderDate,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

// NewOrderResponses maps a slice of domain orders.
func NewOrderResponses(orders []*domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, NewOrderResponse(order))
	}
	return out
}
