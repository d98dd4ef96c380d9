package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// OrderService coordinates order workflows; ownership is enforced through
// the same policy functions the user operations use.
type OrderService struct {
	orders     repository.OrderRepository
	dispatcher events.Dispatcher
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{orders: orders, dispatcher: dispatcher}
}

// Create places an order owned by the calling principal.
func (s *OrderService) Create(ctx context.Context, principal *domain.Principal, totalAmount float64) (*domain.Order, error) {
	if totalAmount <= 0 {
		return nil, apperrors.NewValidationError("total amount must be positive", nil)
	}

	order := &domain.Order{
		UserID:      principal.ID,
		TotalAmount: totalAmount,
		Status:      domain.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventOrderCreated,
			UserID:    principal.ID,
			Timestamp: time.Now(),
			Payload:   events.OrderCreatedPayload{OrderID: order.ID, TotalAmount: order.TotalAmount},
		})
	}
	return order, nil
}

// Get fetches an order; owners and admins only.
func (s *OrderService) Get(ctx context.Context, principal *domain.Principal, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", nil)
		}
		return nil, err
	}
	if !auth.RequireOwnerOrAdmin(principal, order.UserID) {
		return nil, apperrors.NewForbidden("cannot access another user's order")
	}
	return order, nil
}

// ListMine returns the caller's own orders.
func (s *OrderService) ListMine(ctx context.Context, principal *domain.Principal, limit, offset int) ([]*domain.Order, error) {
	limit, offset = clampPage(limit, offset)
	return s.orders.ListByUser(ctx, principal.ID, limit, offset)
}

// ListAll returns every order. Admin only.
func (s *OrderService) ListAll(ctx context.Context, principal *domain.Principal, limit, offset int) ([]*domain.Order, error) {
	if !auth.RequireRole(principal, domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	limit, offset = clampPage(limit, offset)
	return s.orders.List(ctx, limit, offset)
}

// UpdateStatus moves an order to a new status. Admin only.
func (s *OrderService) UpdateStatus(ctx context.Context, principal *domain.Principal, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	if !auth.RequireRole(principal, domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown order status", map[string]any{"status": status})
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", nil)
		}
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
