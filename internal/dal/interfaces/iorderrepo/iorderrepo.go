package iorderrepo

import (
	"context"

	"github.com/funtech-labs/orders-backend/internal/service/models/order"
	"github.com/google/uuid"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	// Insert persists a new order.
	Insert(ctx context.Context, o order.Order) (order.Order, error)

	// GetByID returns the order with the given id, or nil if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error)

	// ListByUser returns the user's orders ordered by creation time, descending.
	ListByUser(ctx context.Context, userID int64) ([]order.Order, error)

	// UpdateStatus overwrites the order status and returns the updated order,
	// or nil if the order does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) (*order.Order, error)
}
