package ordersvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/funtech-labs/orders-backend/internal/dal/interfaces/iorderrepo"
	"github.com/funtech-labs/orders-backend/internal/events"
	"github.com/funtech-labs/orders-backend/internal/service/models/event"
	"github.com/funtech-labs/orders-backend/internal/service/models/order"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

// cache is the side cache for order reads. Implementations must never fail
// the caller: errors are handled internally and reported as misses/no-ops.
type cache interface {
	Get(ctx context.Context, id uuid.UUID) *order.Order
	Set(ctx context.Context, o *order.Order)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// OrderService is a service for managing orders.
type OrderService struct {
	orderRepo iorderrepo.IOrderRepository
	cache     cache
	publisher events.Publisher
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(orderRepo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = orderRepo
	}
}

// WithCache sets the order cache for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCache(c cache) option {
	return func(s *OrderService) {
		s.cache = c
	}
}

// WithPublisher sets the event publisher for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPublisher(p events.Publisher) option {
	return func(s *OrderService) {
		s.publisher = p
	}
}

// Create computes the total from the items, persists the order with status
// PENDING and publishes a new-order event. The persist and the publish are
// not transactional: a failed publish falls back to the outbox and the
// caller still sees success.
func (s *OrderService) Create(
	ctx context.Context,
	userID int64,
	items []order.Item,
) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.Create")
	defer span.End()

	o := order.Order{
		ID:         uuid.New(),
		UserID:     userID,
		Items:      items,
		TotalPrice: order.TotalPrice(items),
		Status:     order.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	inserted, err := s.orderRepo.Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	evt := event.NewOrder{
		OrderID:   inserted.ID.String(),
		UserID:    inserted.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishNewOrder(ctx, evt); err != nil {
		slog.Error("Failed to publish new order event", "order_id", inserted.ID, "error", err)
	}

	slog.Info("Order created", "order_id", inserted.ID, "user_id", userID)

	return inserted, nil
}

// Get reads an order cache-aside: cache first, store on miss, populate the
// cache after a successful fallback. An absent order is not cached.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.Get")
	defer span.End()

	if cached := s.cache.Get(ctx, id); cached != nil {
		slog.Info("Order cache hit", "order_id", id)

		return cached, nil
	}

	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}

	s.cache.Set(ctx, o)

	return o, nil
}

// UpdateStatus overwrites the status and invalidates the cache entry so the
// next read repopulates from the store. Returns nil if the order does not
// exist.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status order.Status,
) (*order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.UpdateStatus")
	defer span.End()

	updated, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	s.cache.Invalidate(ctx, id)

	return updated, nil
}

// ListByUser reads the user's orders straight from the store, newest first.
// The list path is never cached.
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ListByUser")
	defer span.End()

	return s.orderRepo.ListByUser(ctx, userID)
}
