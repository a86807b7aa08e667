package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/funtech-labs/orders-backend/internal/dal/postgres"
	"github.com/funtech-labs/orders-backend/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	ID         uuid.UUID
	UserID     int64
	Items      []byte
	TotalPrice float64
	Status     string
	CreatedAt  time.Time
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0)
	if len(o.Items) > 0 {
		if err := json.Unmarshal(o.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}
	}

	return &order.Order{
		ID:         o.ID,
		UserID:     o.UserID,
		Items:      items,
		TotalPrice: o.TotalPrice,
		Status:     status,
		CreatedAt:  o.CreatedAt,
	}, nil
}

// OrderRepository implements the order repository for PostgreSQL.
type OrderRepository struct {
	client *postgres.Client
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(client *postgres.Client) *OrderRepository {
	return &OrderRepository{
		client: client,
	}
}

const orderColumns = "id, user_id, items, total_price, status, created_at"

// Insert persists a new order with its items serialized to JSONB.
func (r *OrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to marshal order items: %w", err)
	}

	query, args, err := sq.Insert("orders").
		Columns("id", "user_id", "items", "total_price", "status", "created_at").
		Values(o.ID, o.UserID, items, o.TotalPrice, o.Status, o.CreatedAt).
		Suffix("RETURNING " + orderColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := r.scanOne(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return *inserted, nil
}

// GetByID returns the order with the given id, or nil if absent.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	o, err := r.scanOne(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return o, nil
}

// ListByUser returns the user's orders ordered by creation time, descending.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	query, args, err := sq.Select(orderColumns).
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	result := make([]order.Order, 0)
	for rows.Next() {
		o, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus overwrites the order status unconditionally and returns the
// updated order, or nil if the order does not exist.
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status order.Status,
) (*order.Order, error) {
	query, args, err := sq.Update("orders").
		Set("status", status).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + orderColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	o, err := r.scanOne(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return o, nil
}

func (r *OrderRepository) scanOne(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.ID,
		&dal.UserID,
		&dal.Items,
		&dal.TotalPrice,
		&dal.Status,
		&dal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}
