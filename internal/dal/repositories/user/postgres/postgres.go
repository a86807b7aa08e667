package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/funtech-labs/orders-backend/internal/apperrors"
	"github.com/funtech-labs/orders-backend/internal/dal/postgres"
	"github.com/funtech-labs/orders-backend/internal/service/models/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// UserRepository implements the user repository for PostgreSQL.
type UserRepository struct {
	client *postgres.Client
}

// NewUserRepository creates a new user repository.
func NewUserRepository(client *postgres.Client) *UserRepository {
	return &UserRepository{
		client: client,
	}
}

// Insert persists a new user. A duplicate email maps to apperrors.ErrConflict.
func (r *UserRepository) Insert(ctx context.Context, u user.User) (user.User, error) {
	query, args, err := sq.Insert("users").
		Columns("email", "password", "created_at").
		Values(u.Email, u.Password, time.Now()).
		Suffix("RETURNING id, email, password, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	row := r.client.Pool().QueryRow(ctx, query, args...)
	var inserted user.User
	if err := row.Scan(&inserted.ID, &inserted.Email, &inserted.Password, &inserted.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return user.User{}, apperrors.ErrConflict
		}

		return user.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return inserted, nil
}

// GetByID returns the user with the given id, or nil if absent.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

// GetByEmail returns the user with the given email, or nil if absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, sq.Eq{"email": email})
}

func (r *UserRepository) getOne(ctx context.Context, pred sq.Eq) (*user.User, error) {
	query, args, err := sq.Select("id", "email", "password", "created_at").
		From("users").
		Where(pred).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	row := r.client.Pool().QueryRow(ctx, query, args...)
	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}
