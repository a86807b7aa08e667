package iuserrepo

import (
	"context"

	"github.com/funtech-labs/orders-backend/internal/service/models/user"
)

// IUserRepository is an interface for the user postgres repository.
type IUserRepository interface {
	// Insert persists a new user and returns it with the assigned id.
	Insert(ctx context.Context, u user.User) (user.User, error)

	// GetByID returns the user with the given id, or nil if absent.
	GetByID(ctx context.Context, id int64) (*user.User, error)

	// GetByEmail returns the user with the given email, or nil if absent.
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}
