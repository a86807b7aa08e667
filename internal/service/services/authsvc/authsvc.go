package authsvc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/funtech-labs/orders-backend/internal/dal/interfaces/iuserrepo"
	"github.com/funtech-labs/orders-backend/internal/service/models/user"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"
)

// AuthService is a service for registering and authenticating users.
type AuthService struct {
	userRepo iuserrepo.IUserRepository
}

// option is a function that configures the AuthService.
type option func(*AuthService)

// MustNewAuthService creates a new AuthService.
func MustNewAuthService(opts ...option) *AuthService {
	s := &AuthService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithUserRepository sets the user repository for the AuthService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(userRepo iuserrepo.IUserRepository) option {
	return func(s *AuthService) {
		s.userRepo = userRepo
	}
}

// Register hashes the password and persists a new user. A duplicate email
// surfaces as apperrors.ErrConflict from the repository.
func (s *AuthService) Register(ctx context.Context, email, password string) (user.User, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "AuthService.Register")
	defer span.End()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	registered, err := s.userRepo.Insert(ctx, user.User{
		Email:    email,
		Password: string(hash),
	})
	if err != nil {
		return user.User{}, err
	}

	slog.Info("User registered", "user_id", registered.ID)

	return registered, nil
}

// Authenticate looks up the user by email and verifies the password.
// It returns nil for both an unknown email and a wrong password so the
// caller cannot tell the two apart.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "AuthService.Authenticate")
	defer span.End()

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, nil
	}

	return u, nil
}
