package authsvc

import (
	"context"
	"testing"
	"time"

	"github.com/funtech-labs/orders-backend/internal/apperrors"
	"github.com/funtech-labs/orders-backend/internal/service/models/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubUserRepo implements iuserrepo.IUserRepository in memory.
type stubUserRepo struct {
	users  map[string]user.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:  make(map[string]user.User),
		nextID: 1,
	}
}

func (s *stubUserRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	if _, ok := s.users[u.Email]; ok {
		return user.User{}, apperrors.ErrConflict
	}
	u.ID = s.nextID
	u.CreatedAt = time.Now()
	s.nextID++
	s.users[u.Email] = u

	return u, nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			cp := u

			return &cp, nil
		}
	}

	return nil, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	cp := u

	return &cp, nil
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := MustNewAuthService(WithUserRepository(repo))

	registered, err := svc.Register(context.Background(), "user@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", registered.Email)
	assert.NotEqual(t, "secret123", registered.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(registered.Password), []byte("secret123")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := MustNewAuthService(WithUserRepository(repo))

	_, err := svc.Register(context.Background(), "user@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "user@example.com", "other-password")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAuthenticate(t *testing.T) {
	repo := newStubUserRepo()
	svc := MustNewAuthService(WithUserRepository(repo))

	registered, err := svc.Register(context.Background(), "user@example.com", "secret123")
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		u, err := svc.Authenticate(context.Background(), "user@example.com", "secret123")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, registered.ID, u.ID)
	})

	// Unknown email and wrong password must be indistinguishable: both
	// return no user and no error.
	t.Run("wrong password", func(t *testing.T) {
		u, err := svc.Authenticate(context.Background(), "user@example.com", "wrong")
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("unknown email", func(t *testing.T) {
		u, err := svc.Authenticate(context.Background(), "nobody@example.com", "secret123")
		require.NoError(t, err)
		assert.Nil(t, u)
	})
}
