package token

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const defaultExpireMinutes = 60 * 24

// Manager issues and verifies signed bearer tokens. The user id travels in
// the "sub" claim.
type Manager struct {
	secret []byte
	expiry time.Duration
}

// NewManager creates a token manager with the given secret and lifetime.
func NewManager(secret []byte, expiry time.Duration) *Manager {
	return &Manager{
		secret: secret,
		expiry: expiry,
	}
}

// MustNewManagerFromConfig creates a token manager from the JWT_SECRET env var
// and the auth.access_token_expire_minutes config key.
func MustNewManagerFromConfig() *Manager {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET is not set")
	}

	expireMinutes := viper.GetInt("auth.access_token_expire_minutes")
	if expireMinutes == 0 {
		expireMinutes = defaultExpireMinutes
	}

	return NewManager([]byte(secret), time.Duration(expireMinutes)*time.Minute)
}

// Issue creates a signed HS256 token for the given user id.
func (m *Manager) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks signature and expiry and returns the user id from the subject.
func (m *Manager) Verify(tokenStr string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenStr,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, fmt.Errorf("token has no subject")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token subject is not a user id: %w", err)
	}

	return userID, nil
}
