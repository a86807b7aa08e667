package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/funtech-labs/orders-backend/internal/auth/token"
	"github.com/funtech-labs/orders-backend/internal/dal/interfaces/iuserrepo"
	"github.com/funtech-labs/orders-backend/internal/service/models/user"
	"github.com/funtech-labs/orders-backend/internal/transport/http/respond"
)

type ctxKey struct{}

const detailInvalidCredentials = "Could not validate credentials"

// CurrentUser returns the authenticated user stored by the middleware,
// or nil if the request did not pass through it.
func CurrentUser(ctx context.Context) *user.User {
	u, _ := ctx.Value(ctxKey{}).(*user.User)

	return u
}

// NewMiddleware verifies the bearer token on every request, loads the user
// it names and stores it in the request context. Any failure yields a
// uniform 401.
func NewMiddleware(tokens *token.Manager, userRepo iuserrepo.IUserRepository) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				respond.Unauthorized(w, detailInvalidCredentials)

				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				respond.Unauthorized(w, detailInvalidCredentials)

				return
			}

			u, err := userRepo.GetByID(r.Context(), userID)
			if err != nil {
				slog.Error("Failed to load user for token", "user_id", userID, "error", err)
				respond.Unauthorized(w, detailInvalidCredentials)

				return
			}
			if u == nil {
				respond.Unauthorized(w, detailInvalidCredentials)

				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
