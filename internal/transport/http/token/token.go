package token

import (
	"context"
	"log/slog"
	"net/http"

	tokenmanager "github.com/funtech-labs/orders-backend/internal/auth/token"
	"github.com/funtech-labs/orders-backend/internal/service/models/user"
	"github.com/funtech-labs/orders-backend/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

type response struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token handles the OAuth2-style password form and issues a bearer token.
// Unknown email and wrong password are indistinguishable in the response.
func Token(w http.ResponseWriter, r *http.Request, service service, tokens *tokenmanager.Manager) {
	if err := r.ParseForm(); err != nil {
		respond.Detail(w, http.StatusBadRequest, "Failed to parse form")

		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		respond.Detail(w, http.StatusBadRequest, "username and password are required")

		return
	}

	u, err := service.Authenticate(r.Context(), username, password)
	if err != nil {
		respond.Detail(w, http.StatusInternalServerError, "Authentication failed")
		slog.Error("Error authenticating user", "error", err)

		return
	}
	if u == nil {
		respond.Unauthorized(w, "Incorrect email or password")

		return
	}

	accessToken, err := tokens.Issue(u.ID)
	if err != nil {
		respond.Detail(w, http.StatusInternalServerError, "Authentication failed")
		slog.Error("Error issuing token", "user_id", u.ID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, response{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}
