package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/funtech-labs/orders-backend/internal/apperrors"
	"github.com/funtech-labs/orders-backend/internal/service/models/user"
	"github.com/funtech-labs/orders-backend/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Register(ctx context.Context, email, password string) (user.User, error)
}

type request struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles the user registration request.
func Register(w http.ResponseWriter, r *http.Request, service service) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Detail(w, http.StatusBadRequest, "Failed to decode request body")

		return
	}

	if !strings.Contains(req.Email, "@") || req.Password == "" {
		respond.Detail(w, http.StatusBadRequest, "A valid email and a password are required")

		return
	}

	registered, err := service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			respond.Detail(w, http.StatusBadRequest, "Email already registered")

			return
		}
		respond.Detail(w, http.StatusInternalServerError, "Registration failed")
		slog.Error("Error registering user", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, registered)
}
