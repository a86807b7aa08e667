package listorders

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/funtech-labs/orders-backend/internal/service/models/order"
	"github.com/funtech-labs/orders-backend/internal/transport/http/middleware/auth"
	"github.com/funtech-labs/orders-backend/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	ListByUser(ctx context.Context, userID int64) ([]order.Order, error)
}

// ListOrders handles the per-user order listing. A caller may only list
// their own orders; any other user id yields 403.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	caller := auth.CurrentUser(r.Context())

	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		respond.Detail(w, http.StatusBadRequest, "Invalid user id")

		return
	}

	if userID != caller.ID {
		respond.Detail(w, http.StatusForbidden, "Not your orders")

		return
	}

	orders, err := service.ListByUser(r.Context(), userID)
	if err != nil {
		respond.Detail(w, http.StatusInternalServerError, "Failed to list orders")
		slog.Error("Error listing orders", "user_id", userID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}
