package getorder

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/funtech-labs/orders-backend/internal/service/models/order"
	"github.com/funtech-labs/orders-backend/internal/transport/http/middleware/auth"
	"github.com/funtech-labs/orders-backend/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// service is an interface for the service layer.
type service interface {
	Get(ctx context.Context, id uuid.UUID) (*order.Order, error)
}

// GetOrder handles the single-order read. Only the owner may read an order;
// someone else's order yields 403, a missing one 404.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	caller := auth.CurrentUser(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respond.Detail(w, http.StatusNotFound, "Order not found")

		return
	}

	o, err := service.Get(r.Context(), orderID)
	if err != nil {
		respond.Detail(w, http.StatusInternalServerError, "Failed to get order")
		slog.Error("Error getting order", "order_id", orderID, "error", err)

		return
	}
	if o == nil {
		respond.Detail(w, http.StatusNotFound, "Order not found")

		return
	}
	if o.UserID != caller.ID {
		respond.Detail(w, http.StatusForbidden, "Cannot access this order")

		return
	}

	respond.JSON(w, http.StatusOK, o)
}
