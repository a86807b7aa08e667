package updateorder

import (
	"context"
	"encoding/json"
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
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) (*order.Order, error)
}

type request struct {
	Status string `json:"status"`
}

// UpdateOrder handles the status update. Any valid status may overwrite any
// other; there is no transition state machine.
func UpdateOrder(w http.ResponseWriter, r *http.Request, service service) {
	caller := auth.CurrentUser(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respond.Detail(w, http.StatusNotFound, "Order not found")

		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Detail(w, http.StatusBadRequest, "Failed to decode request body")

		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		respond.Detail(w, http.StatusBadRequest, "Invalid order status")

		return
	}

	existing, err := service.Get(r.Context(), orderID)
	if err != nil {
		respond.Detail(w, http.StatusInternalServerError, "Failed to get order")
		slog.Error("Error getting order", "order_id", orderID, "error", err)

		return
	}
	if existing == nil {
		respond.Detail(w, http.StatusNotFound, "Order not found")

		return
	}
	if existing.UserID != caller.ID {
		respond.Detail(w, http.StatusForbidden, "Cannot access this order")

		return
	}

	updated, err := service.UpdateStatus(r.Context(), orderID, status)
	if err != nil {
		respond.Detail(w, http.StatusInternalServerError, "Failed to update order")
		slog.Error("Error updating order status", "order_id", orderID, "error", err)

		return
	}
	if updated == nil {
		respond.Detail(w, http.StatusNotFound, "Order not found")

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}
