package createorder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/funtech-labs/orders-backend/internal/service/models/order"
	"github.com/funtech-labs/orders-backend/internal/transport/http/middleware/auth"
	"github.com/funtech-labs/orders-backend/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Create(ctx context.Context, userID int64, items []order.Item) (order.Order, error)
}

type request struct {
	Items []order.Item `json:"items"`
}

func validateItems(items []order.Item) error {
	for i, item := range items {
		if item.Name == "" {
			return fmt.Errorf("items[%d].name must not be empty", i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("items[%d].quantity must be a positive integer", i)
		}
		if item.Price < 0 {
			return fmt.Errorf("items[%d].price must not be negative", i)
		}
	}

	return nil
}

// CreateOrder handles the order creation request for the authenticated user.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	caller := auth.CurrentUser(r.Context())

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Detail(w, http.StatusBadRequest, "Failed to decode request body")

		return
	}

	if err := validateItems(req.Items); err != nil {
		respond.Detail(w, http.StatusBadRequest, err.Error())

		return
	}

	created, err := service.Create(r.Context(), caller.ID, req.Items)
	if err != nil {
		respond.Detail(w, http.StatusInternalServerError, "Failed to create order")
		slog.Error("Error creating order", "user_id", caller.ID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, created)
}
