package event

import "time"

// NewOrder is the message published once per successful order creation.
// Delivery is at-least-once; consumers do not deduplicate.
type NewOrder struct {
	OrderID   string    `json:"order_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
