package order

import (
	"time"

	"github.com/google/uuid"
)

// Order represents an order in the system.
type Order struct {
	ID         uuid.UUID `json:"id"`
	UserID     int64     `json:"user_id"`
	Items      []Item    `json:"items"`
	TotalPrice float64   `json:"total_price"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Item is a single position within an order.
type Item struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// TotalPrice computes the order total from its items.
// Called once at creation time; the stored value is never recomputed.
func TotalPrice(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	return total
}
