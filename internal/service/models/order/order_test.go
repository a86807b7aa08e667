package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPrice(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  float64
	}{
		{
			name:  "single item with quantity",
			items: []Item{{Name: "x", Quantity: 2, Price: 10}},
			want:  20.0,
		},
		{
			name:  "empty items",
			items: []Item{},
			want:  0.0,
		},
		{
			name: "multiple items",
			items: []Item{
				{Name: "a", Quantity: 1, Price: 5.5},
				{Name: "b", Quantity: 3, Price: 2},
			},
			want: 11.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPrice(tt.items))
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "PAID", "SHIPPED", "CANCELED"} {
		status, err := ParseStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, status.String())
	}

	_, err := ParseStatus("DELIVERED")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseStatus("pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
