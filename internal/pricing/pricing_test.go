package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmeshcher/puffingood/internal/model"
)

func item(price string, qty int, addons ...model.LineItemAddon) model.LineItem {
	return model.LineItem{
		FoodID:    "food",
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
		Addons:    addons,
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name     string
		items    []model.LineItem
		subtotal string
		total    string
	}{
		{
			name:     "empty cart",
			items:    nil,
			subtotal: "0",
			total:    "2.99",
		},
		{
			name:     "two lines",
			items:    []model.LineItem{item("6.00", 2), item("10.00", 1)},
			subtotal: "22.00",
			total:    "24.99",
		},
		{
			name: "addon prices are not charged",
			items: []model.LineItem{
				item("12.00", 1, model.LineItemAddon{Name: "Chocolate", Price: decimal.RequireFromString("1.50")}),
			},
			subtotal: "12.00",
			total:    "14.99",
		},
		{
			name:     "free item",
			items:    []model.LineItem{item("0", 3)},
			subtotal: "0",
			total:    "2.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Price(tt.items)

			assert.True(t, q.Subtotal.Equal(decimal.RequireFromString(tt.subtotal)), "subtotal = %s", q.Subtotal)
			assert.True(t, q.GrandTotal.Equal(decimal.RequireFromString(tt.total)), "grand total = %s", q.GrandTotal)
			assert.True(t, q.GrandTotal.Sub(q.Subtotal).Equal(DeliveryFee))
			assert.True(t, q.DeliveryFee.Equal(DeliveryFee))
		})
	}
}

func TestSubtotal_ScalesWithQuantity(t *testing.T) {
	items := []model.LineItem{item("6.00", 2), item("10.00", 1), item("3.35", 4)}
	base := Subtotal(items)

	for k := 1; k <= 5; k++ {
		scaled := make([]model.LineItem, len(items))
		for i, it := range items {
			it.Quantity *= k
			scaled[i] = it
		}

		got := Subtotal(scaled)
		want := base.Mul(decimal.NewFromInt(int64(k)))
		if !got.Equal(want) {
			t.Fatalf("k=%d: subtotal = %s, want %s", k, got, want)
		}
	}
}

func TestSubtotal_DoesNotMutateInput(t *testing.T) {
	items := []model.LineItem{item("6.00", 2)}

	_ = Price(items)
	_ = Price(items)

	if items[0].Quantity != 2 || !items[0].UnitPrice.Equal(decimal.RequireFromString("6.00")) {
		t.Fatalf("input was modified: %+v", items[0])
	}
}
