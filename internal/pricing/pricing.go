// Package pricing рассчитывает стоимость корзины.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/puffingood/internal/model"
)

// DeliveryFee задаёт фиксированную стоимость доставки, добавляемую к любой корзине.
var DeliveryFee = decimal.RequireFromString("2.99")

// Quote содержит итоговые суммы по корзине.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`
}

// Subtotal возвращает сумму произведений цены на количество по всем позициям.
// Цены добавок в подытог не входят.
func Subtotal(items []model.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Price рассчитывает подытог и итоговую сумму с учётом доставки.
func Price(items []model.LineItem) Quote {
	subtotal := Subtotal(items)
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		GrandTotal:  subtotal.Add(DeliveryFee),
	}
}
