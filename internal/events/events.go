// Package events публикует события жизненного цикла заказов в Kafka.
package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/puffingood/internal/model"
)

const (
	TopicOrderPlaced        = "order.placed"
	TopicOrderStatusChanged = "order.status_changed"
)

// OrderPlaced публикуется после успешного оформления заказа.
type OrderPlaced struct {
	OrderID        string          `json:"order_id"`
	UserID         string          `json:"user_id"`
	Total          decimal.Decimal `json:"total"`
	ItemCount      int             `json:"item_count"`
	City           string          `json:"city"`
	TrackingNumber string          `json:"tracking_number"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewOrderPlaced собирает событие из сохранённого заказа.
func NewOrderPlaced(o model.Order) OrderPlaced {
	count := 0
	for _, it := range o.Items {
		count += it.Quantity
	}
	return OrderPlaced{
		OrderID:        o.ID,
		UserID:         o.UserID,
		Total:          o.TotalOrZero(),
		ItemCount:      count,
		City:           o.City,
		TrackingNumber: o.TrackingNumber,
		CreatedAt:      o.CreatedAt,
	}
}

// OrderStatusChanged публикуется при смене статуса заказа администратором.
type OrderStatusChanged struct {
	OrderID   string            `json:"order_id"`
	Status    model.OrderStatus `json:"status"`
	ChangedBy string            `json:"changed_by"`
	ChangedAt time.Time         `json:"changed_at"`
}
