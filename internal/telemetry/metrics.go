package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/summary"
)

// Metrics публикует бизнес-метрики витрины.
type Metrics struct {
	ordersPlaced metric.Int64Counter

	mu      sync.RWMutex
	current summary.Summary
}

// NewMetrics регистрирует счётчик оформленных заказов и датчики последней сводки.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error
	m.ordersPlaced, err = meter.Int64Counter("puffingood.orders.placed",
		metric.WithDescription("Number of orders placed through checkout"),
	)
	if err != nil {
		return nil, err
	}

	totalOrders, err := meter.Int64ObservableGauge("puffingood.summary.orders",
		metric.WithDescription("Orders inside the summary window"),
	)
	if err != nil {
		return nil, err
	}
	revenue, err := meter.Float64ObservableGauge("puffingood.summary.revenue",
		metric.WithDescription("Revenue inside the summary window"),
	)
	if err != nil {
		return nil, err
	}
	average, err := meter.Float64ObservableGauge("puffingood.summary.average_order_value",
		metric.WithDescription("Average order value inside the summary window"),
	)
	if err != nil {
		return nil, err
	}
	byStatus, err := meter.Int64ObservableGauge("puffingood.summary.orders_by_status",
		metric.WithDescription("Orders inside the summary window by status"),
	)
	if err != nil {
		return nil, err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := m.Snapshot()
		window := metric.WithAttributes(attribute.Int("window_days", s.WindowDays))

		o.ObserveInt64(totalOrders, int64(s.TotalOrders), window)
		o.ObserveFloat64(revenue, s.TotalRevenue.InexactFloat64(), window)
		o.ObserveFloat64(average, s.AverageOrderValue.InexactFloat64(), window)
		for status, count := range s.StatusCounts {
			o.ObserveInt64(byStatus, int64(count), metric.WithAttributes(
				attribute.Int("window_days", s.WindowDays),
				attribute.String("status", string(status)),
			))
		}
		return nil
	}, totalOrders, revenue, average, byStatus)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// OrderPlaced увеличивает счётчик оформленных заказов.
func (m *Metrics) OrderPlaced(ctx context.Context, o model.Order) {
	m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("city", o.City)))
}

// Update сохраняет последнюю рассчитанную сводку.
func (m *Metrics) Update(s summary.Summary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
}

// Snapshot возвращает последнюю сохранённую сводку.
func (m *Metrics) Snapshot() summary.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}
