package telemetry

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/summary"
)

func TestMetrics_ExportsSummary(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	m.Update(summary.Summary{
		WindowDays:        7,
		TotalOrders:       3,
		TotalRevenue:      decimal.RequireFromString("30"),
		AverageOrderValue: decimal.RequireFromString("10"),
		StatusCounts: map[model.OrderStatus]int{
			model.OrderStatusPending:   2,
			model.OrderStatusCompleted: 1,
		},
	})
	m.OrderPlaced(context.Background(), model.Order{City: "Galway"})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = true
			if md.Name == "puffingood.summary.orders" {
				g, ok := md.Data.(metricdata.Gauge[int64])
				require.True(t, ok)
				require.Len(t, g.DataPoints, 1)
				assert.Equal(t, int64(3), g.DataPoints[0].Value)
			}
			if md.Name == "puffingood.summary.orders_by_status" {
				g, ok := md.Data.(metricdata.Gauge[int64])
				require.True(t, ok)
				assert.Len(t, g.DataPoints, 2)
			}
		}
	}

	assert.True(t, names["puffingood.orders.placed"])
	assert.True(t, names["puffingood.summary.revenue"])
	assert.True(t, names["puffingood.summary.average_order_value"])
}

func TestInitTracerProvider_Disabled(t *testing.T) {
	shutdown, err := InitTracerProvider(context.Background(), "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
