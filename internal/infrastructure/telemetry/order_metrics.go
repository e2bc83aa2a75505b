package telemetry

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// OrderMetrics records checkout metrics from order_created events.
type OrderMetrics struct {
	ordersPlaced  metric.Int64Counter
	itemsPerOrder metric.Int64Histogram
	orderAmount   metric.Float64Histogram
}

// NewOrderMetrics creates the order instruments on meter.
func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	ordersPlaced, err := meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Number of orders placed"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create orders placed counter: %w", err)
	}

	itemsPerOrder, err := meter.Int64Histogram("storefront.order.items",
		metric.WithDescription("Number of line items per placed order"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 50, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order items histogram: %w", err)
	}

	orderAmount, err := meter.Float64Histogram("storefront.order.amount",
		metric.WithDescription("Total amount of placed orders"),
		metric.WithUnit("{currency}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order amount histogram: %w", err)
	}

	return &OrderMetrics{
		ordersPlaced:  ordersPlaced,
		itemsPerOrder: itemsPerOrder,
		orderAmount:   orderAmount,
	}, nil
}

// EventTypes returns the event types this handler is interested in
func (m *OrderMetrics) EventTypes() []string {
	return []string{order.EventTypeOrderCreated}
}

// Handle records one placed order
func (m *OrderMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*order.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderCreated, event.EventType())
	}

	m.ordersPlaced.Add(ctx, 1)
	m.itemsPerOrder.Record(ctx, int64(len(created.Items)))
	m.orderAmount.Record(ctx, created.TotalAmount.InexactFloat64())
	return nil
}

var _ shared.EventHandler = (*OrderMetrics)(nil)
