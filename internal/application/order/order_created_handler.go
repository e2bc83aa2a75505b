package order

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderCreatedHandler acknowledges order_created events.
// It only logs; whatever it returns never reaches the checkout that emitted the event.
type OrderCreatedHandler struct {
	logger *zap.Logger
}

// NewOrderCreatedHandler creates a new handler for order created events.
func NewOrderCreatedHandler(logger *zap.Logger) *OrderCreatedHandler {
	return &OrderCreatedHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderCreatedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderCreated}
}

// Handle logs the placed order
func (h *OrderCreatedHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	createdEvent, ok := event.(*order.OrderCreatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", order.EventTypeOrderCreated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderCreated, event.EventType())
	}

	h.logger.Info("Order created",
		zap.String("event_id", createdEvent.EventID().String()),
		zap.String("order_id", createdEvent.OrderID.String()),
		zap.String("customer_id", createdEvent.CustomerID.String()),
		zap.Int("items_count", len(createdEvent.Items)),
		zap.String("total_amount", createdEvent.TotalAmount.StringFixed(2)),
	)
	return nil
}

// Ensure OrderCreatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderCreatedHandler)(nil)
