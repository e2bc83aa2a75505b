package event

import (
	"context"
	"sync/atomic"

	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyStats counts outcomes of an IdempotentHandler
type IdempotencyStats struct {
	EventsProcessed int64 `json:"events_processed"`
	EventsDuplicate int64 `json:"events_duplicate"`
	EventsFailed    int64 `json:"events_failed"`
}

// IdempotentHandler runs the wrapped listener at most once per event ID for as
// long as the ID is remembered by the store. Redeliveries are acknowledged
// with a nil error.
type IdempotentHandler struct {
	next   shared.EventHandler
	store  shared.IdempotencyStore
	cfg    shared.IdempotencyConfig
	logger *zap.Logger

	processed, duplicate, failed atomic.Int64
}

func NewIdempotentHandler(next shared.EventHandler, store shared.IdempotencyStore, cfg shared.IdempotencyConfig, logger *zap.Logger) *IdempotentHandler {
	return &IdempotentHandler{next: next, store: store, cfg: cfg, logger: logger}
}

func (h *IdempotentHandler) EventTypes() []string {
	return h.next.EventTypes()
}

func (h *IdempotentHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if h.cfg.Enabled && !h.claim(ctx, ev) {
		h.duplicate.Add(1)
		return nil
	}

	if err := h.next.Handle(ctx, ev); err != nil {
		h.failed.Add(1)
		return err
	}
	h.processed.Add(1)
	return nil
}

// claim reports whether this delivery is the first for the event ID.
// When the store is unreachable the delivery is treated as first, so a
// notification may repeat but is never lost.
func (h *IdempotentHandler) claim(ctx context.Context, ev shared.DomainEvent) bool {
	id := ev.EventID().String()
	first, err := h.store.MarkProcessed(ctx, id, h.cfg.TTL)
	switch {
	case err != nil:
		h.logger.Warn("idempotency store unavailable, handling event anyway",
			zap.String("event_id", id),
			zap.String("event_type", ev.EventType()),
			zap.Error(err),
		)
		return true
	case !first:
		h.logger.Debug("skipping redelivered event",
			zap.String("event_id", id),
			zap.String("event_type", ev.EventType()),
		)
	}
	return first
}

func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		EventsProcessed: h.processed.Load(),
		EventsDuplicate: h.duplicate.Load(),
		EventsFailed:    h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
