package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mapStore is an IdempotencyStore backed by a map
type mapStore struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newMapStore() *mapStore {
	return &mapStore{seen: make(map[string]bool)}
}

func (s *mapStore) MarkProcessed(_ context.Context, eventID string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.seen[eventID] {
		return false, nil
	}
	s.seen[eventID] = true
	return true, nil
}

func (s *mapStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[eventID], s.err
}

func (s *mapStore) Close() error { return nil }

func TestIdempotentHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("repeated delivery runs the handler once", func(t *testing.T) {
		inner := newTestHandler("order_created")
		h := NewIdempotentHandler(inner, newMapStore(), shared.IdempotencyConfig{Enabled: true, TTL: time.Hour}, zap.NewNop())
		event := newTestEvent("order_created")

		require.NoError(t, h.Handle(ctx, event))
		require.NoError(t, h.Handle(ctx, event))
		require.NoError(t, h.Handle(ctx, event))

		assert.Equal(t, 1, inner.count())
		assert.Equal(t, IdempotencyStats{EventsProcessed: 1, EventsDuplicate: 2}, h.Stats())
		assert.Equal(t, []string{"order_created"}, h.EventTypes())
	})

	t.Run("store failure still handles the event", func(t *testing.T) {
		inner := newTestHandler("order_created")
		store := newMapStore()
		store.err = errors.New("redis down")
		h := NewIdempotentHandler(inner, store, shared.IdempotencyConfig{Enabled: true, TTL: time.Hour}, zap.NewNop())

		require.NoError(t, h.Handle(ctx, newTestEvent("order_created")))
		assert.Equal(t, 1, inner.count())
	})

	t.Run("handler error is returned and counted", func(t *testing.T) {
		inner := newTestHandler("order_created")
		inner.err = errors.New("boom")
		h := NewIdempotentHandler(inner, newMapStore(), shared.IdempotencyConfig{Enabled: true, TTL: time.Hour}, zap.NewNop())

		assert.Error(t, h.Handle(ctx, newTestEvent("order_created")))
		assert.Equal(t, int64(1), h.Stats().EventsFailed)
	})

	t.Run("disabled passes every delivery through", func(t *testing.T) {
		inner := newTestHandler("order_created")
		h := NewIdempotentHandler(inner, newMapStore(), shared.IdempotencyConfig{Enabled: false}, zap.NewNop())
		event := newTestEvent("order_created")

		require.NoError(t, h.Handle(ctx, event))
		require.NoError(t, h.Handle(ctx, event))
		assert.Equal(t, 2, inner.count())
	})
}
