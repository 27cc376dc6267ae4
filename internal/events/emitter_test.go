package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(t *testing.T, eventType string) *Event {
	t.Helper()
	event, err := NewEvent(eventType, map[string]string{"key": "value"})
	require.NoError(t, err)
	return event
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		assert.NoError(t, emitter.EmitEvent(context.Background(), newTestEvent(t, BatchRequested)))
	})

	t.Run("delivers to every handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		first, second := &MockEventHandler{}, &MockEventHandler{}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(second)

		event := newTestEvent(t, BatchRequested)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Equal(t, 1, first.HandledCount)
		assert.Equal(t, 1, second.HandledCount)
		assert.Same(t, event, first.LastEvent)
		assert.Same(t, event, second.LastEvent)
	})

	t.Run("filters by event type", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		batches, everything := &MockEventHandler{}, &MockEventHandler{}
		emitter.RegisterHandler(batches, BatchRequested)
		emitter.RegisterHandler(everything)

		require.NoError(t, emitter.EmitEvent(context.Background(), newTestEvent(t, "deck.rendered")))
		require.NoError(t, emitter.EmitEvent(context.Background(), newTestEvent(t, BatchRequested)))

		assert.Equal(t, 1, batches.HandledCount)
		assert.Equal(t, BatchRequested, batches.LastEvent.Type)
		assert.Equal(t, 2, everything.HandledCount)
	})

	t.Run("failing handler does not stop delivery", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		failing := &MockEventHandler{HandlerError: errors.New("handler error")}
		succeeding := &MockEventHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(succeeding)

		err := emitter.EmitEvent(context.Background(), newTestEvent(t, BatchRequested))

		assert.EqualError(t, err, "handler error")
		assert.Equal(t, 1, failing.HandledCount)
		assert.Equal(t, 1, succeeding.HandledCount)
	})

	t.Run("joined errors keep their identity", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		queueFull := errors.New("queue full")
		closed := errors.New("queue closed")
		emitter.RegisterHandler(&MockEventHandler{HandlerError: fmt.Errorf("submit: %w", queueFull)})
		emitter.RegisterHandler(&MockEventHandler{HandlerError: closed})

		event, err := NewBatchRequestEvent(BatchRequest{JobID: "job"})
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.ErrorIs(t, err, queueFull)
		assert.ErrorIs(t, err, closed)
	})
}
