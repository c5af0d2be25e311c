package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []*ActivityEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *ActivityEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func testEvent() *ActivityEvent {
	return NewActivityEvent(uuid.New(), KindLevelUp, "Reached level 2", "", time.Now().UTC())
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("no handlers", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(logger)
		assert.NoError(t, emitter.EmitEvent(context.Background(), testEvent()))
	})

	t.Run("delivers to every handler", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(logger)
		h1, h2 := &recordingHandler{}, &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		event := testEvent()
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Same(t, event, h1.events[0])
		assert.Same(t, event, h2.events[0])
	})

	t.Run("keeps delivering after a failure and returns the first error", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(nil)
		first := errors.New("first")
		failing := &recordingHandler{err: first}
		alsoFailing := &recordingHandler{err: errors.New("second")}
		ok := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(alsoFailing)
		emitter.RegisterHandler(ok)

		err := emitter.EmitEvent(context.Background(), testEvent())
		assert.ErrorIs(t, err, first)
		assert.Equal(t, 1, ok.count())
	})

	t.Run("concurrent registration and emission", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(logger)
		h := &recordingHandler{}
		emitter.RegisterHandler(h)

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = emitter.EmitEvent(context.Background(), testEvent())
			}()
			go func() {
				defer wg.Done()
				emitter.RegisterHandler(&recordingHandler{})
			}()
		}
		wg.Wait()
		assert.Equal(t, 20, h.count())
	})
}
