package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Start(ctx)

	got := make(chan EditsEnqueuedPayload, 1)
	bus.SubscribeEditsEnqueued(func(p EditsEnqueuedPayload) {
		got <- p
	})

	bus.PublishEditsEnqueued(EditsEnqueuedPayload{SessionID: "s1", Count: 3, Pending: 3})

	select {
	case p := <-got:
		assert.Equal(t, "s1", p.SessionID)
		assert.Equal(t, 3, p.Count)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestEventBus_TypedRouting(t *testing.T) {
	bus := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Start(ctx)

	applied := make(chan BatchAppliedPayload, 1)
	bus.SubscribeBatchApplied(func(p BatchAppliedPayload) { applied <- p })

	resolved := make(chan EditResolvedPayload, 1)
	bus.SubscribeEditResolved(func(p EditResolvedPayload) { resolved <- p })

	bus.PublishBatchApplied(BatchAppliedPayload{AppliedIDs: []string{"a"}, Label: "l"})

	select {
	case p := <-applied:
		assert.Equal(t, []string{"a"}, p.AppliedIDs)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for batch applied")
	}

	select {
	case <-resolved:
		t.Fatal("resolved handler should not fire for batch applied")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_DropHook(t *testing.T) {
	bus := New()
	// Never started: the buffer fills and then drops.

	var dropped []Event
	bus.OnDrop(func(e Event, _ any) { dropped = append(dropped, e) })

	for range defaultBufferSize + 2 {
		bus.PublishQueueCleared(QueueClearedPayload{SessionID: "s1"})
	}

	require.Len(t, dropped, 2)
	assert.Equal(t, EventQueueCleared, dropped[0])
}

func TestEventBus_PanicIsolation(t *testing.T) {
	bus := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Start(ctx)

	panicked := make(chan any, 1)
	bus.OnPanic(func(_ Event, _ any, recovered any) { panicked <- recovered })

	survived := make(chan struct{}, 1)
	bus.SubscribeQueueCleared(func(QueueClearedPayload) { panic("boom") })
	bus.SubscribeQueueCleared(func(QueueClearedPayload) { survived <- struct{}{} })

	bus.PublishQueueCleared(QueueClearedPayload{SessionID: "s1"})

	select {
	case r := <-panicked:
		assert.Equal(t, "boom", r)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for panic hook")
	}

	select {
	case <-survived:
	case <-time.After(time.Second):
		t.Fatal("second subscriber did not run after first panicked")
	}
}
