package eventbus

import (
	"context"
	"sync"
)

const defaultBufferSize = 64

type envelope struct {
	event   Event
	payload any
}

// EventBus dispatches typed events to subscribers on a single background
// goroutine. Publishing never blocks: when the buffer is full the event is
// dropped and the OnDrop hooks fire.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates an event bus. Call Start to begin dispatching.
func New() *EventBus {
	return &EventBus{
		ch:   make(chan envelope, defaultBufferSize),
		subs: make(map[Event][]func(any)),
	}
}

// Start runs the dispatch loop until ctx is canceled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		bus.call(env, fn)
	}
}

func (bus *EventBus) call(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	fn(env.payload)
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

// SubscribeEditsEnqueued registers a handler for EventEditsEnqueued.
func (bus *EventBus) SubscribeEditsEnqueued(fn func(EditsEnqueuedPayload)) {
	bus.subscribe(EventEditsEnqueued, func(p any) { fn(p.(EditsEnqueuedPayload)) })
}

// PublishEditsEnqueued emits an EventEditsEnqueued event.
func (bus *EventBus) PublishEditsEnqueued(p EditsEnqueuedPayload) {
	bus.send(EventEditsEnqueued, p)
}

// SubscribeEditResolved registers a handler for EventEditResolved.
func (bus *EventBus) SubscribeEditResolved(fn func(EditResolvedPayload)) {
	bus.subscribe(EventEditResolved, func(p any) { fn(p.(EditResolvedPayload)) })
}

// PublishEditResolved emits an EventEditResolved event.
func (bus *EventBus) PublishEditResolved(p EditResolvedPayload) {
	bus.send(EventEditResolved, p)
}

// SubscribeQueueCleared registers a handler for EventQueueCleared.
func (bus *EventBus) SubscribeQueueCleared(fn func(QueueClearedPayload)) {
	bus.subscribe(EventQueueCleared, func(p any) { fn(p.(QueueClearedPayload)) })
}

// PublishQueueCleared emits an EventQueueCleared event.
func (bus *EventBus) PublishQueueCleared(p QueueClearedPayload) {
	bus.send(EventQueueCleared, p)
}

// SubscribeBatchApplied registers a handler for EventBatchApplied.
func (bus *EventBus) SubscribeBatchApplied(fn func(BatchAppliedPayload)) {
	bus.subscribe(EventBatchApplied, func(p any) { fn(p.(BatchAppliedPayload)) })
}

// PublishBatchApplied emits an EventBatchApplied event.
func (bus *EventBus) PublishBatchApplied(p BatchAppliedPayload) {
	bus.send(EventBatchApplied, p)
}
