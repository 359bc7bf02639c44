// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within redline. It replaces the reactive
// store the UI layer would otherwise poll: the queue and applier publish,
// surfaces subscribe.
package eventbus

// Event identifies an event type on the bus.
type Event string

// All event types.
const (
	// Keep list sorted A-Z
	EventBatchApplied  Event = "apply.batch-applied"
	EventEditResolved  Event = "queue.edit-resolved"
	EventEditsEnqueued Event = "queue.edits-enqueued"
	EventQueueCleared  Event = "queue.cleared"
)

// EditsEnqueuedPayload is emitted when edits join a session's pending queue.
type EditsEnqueuedPayload struct {
	SessionID string
	Count     int
	Pending   int
}

// EditResolvedPayload is emitted when a single pending edit is accepted or
// rejected.
type EditResolvedPayload struct {
	SessionID string
	EditID    string
	Outcome   string
	Pending   int
}

// QueueClearedPayload is emitted when accept-all drains a session's queue.
type QueueClearedPayload struct {
	SessionID string
	Count     int
}

// BatchAppliedPayload is emitted after a buffer transaction commits. The
// applier is session-agnostic, so the payload carries only what the
// transaction itself knows.
type BatchAppliedPayload struct {
	AppliedIDs []string
	Label      string
}
