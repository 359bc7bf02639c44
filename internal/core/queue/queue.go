// Package queue owns the pending line edits for one open document. A
// Session is constructed when the document opens and torn down when it
// closes; there is no ambient global queue. The UI sees a bounded visible
// window over the full backlog, refilled in arrival order as edits resolve.
package queue

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/redline/internal/core/edit"
	"github.com/colonyops/redline/internal/core/eventbus"
	"github.com/colonyops/redline/internal/core/logging"
	"github.com/colonyops/redline/pkg/randid"
)

// DefaultWindowSize is how many pending edits the UI-facing window exposes
// when no size is configured.
const DefaultWindowSize = 5

// Queue errors.
var (
	// ErrDuplicateID indicates an enqueue attempted to reuse an id that
	// is already pending (or repeated within the batch). The batch is not
	// partially enqueued.
	ErrDuplicateID = errors.New("edit id already pending")

	// ErrNotFound indicates a resolve targeted an id that is not pending.
	ErrNotFound = errors.New("edit not pending")

	// ErrBadOutcome indicates a resolve outcome other than accepted or
	// rejected.
	ErrBadOutcome = errors.New("outcome must be accepted or rejected")
)

// Options configures a Session.
type Options struct {
	// WindowSize bounds the visible window. Defaults to DefaultWindowSize.
	WindowSize int

	// Bus, when set, receives queue change events.
	Bus *eventbus.EventBus
}

// Session holds all pending edits for one document. All methods are short,
// non-suspending critical sections behind one mutex, which serializes
// AcceptAll against Enqueue: nothing enqueued mid-operation is lost or
// double-applied.
type Session struct {
	id       string
	document string
	window   int
	bus      *eventbus.EventBus
	log      zerolog.Logger

	mu    sync.Mutex
	edits []edit.LineEdit
	ids   map[string]struct{}
}

// NewSession creates the edit queue for a document.
func NewSession(document string, opts Options) *Session {
	window := opts.WindowSize
	if window <= 0 {
		window = DefaultWindowSize
	}

	return &Session{
		id:       randid.Generate(8),
		document: document,
		window:   window,
		bus:      opts.Bus,
		log:      logging.Component("queue"),
		ids:      make(map[string]struct{}),
	}
}

// ID returns the session's handle.
func (s *Session) ID() string { return s.id }

// Document returns the path of the document this session owns.
func (s *Session) Document() string { return s.document }

// WindowSize returns the configured visible window bound.
func (s *Session) WindowSize() int { return s.window }

// Enqueue appends validated edits to the pending queue in arrival order.
// Ids are assigned where absent and checked for uniqueness; on any
// collision the whole batch is refused.
func (s *Session) Enqueue(edits []edit.LineEdit) error {
	if len(edits) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make([]edit.LineEdit, len(edits))
	seen := make(map[string]struct{}, len(edits))
	for i, e := range edits {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if _, dup := s.ids[e.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: %s repeated in batch", ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}
		e.Status = edit.StatusPending
		batch[i] = e
	}

	for _, e := range batch {
		s.ids[e.ID] = struct{}{}
	}
	s.edits = append(s.edits, batch...)

	s.log.Debug().
		Str("session_id", s.id).
		Int("count", len(batch)).
		Int("pending", len(s.edits)).
		Msg("edits enqueued")

	if s.bus != nil {
		s.bus.PublishEditsEnqueued(eventbus.EditsEnqueuedPayload{
			SessionID: s.id,
			Count:     len(batch),
			Pending:   len(s.edits),
		})
	}
	return nil
}

// TotalPending counts all pending edits queue-wide, not just the visible
// window.
func (s *Session) TotalPending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edits)
}

// VisibleEdits returns up to the window size of pending edits in arrival
// order. Resolving a visible edit promotes the next queued one.
func (s *Session) VisibleEdits() []edit.LineEdit {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := min(s.window, len(s.edits))
	out := make([]edit.LineEdit, n)
	copy(out, s.edits[:n])
	return out
}

// PendingSnapshot returns a copy of the entire pending queue in arrival
// order.
func (s *Session) PendingSnapshot() []edit.LineEdit {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]edit.LineEdit, len(s.edits))
	copy(out, s.edits)
	return out
}

// Resolve marks one pending edit accepted or rejected and removes it from
// the queue.
func (s *Session) Resolve(id string, outcome edit.Status) (edit.LineEdit, error) {
	return s.ResolveWith(id, outcome, nil)
}

// ResolveWith resolves one edit, invoking commit with the resolved edit
// before the queue mutates. If commit fails the edit stays pending, so a
// failed buffer apply can be retried. commit runs inside the session's
// critical section and must not suspend.
//
// When an accept commits, the remaining pending edits are rebased onto
// the post-apply document: anchors below the applied region shift by its
// net line delta. Pending anchors always address the current buffer, so
// single accepts can land in any order.
func (s *Session) ResolveWith(id string, outcome edit.Status, commit func(edit.LineEdit) error) (edit.LineEdit, error) {
	if outcome != edit.StatusAccepted && outcome != edit.StatusRejected {
		return edit.LineEdit{}, fmt.Errorf("%w: %q", ErrBadOutcome, outcome)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.edits {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return edit.LineEdit{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	resolved := s.edits[idx]
	resolved.Status = outcome

	if commit != nil {
		if err := commit(resolved); err != nil {
			return edit.LineEdit{}, err
		}
	}

	s.edits = append(s.edits[:idx], s.edits[idx+1:]...)
	delete(s.ids, id)

	if outcome == edit.StatusAccepted && commit != nil {
		for i, pending := range s.edits {
			s.edits[i] = pending.RebasedAfter(resolved)
		}
	}

	s.log.Debug().
		Str("session_id", s.id).
		Str("edit_id", id).
		Str("outcome", string(outcome)).
		Int("pending", len(s.edits)).
		Msg("edit resolved")

	if s.bus != nil {
		s.bus.PublishEditResolved(eventbus.EditResolvedPayload{
			SessionID: s.id,
			EditID:    id,
			Outcome:   string(outcome),
			Pending:   len(s.edits),
		})
	}
	return resolved, nil
}

// AcceptAll marks every pending edit accepted, clears the queue, and
// returns the accepted edits in arrival order.
func (s *Session) AcceptAll() ([]edit.LineEdit, error) {
	return s.AcceptAllWith(nil)
}

// AcceptAllWith atomically drains the queue: commit receives every pending
// edit marked accepted, and only if it succeeds is the queue cleared. On
// failure the queue is left exactly as it was, so the batch can be
// retried. commit runs inside the session's critical section and must not
// suspend; enqueues arriving concurrently wait until the drain finishes.
func (s *Session) AcceptAllWith(commit func([]edit.LineEdit) error) ([]edit.LineEdit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.edits) == 0 {
		return nil, nil
	}

	accepted := make([]edit.LineEdit, len(s.edits))
	for i, e := range s.edits {
		e.Status = edit.StatusAccepted
		accepted[i] = e
	}

	if commit != nil {
		if err := commit(accepted); err != nil {
			return nil, err
		}
	}

	count := len(s.edits)
	s.edits = nil
	s.ids = make(map[string]struct{})

	s.log.Info().
		Str("session_id", s.id).
		Int("count", count).
		Msg("queue drained by accept-all")

	if s.bus != nil {
		s.bus.PublishQueueCleared(eventbus.QueueClearedPayload{
			SessionID: s.id,
			Count:     count,
		})
	}
	return accepted, nil
}
