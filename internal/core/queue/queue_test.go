package queue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redline/internal/core/edit"
)

func pending(n int) []edit.LineEdit {
	content := "x"
	edits := make([]edit.LineEdit, n)
	for i := range n {
		edits[i] = edit.LineEdit{
			ID:                fmt.Sprintf("e%d", i+1),
			Type:              edit.TypeReplace,
			Line:              i + 1,
			Content:           &content,
			OriginalLineCount: 1,
		}
	}
	return edits
}

func TestSession_WindowDrain(t *testing.T) {
	s := NewSession("doc.md", Options{WindowSize: 5})
	require.NoError(t, s.Enqueue(pending(7)))

	assert.Equal(t, 7, s.TotalPending())
	require.Len(t, s.VisibleEdits(), 5)

	_, err := s.Resolve("e3", edit.StatusRejected)
	require.NoError(t, err)

	// The window refills from the backlog in arrival order.
	visible := s.VisibleEdits()
	require.Len(t, visible, 5)
	assert.Equal(t, 6, s.TotalPending())

	got := make([]string, len(visible))
	for i, e := range visible {
		got[i] = e.ID
	}
	assert.Equal(t, []string{"e1", "e2", "e4", "e5", "e6"}, got)
}

func TestSession_DefaultWindowSize(t *testing.T) {
	s := NewSession("doc.md", Options{})
	require.NoError(t, s.Enqueue(pending(9)))
	assert.Len(t, s.VisibleEdits(), DefaultWindowSize)
}

func TestSession_EnqueueDuplicate(t *testing.T) {
	t.Run("against pending queue", func(t *testing.T) {
		s := NewSession("doc.md", Options{})
		require.NoError(t, s.Enqueue(pending(2)))

		err := s.Enqueue(pending(3)) // e1..e3: e1 and e2 collide
		assert.ErrorIs(t, err, ErrDuplicateID)

		// Batch is all-or-nothing: e3 must not have slipped in.
		assert.Equal(t, 2, s.TotalPending())
	})

	t.Run("within one batch", func(t *testing.T) {
		s := NewSession("doc.md", Options{})
		batch := pending(2)
		batch[1].ID = batch[0].ID

		err := s.Enqueue(batch)
		assert.ErrorIs(t, err, ErrDuplicateID)
		assert.Equal(t, 0, s.TotalPending())
	})
}

func TestSession_EnqueueAssignsIDs(t *testing.T) {
	s := NewSession("doc.md", Options{})
	batch := pending(2)
	batch[0].ID = ""
	batch[1].ID = ""

	require.NoError(t, s.Enqueue(batch))

	visible := s.VisibleEdits()
	require.Len(t, visible, 2)
	assert.NotEmpty(t, visible[0].ID)
	assert.NotEmpty(t, visible[1].ID)
	assert.NotEqual(t, visible[0].ID, visible[1].ID)
}

func TestSession_Resolve(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		s := NewSession("doc.md", Options{})
		_, err := s.Resolve("ghost", edit.StatusAccepted)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid outcome", func(t *testing.T) {
		s := NewSession("doc.md", Options{})
		require.NoError(t, s.Enqueue(pending(1)))
		_, err := s.Resolve("e1", edit.StatusPending)
		assert.ErrorIs(t, err, ErrBadOutcome)
	})

	t.Run("returns the resolved edit", func(t *testing.T) {
		s := NewSession("doc.md", Options{})
		require.NoError(t, s.Enqueue(pending(2)))

		resolved, err := s.Resolve("e2", edit.StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, "e2", resolved.ID)
		assert.Equal(t, edit.StatusAccepted, resolved.Status)
	})
}

func TestSession_ResolveWith_CommitFailure(t *testing.T) {
	s := NewSession("doc.md", Options{})
	require.NoError(t, s.Enqueue(pending(2)))

	boom := errors.New("buffer detached")
	_, err := s.ResolveWith("e1", edit.StatusAccepted, func(edit.LineEdit) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, s.TotalPending(), "failed commit leaves the edit pending")
}

func TestSession_AcceptAll(t *testing.T) {
	s := NewSession("doc.md", Options{WindowSize: 3})
	require.NoError(t, s.Enqueue(pending(6)))

	accepted, err := s.AcceptAll()
	require.NoError(t, err)

	require.Len(t, accepted, 6)
	for i, e := range accepted {
		assert.Equal(t, fmt.Sprintf("e%d", i+1), e.ID, "arrival order preserved")
		assert.Equal(t, edit.StatusAccepted, e.Status)
	}

	assert.Equal(t, 0, s.TotalPending())
	assert.Empty(t, s.VisibleEdits())
}

func TestSession_AcceptAll_Empty(t *testing.T) {
	s := NewSession("doc.md", Options{})
	accepted, err := s.AcceptAll()
	require.NoError(t, err)
	assert.Nil(t, accepted)
}

func TestSession_AcceptAllWith_CommitFailure(t *testing.T) {
	s := NewSession("doc.md", Options{})
	require.NoError(t, s.Enqueue(pending(4)))

	boom := errors.New("transaction refused")
	_, err := s.AcceptAllWith(func([]edit.LineEdit) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, s.TotalPending(), "queue unchanged after failed commit, retry possible")
}

func TestSession_ReuseIDAfterResolve(t *testing.T) {
	s := NewSession("doc.md", Options{})
	require.NoError(t, s.Enqueue(pending(1)))

	_, err := s.Resolve("e1", edit.StatusRejected)
	require.NoError(t, err)

	// A resolved id leaves the pending set and may be proposed again.
	require.NoError(t, s.Enqueue(pending(1)))
	assert.Equal(t, 1, s.TotalPending())
}

func TestSession_ResolveWith_RebasesPending(t *testing.T) {
	s := NewSession("doc.md", Options{})
	require.NoError(t, s.Enqueue(pending(5)))

	t.Run("committed accept shifts anchors below the applied span", func(t *testing.T) {
		_, err := s.ResolveWith("e2", edit.StatusAccepted, func(resolved edit.LineEdit) error {
			return nil
		})
		require.NoError(t, err)

		lines := map[string]int{}
		for _, e := range s.PendingSnapshot() {
			lines[e.ID] = e.Line
		}
		// e2 was a one-for-one replace, so nothing moves.
		assert.Equal(t, map[string]int{"e1": 1, "e3": 3, "e4": 4, "e5": 5}, lines)
	})

	t.Run("a shrinking accept pulls later anchors up", func(t *testing.T) {
		s := NewSession("doc.md", Options{})
		edits := pending(3)
		edits[0].Type = edit.TypeDelete
		edits[0].Content = nil
		require.NoError(t, s.Enqueue(edits))

		_, err := s.ResolveWith("e1", edit.StatusAccepted, func(edit.LineEdit) error { return nil })
		require.NoError(t, err)

		for _, e := range s.PendingSnapshot() {
			switch e.ID {
			case "e2":
				assert.Equal(t, 1, e.Line)
			case "e3":
				assert.Equal(t, 2, e.Line)
			}
		}
	})

	t.Run("reject never rebases", func(t *testing.T) {
		s := NewSession("doc.md", Options{})
		edits := pending(2)
		edits[0].Type = edit.TypeDelete
		edits[0].Content = nil
		require.NoError(t, s.Enqueue(edits))

		_, err := s.Resolve("e1", edit.StatusRejected)
		require.NoError(t, err)

		snap := s.PendingSnapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, 2, snap[0].Line, "nothing was applied, anchors stand")
	})
}
