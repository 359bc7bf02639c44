package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intptr(i int) *int { return &i }

func TestDecode(t *testing.T) {
	t.Run("defaults original line count", func(t *testing.T) {
		edits, violations := Decode([]Candidate{
			{ID: "r", Type: "replace", Line: 2, Content: strptr("x")},
			{ID: "d", Type: "delete", Line: 3},
			{ID: "i", Type: "insert", Line: 1, Content: strptr("y"), OriginalLineCount: intptr(7)},
		})

		require.Empty(t, violations)
		require.Len(t, edits, 3)

		assert.Equal(t, 1, edits[0].OriginalLineCount)
		assert.Equal(t, 1, edits[1].OriginalLineCount)
		// Inserts consume nothing no matter what the proposal claims.
		assert.Equal(t, 0, edits[2].OriginalLineCount)
	})

	t.Run("explicit count survives", func(t *testing.T) {
		edits, violations := Decode([]Candidate{
			{ID: "d", Type: "delete", Line: 2, OriginalLineCount: intptr(3)},
			{ID: "noop", Type: "delete", Line: 5, OriginalLineCount: intptr(0)},
		})

		require.Empty(t, violations)
		require.Len(t, edits, 2)
		assert.Equal(t, 3, edits[0].OriginalLineCount)
		assert.Equal(t, 0, edits[1].OriginalLineCount)
	})

	t.Run("unknown type becomes a violation", func(t *testing.T) {
		edits, violations := Decode([]Candidate{
			{ID: "bad", Type: "transmogrify", Line: 1},
			{ID: "ok", Type: "insert", Line: 1, Content: strptr("x")},
		})

		require.Len(t, edits, 1)
		assert.Equal(t, "ok", edits[0].ID)
		require.Len(t, violations, 1)
		assert.Equal(t, ViolationMalformed, violations[0].Kind)
	})

	t.Run("delete with content is malformed", func(t *testing.T) {
		edits, violations := Decode([]Candidate{
			{ID: "bad", Type: "delete", Line: 1, Content: strptr("leftover")},
		})

		assert.Empty(t, edits)
		require.Len(t, violations, 1)
		assert.Equal(t, ViolationMalformed, violations[0].Kind)
	})

	t.Run("negative count is malformed", func(t *testing.T) {
		edits, violations := Decode([]Candidate{
			{ID: "bad", Type: "delete", Line: 2, OriginalLineCount: intptr(-2)},
			{ID: "ok", Type: "replace", Line: 1, Content: strptr("x")},
		})

		require.Len(t, edits, 1)
		assert.Equal(t, "ok", edits[0].ID)
		require.Len(t, violations, 1)
		assert.Equal(t, ViolationMalformed, violations[0].Kind)
	})

	t.Run("statuses start pending", func(t *testing.T) {
		edits, _ := Decode([]Candidate{{ID: "e", Type: "insert", Line: 1, Content: strptr("x")}})
		require.Len(t, edits, 1)
		assert.Equal(t, StatusPending, edits[0].Status)
	})
}
