package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redline/internal/core/apply"
	"github.com/colonyops/redline/internal/core/buffer"
	"github.com/colonyops/redline/internal/core/edit"
	"github.com/colonyops/redline/internal/core/queue"
)

func newTestModel(t *testing.T, text string, edits []edit.LineEdit) (Model, *queue.Session, *buffer.MemoryBuffer) {
	t.Helper()

	buf := buffer.NewMemory(text)
	session := queue.NewSession("draft.md", queue.Options{WindowSize: 5})
	require.NoError(t, session.Enqueue(edits))

	m := New(Options{
		Session: session,
		Applier: apply.New(buf, nil),
		Buffer:  buf,
		Sync:    apply.NewDecorationSync(buf),
	})
	return m, session, buf
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_AcceptAppliesToBuffer(t *testing.T) {
	content := "patched"
	m, session, buf := newTestModel(t, "one\ntwo\nthree", []edit.LineEdit{
		{ID: "e1", Type: edit.TypeReplace, Line: 2, Content: &content, OriginalLineCount: 1, Status: edit.StatusPending},
	})

	m = update(m, keyPress('a'))

	assert.Equal(t, "one\npatched\nthree", buf.Text())
	assert.Zero(t, session.TotalPending())
	assert.Equal(t, 1, buf.TransactionCount())
}

func TestModel_RejectLeavesBufferUntouched(t *testing.T) {
	content := "patched"
	m, session, buf := newTestModel(t, "one\ntwo\nthree", []edit.LineEdit{
		{ID: "e1", Type: edit.TypeReplace, Line: 2, Content: &content, OriginalLineCount: 1, Status: edit.StatusPending},
	})

	m = update(m, keyPress('r'))

	assert.Equal(t, "one\ntwo\nthree", buf.Text())
	assert.Zero(t, session.TotalPending())
	assert.Zero(t, buf.TransactionCount())
}

func TestModel_AcceptAllIsOneTransaction(t *testing.T) {
	x := "X"
	zz := "ZZ"
	m, session, buf := newTestModel(t, "a\nb\nc\nd", []edit.LineEdit{
		{ID: "e1", Type: edit.TypeInsert, Line: 2, Content: &x, Status: edit.StatusPending},
		{ID: "e2", Type: edit.TypeReplace, Line: 4, Content: &zz, OriginalLineCount: 1, Status: edit.StatusPending},
		{ID: "e3", Type: edit.TypeDelete, Line: 1, OriginalLineCount: 1, Status: edit.StatusPending},
	})

	m = update(m, keyPress('A'))

	assert.Equal(t, "b\nX\nc\nZZ", buf.Text())
	assert.Zero(t, session.TotalPending())
	assert.Equal(t, 1, buf.TransactionCount())

	last, ok := buf.LastTransaction()
	require.True(t, ok)
	assert.Equal(t, apply.TxLabelAcceptAll, last.Label)
}

func TestModel_CursorNavigationClamps(t *testing.T) {
	content := "x"
	edits := []edit.LineEdit{
		{ID: "e1", Type: edit.TypeReplace, Line: 1, Content: &content, OriginalLineCount: 1, Status: edit.StatusPending},
		{ID: "e2", Type: edit.TypeReplace, Line: 2, Content: &content, OriginalLineCount: 1, Status: edit.StatusPending},
	}
	m, _, _ := newTestModel(t, "one\ntwo\nthree", edits)

	m = update(m, keyPress('k'))
	assert.Equal(t, 0, m.cursor, "up at top stays")

	m = update(m, keyPress('j'))
	assert.Equal(t, 1, m.cursor)

	m = update(m, keyPress('j'))
	assert.Equal(t, 1, m.cursor, "down at bottom stays")
}

func TestModel_DecorationsTrackVisibleEdits(t *testing.T) {
	content := "x"
	m, _, buf := newTestModel(t, "one\ntwo\nthree", []edit.LineEdit{
		{ID: "e1", Type: edit.TypeReplace, Line: 2, Content: &content, OriginalLineCount: 1, Status: edit.StatusPending},
	})

	decorations := buf.Decorations()
	assert.Equal(t, 2, decorations[apply.DecorationTag("e1")])

	m = update(m, keyPress('r'))
	_, ok := buf.Decorations()[apply.DecorationTag("e1")]
	assert.False(t, ok, "resolved edit loses its marker")
	_ = m
}

func TestModel_QuitSetsQuitting(t *testing.T) {
	m, _, _ := newTestModel(t, "one", nil)

	next, cmd := m.Update(keyPress('q'))
	assert.True(t, next.(Model).quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_SequentialAcceptsCompensate(t *testing.T) {
	zz := "ZZ"
	m, session, buf := newTestModel(t, "a\nb\nc\nd\ne", []edit.LineEdit{
		{ID: "del", Type: edit.TypeDelete, Line: 1, OriginalLineCount: 1, Status: edit.StatusPending},
		{ID: "rep", Type: edit.TypeReplace, Line: 4, Content: &zz, OriginalLineCount: 1, Status: edit.StatusPending},
	})

	// Accept top-down, one keypress per edit. The first accept shortens
	// the document; the second must still land on the proposed line.
	m = update(m, keyPress('a'))
	m = update(m, keyPress('a'))

	assert.Equal(t, "b\nc\nZZ\ne", buf.Text())
	assert.Zero(t, session.TotalPending())
	assert.Equal(t, 2, buf.TransactionCount())
}
