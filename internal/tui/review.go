// Package tui is the interactive review surface over an edit session: the
// visible window of pending edits on the left, the live document on the
// right, and accept/reject/accept-all keys driving the queue.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/colonyops/redline/internal/core/apply"
	"github.com/colonyops/redline/internal/core/buffer"
	"github.com/colonyops/redline/internal/core/edit"
	"github.com/colonyops/redline/internal/core/queue"
)

// Options configures the review model.
type Options struct {
	Session *queue.Session
	Applier *apply.Applier
	Buffer  buffer.LiveBuffer
	Sync    *apply.DecorationSync
}

// Model is the bubbletea model for reviewing pending edits.
type Model struct {
	session *queue.Session
	applier *apply.Applier
	buf     buffer.LiveBuffer
	sync    *apply.DecorationSync

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	cursor   int
	status   string
	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates the review model. The initial decoration state is
// reconciled immediately so markers are in place before the first frame.
func New(opts Options) Model {
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(60),
	)

	m := Model{
		session:  opts.Session,
		applier:  opts.Applier,
		buf:      opts.Buffer,
		sync:     opts.Sync,
		keys:     defaultKeyMap(),
		help:     help.New(),
		renderer: renderer,
	}
	m.reconcile()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.session.VisibleEdits())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Accept):
		m.resolveCurrent(edit.StatusAccepted)
		return m, nil

	case key.Matches(msg, m.keys.Reject):
		m.resolveCurrent(edit.StatusRejected)
		return m, nil

	case key.Matches(msg, m.keys.AcceptAll):
		m.acceptAll()
		return m, nil
	}

	return m, nil
}

func (m *Model) resolveCurrent(outcome edit.Status) {
	visible := m.session.VisibleEdits()
	if m.cursor >= len(visible) {
		return
	}
	target := visible[m.cursor]

	var err error
	if outcome == edit.StatusAccepted {
		_, err = m.session.ResolveWith(target.ID, outcome, func(resolved edit.LineEdit) error {
			_, applyErr := m.applier.ApplyOne(resolved)
			return applyErr
		})
	} else {
		_, err = m.session.Resolve(target.ID, outcome)
	}

	if err != nil {
		m.status = fmt.Sprintf("could not resolve %s: %v", target.ID, err)
		return
	}

	m.status = fmt.Sprintf("%s %s at line %d", outcome, target.Type, target.Line)
	m.reconcile()
}

func (m *Model) acceptAll() {
	total := m.session.TotalPending()
	accepted, err := m.session.AcceptAllWith(func(batch []edit.LineEdit) error {
		_, applyErr := m.applier.ApplyBatch(batch)
		return applyErr
	})
	if err != nil {
		m.status = fmt.Sprintf("accept all failed, %d edits still pending: %v", total, err)
		return
	}

	m.status = fmt.Sprintf("applied %d edits in one step", len(accepted))
	m.reconcile()
}

// reconcile refreshes decorations, the document pane, and the cursor
// after any queue or buffer change.
func (m *Model) reconcile() {
	visible := m.session.VisibleEdits()
	if m.sync != nil {
		_ = m.sync.Reconcile(visible)
	}

	if m.cursor >= len(visible) {
		m.cursor = max(len(visible)-1, 0)
	}

	m.viewport.SetContent(m.documentView())
}
