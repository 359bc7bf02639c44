package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/redline/internal/core/apply"
	"github.com/colonyops/redline/internal/core/edit"
	"github.com/colonyops/redline/internal/core/styles"
)

const minDualPaneWidth = 80

// resize recomputes pane dimensions after a window size change.
func (m *Model) resize() {
	headerHeight := 2
	footerHeight := 2
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 3 {
		contentHeight = 3
	}

	docWidth := m.width - m.queuePaneWidth() - 4
	if docWidth < 20 {
		docWidth = 20
	}

	m.viewport.Width = docWidth
	m.viewport.Height = contentHeight
	m.viewport.SetContent(m.documentView())
}

func (m Model) queuePaneWidth() int {
	if m.width < minDualPaneWidth {
		return m.width
	}
	return int(float64(m.width) * 0.4)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	header := m.headerView()
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.queueView(),
		styles.PaneBorder.Render(m.viewport.View()),
	)
	footer := m.footerView()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) headerView() string {
	title := styles.Title.Render("redline review")
	counts := styles.Subtle.Render(fmt.Sprintf(
		"%s  %d pending, %d visible",
		m.session.Document(), m.session.TotalPending(), len(m.session.VisibleEdits()),
	))
	return title + "  " + counts
}

func (m Model) footerView() string {
	status := ""
	if m.status != "" {
		status = styles.StatusBar.Render(m.status)
	}
	return status + "\n" + m.help.View(m.keys)
}

// queueView renders the visible window of pending edits, with the
// selected edit's explanation rendered below the list.
func (m Model) queueView() string {
	visible := m.session.VisibleEdits()
	if len(visible) == 0 {
		return styles.PaneBorder.Render(styles.Subtle.Render("no pending edits"))
	}

	var b strings.Builder
	for i, e := range visible {
		mark, style := styles.EditMark(e.Type)
		line := fmt.Sprintf("%s %s line %d", style.Render(mark), e.Type, e.Line)
		if i == m.cursor {
			line = styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	selected := visible[m.cursor]
	if selected.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(m.renderExplanation(selected.Explanation))
	}

	width := m.queuePaneWidth() - 4
	if width < 10 {
		width = 10
	}
	return styles.PaneBorder.Width(width).Render(b.String())
}

func (m Model) renderExplanation(text string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return styles.Subtle.Render(text)
}

// documentView renders the buffer with line numbers and a marker column
// for lines that carry an edit decoration.
func (m Model) documentView() string {
	marked := map[int]edit.Type{}
	for _, e := range m.session.VisibleEdits() {
		marked[e.Line] = e.Type
	}
	if m.buf != nil {
		for tag, line := range m.buf.Decorations() {
			id, ok := apply.EditID(tag)
			if !ok {
				continue
			}
			for _, e := range m.session.VisibleEdits() {
				if e.ID == id {
					marked[line] = e.Type
				}
			}
		}
	}

	var b strings.Builder
	total := m.buf.LineCount()
	for n := 1; n <= total; n++ {
		gutter := " "
		if t, ok := marked[n]; ok {
			mark, style := styles.EditMark(t)
			gutter = style.Render(mark)
		}

		line, err := m.buf.Line(n)
		if err != nil {
			line = ""
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", styles.Subtle.Render(fmt.Sprintf("%4d", n)), gutter, line))
	}
	return b.String()
}
