// Package edit defines the line edit model: the shape of a single proposed
// change to a document, the intent classification that scopes a batch, and
// the validator that partitions untrusted proposals into accepted edits and
// violations.
package edit

import "strings"

// Type is the kind of modification an edit performs.
type Type string

// Supported edit types.
const (
	TypeInsert  Type = "insert"
	TypeReplace Type = "replace"
	TypeDelete  Type = "delete"
)

// Valid reports whether t is a known edit type.
func (t Type) Valid() bool {
	switch t {
	case TypeInsert, TypeReplace, TypeDelete:
		return true
	}
	return false
}

// Status tracks the lifecycle of a proposed edit.
type Status string

// Edit lifecycle states.
const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// LineEdit is a single proposed modification to a text document. Line is
// 1-indexed and refers to the document as it existed when the edit was
// proposed. The edit never compensates for siblings itself: batch
// application orders operations bottom-up, and the session rebases
// pending anchors when a single accept mutates the buffer.
type LineEdit struct {
	ID string

	Type Type

	// Line is the 1-indexed anchor line in the proposal-time snapshot.
	// Inserts place their content after this line.
	Line int

	// Content is the replacement or inserted text. May contain embedded
	// newlines, each producing an output line. Nil means the proposal
	// carried no content at all; an empty string is a legal single empty
	// line. Always nil for deletes.
	Content *string

	// OriginalLineCount is how many existing lines the edit consumes.
	// 1 by default for replace/delete, always 0 for insert. A delete with
	// a count of 0 is a legal no-op.
	OriginalLineCount int

	Status Status

	// Explanation is a human-readable rationale. Never used in logic.
	Explanation string
}

// Span is an inclusive range of consumed lines. End < Start means the span
// is empty (a pure insertion point).
type Span struct {
	Start int
	End   int
}

// Empty reports whether the span consumes no lines.
func (s Span) Empty() bool { return s.End < s.Start }

// Overlaps reports whether two non-empty spans share at least one line.
func (s Span) Overlaps(o Span) bool {
	if s.Empty() || o.Empty() {
		return false
	}
	return s.Start <= o.End && o.Start <= s.End
}

// Span returns the lines the edit consumes: [Line, Line+count-1] for
// replace/delete and the empty span [Line, Line-1] for insert. Used both
// for validation overlap checks and applier range computation.
func (e LineEdit) Span() Span {
	if e.Type == TypeInsert {
		return Span{Start: e.Line, End: e.Line - 1}
	}

	count := e.OriginalLineCount
	if count < 0 {
		count = 0
	}
	return Span{Start: e.Line, End: e.Line + count - 1}
}

// LineDelta returns the net change in document length the edit causes
// when applied: lines added minus lines consumed.
func (e LineEdit) LineDelta() int {
	consumed := 0
	if e.Type != TypeInsert && e.OriginalLineCount > 0 {
		consumed = e.OriginalLineCount
	}

	added := 0
	if e.Type != TypeDelete {
		added = len(e.ContentLines())
	}
	return added - consumed
}

// RebasedAfter returns e with its anchor shifted to account for applied,
// an edit already committed to the buffer. Both anchors refer to the same
// snapshot. Anchors at or above the applied region keep their numbers;
// anchors below it shift by the applied edit's net delta, so they keep
// naming the lines they were proposed against.
func (e LineEdit) RebasedAfter(applied LineEdit) LineEdit {
	delta := applied.LineDelta()
	if delta == 0 {
		return e
	}

	// Inserts put content after their anchor, so the anchor line itself
	// never moves.
	threshold := applied.Line
	if span := applied.Span(); !span.Empty() {
		threshold = span.End
	}

	if e.Line > threshold {
		e.Line += delta
	}
	return e
}

// ContentLines splits the edit's content on embedded newlines. Returns nil
// when the edit carries no content (deletes).
func (e LineEdit) ContentLines() []string {
	if e.Content == nil {
		return nil
	}
	return strings.Split(*e.Content, "\n")
}

// LineCount returns the number of lines in a document snapshot. The empty
// string counts as one empty line, matching how editors address buffers.
func LineCount(text string) int {
	return strings.Count(text, "\n") + 1
}
