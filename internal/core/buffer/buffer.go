// Package buffer defines the line-addressable text buffer the edit engine
// applies transactions against, plus an in-memory implementation used by
// the CLI and tests. The engine never touches a buffer outside these
// primitives.
package buffer

import "errors"

// Buffer errors.
var (
	// ErrInvalidRange indicates an operation references lines outside the
	// buffer.
	ErrInvalidRange = errors.New("range out of bounds")

	// ErrUnsortedOps indicates a transaction's operations are not ordered
	// bottom-up (non-increasing start line).
	ErrUnsortedOps = errors.New("operations must be ordered bottom-up")

	// ErrClosed indicates the buffer has been detached and refuses
	// further transactions.
	ErrClosed = errors.New("buffer is closed")

	// ErrDecorationNotFound indicates a decoration tag does not exist.
	ErrDecorationNotFound = errors.New("decoration not found")
)

// RangeOp is a single range replacement. StartLine is 1-indexed. LineCount
// existing lines starting at StartLine are replaced by Lines; a LineCount
// of 0 inserts Lines after StartLine without consuming anything. Nil Lines
// with a positive LineCount is a pure deletion.
type RangeOp struct {
	StartLine int
	LineCount int
	Lines     []string
}

// Transaction is an atomic group of range operations applied as one
// indivisible step, labeled for undo grouping and test assertions.
// Operations must be ordered bottom-up (non-increasing StartLine) so each
// op's pre-transaction coordinates stay valid as earlier ops mutate lines
// below it.
type Transaction struct {
	Label string
	Ops   []RangeOp
}

// LiveBuffer is the boundary contract for the editing widget's document
// buffer: line access, one atomic multi-range apply, and tag-keyed
// decorations for inline markers.
type LiveBuffer interface {
	// LineCount returns the current number of lines.
	LineCount() int

	// Line returns the content of the 1-indexed line n.
	Line(n int) (string, error)

	// Text returns the full buffer content.
	Text() string

	// Apply commits all of tx's operations as one atomic step. On error
	// the buffer is unchanged.
	Apply(tx Transaction) error

	// SetDecoration anchors a marker with the given tag at a line,
	// replacing any existing marker with that tag.
	SetDecoration(tag string, line int) error

	// RemoveDecoration removes the marker with the given tag. Returns
	// ErrDecorationNotFound if absent.
	RemoveDecoration(tag string) error

	// Decorations returns a snapshot of tag to anchor line.
	Decorations() map[string]int
}
