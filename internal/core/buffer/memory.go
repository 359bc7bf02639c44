package buffer

import (
	"fmt"
	"strings"
	"sync"
)

// MemoryBuffer is an in-memory LiveBuffer. It records applied transactions
// so callers can assert on labels and operation grouping the way an
// editor's undo stack would observe them.
type MemoryBuffer struct {
	mu          sync.Mutex
	lines       []string
	decorations map[string]int
	history     []Transaction
	closed      bool
}

var _ LiveBuffer = (*MemoryBuffer)(nil)

// NewMemory creates a buffer holding the given text. The empty string is a
// single empty line.
func NewMemory(text string) *MemoryBuffer {
	return &MemoryBuffer{
		lines:       strings.Split(text, "\n"),
		decorations: make(map[string]int),
	}
}

// LineCount returns the current number of lines.
func (b *MemoryBuffer) LineCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Line returns the content of the 1-indexed line n.
func (b *MemoryBuffer) Line(n int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n < 1 || n > len(b.lines) {
		return "", fmt.Errorf("line %d: %w", n, ErrInvalidRange)
	}
	return b.lines[n-1], nil
}

// Text returns the full buffer content.
func (b *MemoryBuffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n")
}

// Apply validates every operation against the pre-transaction state and
// only then mutates, so a failing transaction leaves the buffer untouched.
func (b *MemoryBuffer) Apply(tx Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	orig := len(b.lines)
	prev := -1
	for i, op := range tx.Ops {
		if err := checkOp(op, orig); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		if prev >= 0 && op.StartLine > prev {
			return fmt.Errorf("op %d starts at line %d after line %d: %w", i, op.StartLine, prev, ErrUnsortedOps)
		}
		prev = op.StartLine
	}

	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	for _, op := range tx.Ops {
		lines = applyOp(lines, op)
	}

	b.lines = lines
	b.history = append(b.history, tx)
	return nil
}

func checkOp(op RangeOp, lineCount int) error {
	if op.LineCount < 0 {
		return fmt.Errorf("negative line count: %w", ErrInvalidRange)
	}

	if op.LineCount == 0 {
		// Insertion point after StartLine; 0 inserts at the very top.
		if op.StartLine < 0 || op.StartLine > lineCount {
			return fmt.Errorf("insert after line %d of %d: %w", op.StartLine, lineCount, ErrInvalidRange)
		}
		return nil
	}

	if op.StartLine < 1 || op.StartLine+op.LineCount-1 > lineCount {
		return fmt.Errorf("lines %d-%d of %d: %w", op.StartLine, op.StartLine+op.LineCount-1, lineCount, ErrInvalidRange)
	}
	return nil
}

func applyOp(lines []string, op RangeOp) []string {
	if op.LineCount == 0 && len(op.Lines) == 0 {
		return lines
	}

	// For insertions the consumed range is empty and begins after the
	// anchor line; for replace/delete it begins at it.
	start := op.StartLine
	if op.LineCount > 0 {
		start = op.StartLine - 1
	}
	end := start + op.LineCount

	out := make([]string, 0, len(lines)-op.LineCount+len(op.Lines))
	out = append(out, lines[:start]...)
	out = append(out, op.Lines...)
	out = append(out, lines[end:]...)
	return out
}

// SetDecoration anchors a marker at a line.
func (b *MemoryBuffer) SetDecoration(tag string, line int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if line < 1 || line > len(b.lines) {
		return fmt.Errorf("decoration %q at line %d: %w", tag, line, ErrInvalidRange)
	}
	b.decorations[tag] = line
	return nil
}

// RemoveDecoration removes the marker with the given tag.
func (b *MemoryBuffer) RemoveDecoration(tag string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.decorations[tag]; !ok {
		return fmt.Errorf("%q: %w", tag, ErrDecorationNotFound)
	}
	delete(b.decorations, tag)
	return nil
}

// Decorations returns a snapshot of tag to anchor line.
func (b *MemoryBuffer) Decorations() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]int, len(b.decorations))
	for tag, line := range b.decorations {
		out[tag] = line
	}
	return out
}

// Close detaches the buffer; subsequent Apply calls fail with ErrClosed.
func (b *MemoryBuffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// TransactionCount returns how many transactions have been committed.
func (b *MemoryBuffer) TransactionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.history)
}

// LastTransaction returns the most recently committed transaction.
func (b *MemoryBuffer) LastTransaction() (Transaction, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.history) == 0 {
		return Transaction{}, false
	}
	return b.history[len(b.history)-1], true
}
