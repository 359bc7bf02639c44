package edit

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch is returned when Validate receives no edits at all. A batch
// with only bad edits is not an error; an absent batch is a contract bug in
// the caller.
var ErrEmptyBatch = errors.New("edit batch is empty")

// Result partitions a validated batch. Accepted preserves the input order,
// which is the arrival order for display. It is not the application order.
type Result struct {
	Accepted   []LineEdit
	Violations []Violation
}

// Conflicts reports whether two edits collide: their consumed spans share a
// line, or one is an insertion anchored strictly inside the other's
// consumed region. Inserts at the boundary of a consumed span are fine, and
// two inserts never conflict (they stack deterministically by arrival).
func Conflicts(a, b LineEdit) bool {
	sa, sb := a.Span(), b.Span()

	switch {
	case !sa.Empty() && !sb.Empty():
		return sa.Overlaps(sb)
	case sa.Empty() && sb.Empty():
		return false
	}

	anchor, consumed := sa, sb
	if sb.Empty() {
		anchor, consumed = sb, sa
	}
	return consumed.Start <= anchor.Start && anchor.Start < consumed.End
}

// Validate checks a batch of proposed edits against the declared intent and
// the document snapshot, partitioning them into accepted edits and
// violations. Each edit is checked independently; the only cross-edit check
// is intra-batch range overlap, where the later-arriving edit loses.
//
// Validate is pure: same inputs, same partition. Malformed edits become
// violations, never errors.
func Validate(edits []LineEdit, intent Intent, snapshot string) (Result, error) {
	if len(edits) == 0 {
		return Result{}, ErrEmptyBatch
	}

	var res Result
	lineCount := LineCount(snapshot)

	for _, e := range edits {
		if v, bad := check(e, intent, lineCount); bad {
			res.Violations = append(res.Violations, v)
			continue
		}

		if prior, clash := firstConflict(res.Accepted, e); clash {
			res.Violations = append(res.Violations, Violation{
				Edit:   e,
				Kind:   ViolationOverlap,
				Reason: fmt.Sprintf("range collides with edit %s at line %d", prior.ID, prior.Line),
			})
			continue
		}

		e.Status = StatusPending
		res.Accepted = append(res.Accepted, e)
	}

	return res, nil
}

// Check decodes untrusted candidates and validates the survivors in one
// pass, merging decode and validation violations in arrival order. A
// batch with no candidates at all is ErrEmptyBatch; a batch where every
// candidate is malformed is not an error, just violations to report.
func Check(candidates []Candidate, intent Intent, snapshot string) (Result, error) {
	edits, violations := Decode(candidates)
	if len(edits) == 0 && len(violations) > 0 {
		return Result{Violations: violations}, nil
	}

	res, err := Validate(edits, intent, snapshot)
	if err != nil {
		return Result{}, err
	}
	res.Violations = append(violations, res.Violations...)
	return res, nil
}

func check(e LineEdit, intent Intent, lineCount int) (Violation, bool) {
	// A negative count would clamp to an empty span and sail past the
	// bounds checks, only to blow up the whole transaction at apply time.
	if e.Type != TypeInsert && e.OriginalLineCount < 0 {
		return Violation{
			Edit:   e,
			Kind:   ViolationMalformed,
			Reason: fmt.Sprintf("original line count %d is negative", e.OriginalLineCount),
		}, true
	}

	if e.Line < 1 {
		return Violation{
			Edit:   e,
			Kind:   ViolationOutOfBounds,
			Reason: fmt.Sprintf("line %d is before the start of the document", e.Line),
		}, true
	}

	if e.Line > lineCount {
		return Violation{
			Edit:   e,
			Kind:   ViolationOutOfBounds,
			Reason: fmt.Sprintf("line %d exceeds the document's %d lines", e.Line, lineCount),
		}, true
	}

	if span := e.Span(); !span.Empty() && span.End > lineCount {
		return Violation{
			Edit:   e,
			Kind:   ViolationOutOfBounds,
			Reason: fmt.Sprintf("lines %d-%d exceed the document's %d lines", span.Start, span.End, lineCount),
		}, true
	}

	// Bounds are checked before intent so out-of-document edits are always
	// reported as such, regardless of how permissive the intent is.
	if ok, reason := intent.Allows(e); !ok {
		return Violation{Edit: e, Kind: ViolationIntent, Reason: reason}, true
	}

	if e.Type != TypeDelete && e.Content == nil {
		return Violation{
			Edit:   e,
			Kind:   ViolationMissingContent,
			Reason: fmt.Sprintf("%s edit carries no content", e.Type),
		}, true
	}

	return Violation{}, false
}

func firstConflict(accepted []LineEdit, e LineEdit) (LineEdit, bool) {
	for _, prior := range accepted {
		if Conflicts(prior, e) {
			return prior, true
		}
	}
	return LineEdit{}, false
}
