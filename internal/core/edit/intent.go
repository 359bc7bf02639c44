package edit

import "fmt"

// IntentTag classifies what kind of change a proposal batch is meant to
// make. The set is closed; unknown tags are rejected at config resolution.
type IntentTag string

// Known intent tags.
const (
	IntentFormatting IntentTag = "formatting"
	IntentRewrite    IntentTag = "rewrite"
	IntentStructure  IntentTag = "structure"
)

// LineRange is an inclusive 1-indexed line range scope hint.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end"   yaml:"end"`
}

// Contains reports whether the span falls entirely inside the range. Empty
// spans (insertion points) are judged by their anchor line.
func (r LineRange) Contains(s Span) bool {
	if s.Empty() {
		return r.Start <= s.Start && s.Start <= r.End
	}
	return r.Start <= s.Start && s.End <= r.End
}

// Intent restricts which proposed edits are acceptable. Produced once per
// request and read-only afterward.
type Intent struct {
	Tag IntentTag

	// AllowedTypes restricts edit types. Empty means all types allowed.
	AllowedTypes []Type

	// Scope, when set, restricts edits to the given line range.
	Scope *LineRange
}

// Allows checks an edit against the intent's type and scope restrictions.
// The returned reason is empty when the edit is allowed.
func (i Intent) Allows(e LineEdit) (bool, string) {
	if len(i.AllowedTypes) > 0 {
		ok := false
		for _, t := range i.AllowedTypes {
			if t == e.Type {
				ok = true
				break
			}
		}
		if !ok {
			return false, fmt.Sprintf("intent %q does not permit %s edits", i.Tag, e.Type)
		}
	}

	if i.Scope != nil && !i.Scope.Contains(e.Span()) {
		return false, fmt.Sprintf("edit falls outside the allowed range %d-%d", i.Scope.Start, i.Scope.End)
	}

	return true, ""
}
