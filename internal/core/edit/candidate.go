package edit

import "fmt"

// Candidate is the untrusted wire shape of a proposed edit as delivered by
// a proposal source. Nothing beyond JSON well-formedness is assumed; the
// structural checks happen in Decode and Validate before a candidate is
// trusted as a LineEdit.
type Candidate struct {
	ID                string  `json:"id"`
	Type              string  `json:"type"`
	Line              int     `json:"line"`
	Content           *string `json:"content"`
	OriginalLineCount *int    `json:"original_line_count"`
	Explanation       string  `json:"explanation"`
}

// IntentSpec is the wire shape of a batch's intent classification.
type IntentSpec struct {
	Tag   string     `json:"tag"`
	Scope *LineRange `json:"scope"`
}

// Batch is the wire shape of one proposal delivery: a set of candidate
// edits plus the intent they were produced under.
type Batch struct {
	Intent IntentSpec  `json:"intent"`
	Edits  []Candidate `json:"edits"`
}

// Decode converts untrusted candidates into typed LineEdits. Candidates
// whose shape cannot be represented become ViolationMalformed entries;
// they never abort the batch. OriginalLineCount defaults to 1 for
// replace/delete when omitted and is forced to 0 for inserts.
func Decode(candidates []Candidate) ([]LineEdit, []Violation) {
	edits := make([]LineEdit, 0, len(candidates))
	var violations []Violation

	for _, c := range candidates {
		typ := Type(c.Type)
		if !typ.Valid() {
			violations = append(violations, Violation{
				Edit:   LineEdit{ID: c.ID, Line: c.Line, Explanation: c.Explanation},
				Kind:   ViolationMalformed,
				Reason: fmt.Sprintf("unknown edit type %q", c.Type),
			})
			continue
		}

		e := LineEdit{
			ID:          c.ID,
			Type:        typ,
			Line:        c.Line,
			Content:     c.Content,
			Status:      StatusPending,
			Explanation: c.Explanation,
		}

		switch typ {
		case TypeInsert:
			e.OriginalLineCount = 0
		default:
			e.OriginalLineCount = 1
			if c.OriginalLineCount != nil {
				e.OriginalLineCount = *c.OriginalLineCount
			}
		}

		if e.OriginalLineCount < 0 {
			violations = append(violations, Violation{
				Edit:   e,
				Kind:   ViolationMalformed,
				Reason: fmt.Sprintf("original line count %d is negative", e.OriginalLineCount),
			})
			continue
		}

		if typ == TypeDelete && c.Content != nil && *c.Content != "" {
			violations = append(violations, Violation{
				Edit:   e,
				Kind:   ViolationMalformed,
				Reason: "delete edits must not carry content",
			})
			continue
		}

		if typ == TypeDelete {
			e.Content = nil
		}

		edits = append(edits, e)
	}

	return edits, violations
}
