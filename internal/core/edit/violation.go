package edit

// ViolationKind identifies why a proposed edit was rejected.
type ViolationKind string

// Violation kinds. These are data, not errors: rejected proposals are a
// normal outcome of untrusted input.
const (
	// ViolationMalformed marks a candidate whose shape could not be
	// decoded into a typed edit (unknown type, content on a delete, a
	// negative line count).
	ViolationMalformed ViolationKind = "malformed"

	// ViolationOutOfBounds marks an edit referencing lines outside the
	// document snapshot.
	ViolationOutOfBounds ViolationKind = "out_of_bounds"

	// ViolationIntent marks an edit whose type or region conflicts with
	// the declared intent.
	ViolationIntent ViolationKind = "intent_violation"

	// ViolationMissingContent marks an insert/replace without content.
	ViolationMissingContent ViolationKind = "missing_content"

	// ViolationOverlap marks an edit whose range collides with an
	// earlier-arriving edit in the same batch.
	ViolationOverlap ViolationKind = "overlap_conflict"
)

// Violation records a rejected proposal together with the reason.
type Violation struct {
	Edit   LineEdit      `json:"edit"`
	Kind   ViolationKind `json:"kind"`
	Reason string        `json:"reason"`
}
