// Package apply converts accepted line edits into buffer range operations
// and commits them as one atomic transaction. Every edit's line number
// refers to the pre-batch document; applying from the bottom of the
// document upward keeps each reference valid, because edits below a line
// never shift the lines above it.
package apply

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/colonyops/redline/internal/core/buffer"
	"github.com/colonyops/redline/internal/core/edit"
	"github.com/colonyops/redline/internal/core/eventbus"
	"github.com/colonyops/redline/internal/core/logging"
)

// Transaction labels. One constant per operation class so undo grouping
// and tests can tell accept-all batches from incremental accepts.
const (
	TxLabelAcceptAll = "redline:accept-all"
	TxLabelAcceptOne = "redline:accept-edit"
)

// Apply errors.
var (
	// ErrOverlapConflict indicates two edits in the batch claim the same
	// lines. The whole batch is aborted; nothing is applied.
	ErrOverlapConflict = errors.New("edit ranges overlap")

	// ErrTransactionFailure indicates the buffer refused or failed the
	// atomic apply. Nothing is applied; queue state is untouched so the
	// batch can be retried.
	ErrTransactionFailure = errors.New("buffer transaction failed")
)

// Result reports a committed batch.
type Result struct {
	// AppliedIDs lists the applied edits in application (bottom-up)
	// order.
	AppliedIDs []string

	// TransactionLabel is the label the buffer transaction carried.
	TransactionLabel string
}

// Applier owns a session's buffer side: range computation, the atomic
// apply, and post-apply event emission.
type Applier struct {
	buf buffer.LiveBuffer
	bus *eventbus.EventBus
	log zerolog.Logger
}

// New creates an applier for a live buffer. bus may be nil.
func New(buf buffer.LiveBuffer, bus *eventbus.EventBus) *Applier {
	return &Applier{
		buf: buf,
		bus: bus,
		log: logging.Component("apply"),
	}
}

// ApplyBatch applies accepted edits as a single atomic accept-all
// transaction. An empty batch is a no-op and opens no transaction.
func (a *Applier) ApplyBatch(edits []edit.LineEdit) (Result, error) {
	return a.apply(edits, TxLabelAcceptAll)
}

// ApplyOne applies a single accepted edit under the incremental label.
func (a *Applier) ApplyOne(e edit.LineEdit) (Result, error) {
	return a.apply([]edit.LineEdit{e}, TxLabelAcceptOne)
}

func (a *Applier) apply(edits []edit.LineEdit, label string) (Result, error) {
	if len(edits) == 0 {
		return Result{}, nil
	}

	// Validation should have excluded overlaps already; a collision here
	// means the batch cannot be applied consistently, so fail whole.
	if i, j, clash := findConflict(edits); clash {
		return Result{}, fmt.Errorf(
			"%w: edits %s and %s both claim line %d; 0 of %d applied",
			ErrOverlapConflict, edits[i].ID, edits[j].ID, edits[j].Line, len(edits),
		)
	}

	ordered := sortForApply(edits)

	ops := make([]buffer.RangeOp, len(ordered))
	ids := make([]string, len(ordered))
	for i, e := range ordered {
		ops[i] = rangeOp(e)
		ids[i] = e.ID
	}

	tx := buffer.Transaction{Label: label, Ops: ops}
	if err := a.buf.Apply(tx); err != nil {
		a.log.Error().
			Err(err).
			Int("edits", len(edits)).
			Str("label", label).
			Msg("buffer refused transaction")
		return Result{}, fmt.Errorf("%w: %w (0 of %d edits applied)", ErrTransactionFailure, err, len(edits))
	}

	a.log.Info().
		Int("edits", len(ordered)).
		Str("label", label).
		Msg("batch applied")

	if a.bus != nil {
		a.bus.PublishBatchApplied(eventbus.BatchAppliedPayload{
			AppliedIDs: ids,
			Label:      label,
		})
	}

	return Result{AppliedIDs: ids, TransactionLabel: label}, nil
}

// sortForApply orders edits by anchor line descending, ties broken by
// arrival order. The ordering is what makes pre-batch line numbers safe to
// use verbatim: by the time an edit is applied, every already-applied edit
// sits below it.
func sortForApply(edits []edit.LineEdit) []edit.LineEdit {
	ordered := make([]edit.LineEdit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Line > ordered[j].Line
	})
	return ordered
}

func rangeOp(e edit.LineEdit) buffer.RangeOp {
	op := buffer.RangeOp{StartLine: e.Line}

	switch e.Type {
	case edit.TypeInsert:
		op.Lines = e.ContentLines()
	case edit.TypeReplace:
		op.LineCount = e.OriginalLineCount
		op.Lines = e.ContentLines()
	case edit.TypeDelete:
		op.LineCount = e.OriginalLineCount
	}
	return op
}

func findConflict(edits []edit.LineEdit) (int, int, bool) {
	for i := 0; i < len(edits); i++ {
		for j := i + 1; j < len(edits); j++ {
			if edit.Conflicts(edits[i], edits[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
