package apply

import (
	"strings"

	"github.com/colonyops/redline/internal/core/buffer"
	"github.com/colonyops/redline/internal/core/edit"
)

// decorationPrefix namespaces pending-edit markers among the buffer's
// decorations.
const decorationPrefix = "edit:"

// DecorationTag returns the buffer decoration tag for an edit id.
func DecorationTag(id string) string {
	return decorationPrefix + id
}

// EditID extracts the edit id from a decoration tag. The second return
// is false for tags outside the edit namespace.
func EditID(tag string) (string, bool) {
	id, ok := strings.CutPrefix(tag, decorationPrefix)
	return id, ok
}

// DecorationSync keeps the buffer's pending-edit markers consistent with
// the visible window: one marker per visible edit, none for anything
// resolved. Visual only; queue and buffer content never depend on it.
type DecorationSync struct {
	buf buffer.LiveBuffer
}

// NewDecorationSync creates a sync bound to a buffer.
func NewDecorationSync(buf buffer.LiveBuffer) *DecorationSync {
	return &DecorationSync{buf: buf}
}

// Reconcile rebuilds the marker set from the current visible window. Every
// edit-keyed marker not backing a visible edit is removed, so no stale
// decoration survives its edit's resolution.
func (d *DecorationSync) Reconcile(visible []edit.LineEdit) error {
	keep := make(map[string]struct{}, len(visible))
	for _, e := range visible {
		keep[DecorationTag(e.ID)] = struct{}{}
	}

	for tag := range d.buf.Decorations() {
		if !strings.HasPrefix(tag, decorationPrefix) {
			continue
		}
		if _, ok := keep[tag]; ok {
			continue
		}
		if err := d.buf.RemoveDecoration(tag); err != nil {
			return err
		}
	}

	lineCount := d.buf.LineCount()
	for _, e := range visible {
		line := e.Line
		if line < 1 {
			line = 1
		}
		if line > lineCount {
			line = lineCount
		}
		if err := d.buf.SetDecoration(DecorationTag(e.ID), line); err != nil {
			return err
		}
	}
	return nil
}
