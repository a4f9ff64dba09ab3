package engine

import (
	"fmt"

	"github.com/piwi3910/SawPlan/internal/model"
)

// Sequence turns raw cuts into the final ordered CutStep list. Reversed spans
// are normalised, non-finite and duplicate cuts are dropped, and every step
// gets a dense zero-based order, a "cut-<order>" ID and a label numbered from
// that order. The input order is kept as-is; ordering is decided by the
// deriver.
func Sequence(raw []model.RawCut, kerf float64) []model.CutStep {
	seen := make(map[cutKey]bool, len(raw))
	steps := make([]model.CutStep, 0, len(raw))
	for _, c := range raw {
		if !finite(c.Pos) || !finite(c.SpanStart) || !finite(c.SpanEnd) {
			continue
		}
		if c.SpanStart > c.SpanEnd {
			c.SpanStart, c.SpanEnd = c.SpanEnd, c.SpanStart
		}
		k := keyOf(c.Axis, c.Pos, c.SpanStart, c.SpanEnd)
		if seen[k] {
			continue
		}
		seen[k] = true

		order := len(steps)
		steps = append(steps, model.CutStep{
			ID:        fmt.Sprintf("cut-%d", order),
			Order:     order,
			Axis:      c.Axis,
			Pos:       c.Pos,
			SpanStart: c.SpanStart,
			SpanEnd:   c.SpanEnd,
			Before:    c.Before,
			Result:    c.Result,
			Kerf:      kerf,
			Label:     Label(c.Axis, c.Pos, order),
			Source:    model.SourceDerived,
		})
	}
	return steps
}

// Label returns the display label for the cut at position order.
// Horizontal lines are width (cross-grain) cuts, vertical lines are length
// (rip) cuts.
func Label(axis model.Axis, pos float64, order int) string {
	if axis == model.AxisY {
		return fmt.Sprintf("Cut %d: crosscut (width) at y=%.1f", order+1, pos)
	}
	return fmt.Sprintf("Cut %d: rip (length) at x=%.1f", order+1, pos)
}
