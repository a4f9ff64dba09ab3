package engine

import "github.com/piwi3910/SawPlan/internal/model"

// DeriveFourEdgeCuts returns up to four full-sheet cuts along the edges of a
// single placement, always in the order bottom (y = Y), top (y = Y+Height),
// left (x = X), right (x = X+Width). Edges within one kerf of the sheet
// boundary are skipped.
//
// The cuts ignore every other panel on the sheet, so this is only valid for
// isolating one panel at a time.
func DeriveFourEdgeCuts(sheet model.Dimensions, p model.PanelPlacement, kerf float64) []model.RawCut {
	cuts := newCutList(sheet, kerf)
	addFourEdgeCuts(cuts, p)
	return cuts.cuts
}

func addFourEdgeCuts(cuts *cutList, p model.PanelPlacement) {
	if p.Width <= 0 || p.Height <= 0 {
		return
	}
	sheet := cuts.sheet
	edges := []struct {
		axis model.Axis
		pos  float64
	}{
		{model.AxisY, p.Y},
		{model.AxisY, p.Y + p.Height},
		{model.AxisX, p.X},
		{model.AxisX, p.X + p.Width},
	}
	for _, e := range edges {
		cuts.add(model.RawCut{
			Axis:      e.axis,
			Pos:       e.pos,
			SpanStart: 0,
			SpanEnd:   sheet.Extent(e.axis.Cross()),
			Before:    sheet,
			Result:    sliceOf(sheet, e.axis, e.pos),
		})
	}
}
