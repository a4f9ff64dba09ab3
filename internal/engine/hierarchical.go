package engine

import (
	"sort"

	"github.com/piwi3910/SawPlan/internal/model"
)

// DeriveHierarchicalCuts derives the cuts that isolate every panel in two
// layers. Primary cuts run along primary and span the whole sheet; they
// separate the strips from each other. Secondary cuts run along the cross
// axis inside each strip and their span is confined to that strip's band, so
// a cut that separates two panels in one strip never reaches into a
// neighbouring strip.
//
// Primary cuts are emitted before secondary cuts. Within each layer cuts are
// emitted in ascending coordinate order, strip by strip.
func DeriveHierarchicalCuts(sheet model.Dimensions, panels []model.PanelPlacement, kerf float64, primary model.Axis) []model.RawCut {
	panels = nonEmpty(panels)
	if len(panels) == 0 {
		return nil
	}
	strips := GroupIntoStrips(panels, sheet, primary)
	sort.SliceStable(strips, func(i, j int) bool {
		return strips[i].Start(primary) < strips[j].Start(primary)
	})

	cuts := newCutList(sheet, kerf)
	addPrimaryCuts(cuts, strips, primary)
	for _, s := range strips {
		addSecondaryCuts(cuts, s, primary)
	}
	return cuts.cuts
}

// addPrimaryCuts emits one full-span cut per distinct strip boundary.
func addPrimaryCuts(cuts *cutList, strips []model.Strip, primary model.Axis) {
	starts := make([]float64, len(strips))
	ends := make([]float64, len(strips))
	for i, s := range strips {
		starts[i] = s.Start(primary)
		ends[i] = s.End(primary)
	}

	cross := primary.Cross()
	sheet := cuts.sheet
	crossExtent := sheet.Extent(cross)
	for _, pos := range boundaries(starts, ends, cuts.kerf) {
		cuts.add(model.RawCut{
			Axis:      primary,
			Pos:       pos,
			SpanStart: 0,
			SpanEnd:   crossExtent,
			Before:    sheet,
			Result:    sliceOf(sheet, primary, pos),
		})
	}
}

// addSecondaryCuts separates the panels of one strip. The cut span covers
// only the strip's band along the primary axis.
func addSecondaryCuts(cuts *cutList, s model.Strip, primary model.Axis) {
	if len(s.Panels) == 0 {
		return
	}
	cross := primary.Cross()
	members := make([]model.PanelPlacement, len(s.Panels))
	copy(members, s.Panels)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Start(cross) < members[j].Start(cross)
	})

	starts := make([]float64, len(members))
	ends := make([]float64, len(members))
	for i, p := range members {
		starts[i] = p.Start(cross)
		ends[i] = p.End(cross)
	}

	// After the primary cuts the workpiece is the full-length band.
	band := bandOf(cuts.sheet, s, primary)
	spanStart, spanEnd := s.Start(primary), s.End(primary)
	for _, pos := range boundaries(starts, ends, cuts.kerf) {
		cuts.add(model.RawCut{
			Axis:      cross,
			Pos:       pos,
			SpanStart: spanStart,
			SpanEnd:   spanEnd,
			Before:    band,
			Result:    sliceOf(band, cross, pos),
		})
	}
}

// nonEmpty drops zero-area placements; they have no edges worth cutting.
func nonEmpty(panels []model.PanelPlacement) []model.PanelPlacement {
	out := make([]model.PanelPlacement, 0, len(panels))
	for _, p := range panels {
		if p.Width > 0 && p.Height > 0 {
			out = append(out, p)
		}
	}
	return out
}

// bandOf returns the dimensions of a strip once separated from the sheet:
// the strip's width along primary and the full sheet along the cross axis.
func bandOf(sheet model.Dimensions, s model.Strip, primary model.Axis) model.Dimensions {
	w := s.End(primary) - s.Start(primary)
	if primary == model.AxisX {
		return model.Dimensions{Width: w, Height: sheet.Height}
	}
	return model.Dimensions{Width: sheet.Width, Height: w}
}

// sliceOf returns the piece of workpiece lying below pos along axis.
func sliceOf(workpiece model.Dimensions, axis model.Axis, pos float64) model.Dimensions {
	if axis == model.AxisX {
		return model.Dimensions{Width: pos, Height: workpiece.Height}
	}
	return model.Dimensions{Width: workpiece.Width, Height: pos}
}
