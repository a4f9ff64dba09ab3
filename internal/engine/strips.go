package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/SawPlan/internal/model"
)

// stripOverlapRatio is the share of the smaller band interval two panels must
// overlap by (strictly) to be grouped into the same strip.
const stripOverlapRatio = 0.5

// GroupIntoStrips partitions placements into bands along the primary axis.
// With primary = AxisX the strips are columns (panels with similar x), with
// AxisY they are rows.
//
// This is a single-pass greedy heuristic: panels are visited in order of
// (primary coordinate, cross coordinate); each unassigned panel seeds a strip
// and absorbs every later unassigned panel whose band interval overlaps the
// seed's by more than half of the smaller interval. A panel stays in the first
// strip that claims it and is never re-evaluated against later strips.
func GroupIntoStrips(panels []model.PanelPlacement, sheet model.Dimensions, primary model.Axis) []model.Strip {
	if len(panels) == 0 {
		return nil
	}
	cross := primary.Cross()

	sorted := make([]model.PanelPlacement, len(panels))
	copy(sorted, panels)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].Start(primary), sorted[j].Start(primary)
		if pi != pj {
			return pi < pj
		}
		return sorted[i].Start(cross) < sorted[j].Start(cross)
	})

	assigned := make([]bool, len(sorted))
	var strips []model.Strip
	for i, seed := range sorted {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		members := []model.PanelPlacement{seed}
		for j := i + 1; j < len(sorted); j++ {
			if assigned[j] {
				continue
			}
			if bandsOverlap(seed, sorted[j], primary) {
				assigned[j] = true
				members = append(members, sorted[j])
			}
		}
		strips = append(strips, newStrip(members, sheet))
	}
	return strips
}

// bandsOverlap reports whether b overlaps a along axis by more than
// stripOverlapRatio of the smaller of the two extents.
func bandsOverlap(a, b model.PanelPlacement, axis model.Axis) bool {
	overlap := math.Min(a.End(axis), b.End(axis)) - math.Max(a.Start(axis), b.Start(axis))
	if overlap <= 0 {
		return false
	}
	smaller := math.Min(a.End(axis)-a.Start(axis), b.End(axis)-b.Start(axis))
	return overlap > stripOverlapRatio*smaller
}

// newStrip builds the union bounding box of members, clipped to the sheet.
func newStrip(members []model.PanelPlacement, sheet model.Dimensions) model.Strip {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for _, p := range members {
		x0 = math.Min(x0, p.X)
		y0 = math.Min(y0, p.Y)
		x1 = math.Max(x1, p.X+p.Width)
		y1 = math.Max(y1, p.Y+p.Height)
	}
	x0, x1 = clamp(x0, 0, sheet.Width), clamp(x1, 0, sheet.Width)
	y0, y1 = clamp(y0, 0, sheet.Height), clamp(y1, 0, sheet.Height)
	return model.Strip{
		X:      x0,
		Y:      y0,
		Width:  x1 - x0,
		Height: y1 - y0,
		Panels: members,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
