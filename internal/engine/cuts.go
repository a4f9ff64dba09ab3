package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/SawPlan/internal/model"
)

// eps absorbs float noise when comparing boundaries that were built by adding
// kerf offsets.
const eps = 1e-6

// cutKey identifies a cut after rounding to whole sheet units.
type cutKey struct {
	axis       model.Axis
	pos        int64
	start, end int64
}

func keyOf(axis model.Axis, pos, start, end float64) cutKey {
	return cutKey{
		axis:  axis,
		pos:   int64(math.Round(pos)),
		start: int64(math.Round(start)),
		end:   int64(math.Round(end)),
	}
}

// cutList accumulates accepted cuts for one derivation call.
type cutList struct {
	sheet model.Dimensions
	kerf  float64
	seen  map[cutKey]bool
	cuts  []model.RawCut
}

func newCutList(sheet model.Dimensions, kerf float64) *cutList {
	return &cutList{
		sheet: sheet,
		kerf:  kerf,
		seen:  make(map[cutKey]bool),
	}
}

// add accepts a candidate cut unless it lies within one kerf of the sheet
// edge, its span (clipped to the sheet) is no longer than one kerf, or an
// identical cut was already accepted.
func (l *cutList) add(c model.RawCut) bool {
	if !finite(c.Pos) || !finite(c.SpanStart) || !finite(c.SpanEnd) {
		return false
	}
	extent := l.sheet.Extent(c.Axis)
	if c.Pos <= l.kerf || c.Pos >= extent-l.kerf {
		return false
	}
	if c.SpanStart > c.SpanEnd {
		c.SpanStart, c.SpanEnd = c.SpanEnd, c.SpanStart
	}
	crossExtent := l.sheet.Extent(c.Axis.Cross())
	c.SpanStart = clamp(c.SpanStart, 0, crossExtent)
	c.SpanEnd = clamp(c.SpanEnd, 0, crossExtent)
	if c.SpanEnd-c.SpanStart <= l.kerf {
		return false
	}
	k := keyOf(c.Axis, c.Pos, c.SpanStart, c.SpanEnd)
	if l.seen[k] {
		return false
	}
	l.seen[k] = true
	l.cuts = append(l.cuts, c)
	return true
}

// boundaries returns the sorted start/end coordinates of intervals, dropping
// any coordinate within one kerf of the previous one: a single blade pass at
// the lower coordinate separates both neighbours.
func boundaries(starts, ends []float64, kerf float64) []float64 {
	all := make([]float64, 0, len(starts)+len(ends))
	all = append(all, starts...)
	all = append(all, ends...)
	sort.Float64s(all)

	var out []float64
	for _, v := range all {
		if len(out) > 0 && v-out[len(out)-1] <= kerf+eps {
			continue
		}
		out = append(out, v)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
