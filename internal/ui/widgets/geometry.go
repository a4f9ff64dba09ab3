package widgets

import "github.com/piwi3910/SawPlan/internal/model"

// fitScale returns the largest scale at which a w x h sheet fits inside
// maxW x maxH after leaving margin on every side. It never returns zero.
func fitScale(w, h float64, maxW, maxH, margin float32) float32 {
	if w <= 0 || h <= 0 {
		return 1
	}
	scaleX := (maxW - margin*2) / float32(w)
	scaleY := (maxH - margin*2) / float32(h)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	if scale <= 0 {
		scale = 1
	}
	return scale
}

// visibleSegment returns the part of a cut the blade has already travelled
// at the given progress. Progress is clamped to [0, 1].
func visibleSegment(c model.CutStep, progress float64) (x1, y1, x2, y2 float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	x1, y1, x2, y2 = c.Endpoints()
	return x1, y1, x1 + (x2-x1)*progress, y1 + (y2-y1)*progress
}
