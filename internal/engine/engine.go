// Package engine derives guillotine cut sequences for panels already nested
// onto a stock sheet.
//
// All functions are pure: every call allocates its own strips, cut lists and
// de-duplication set, so they are safe to call concurrently.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/SawPlan/internal/model"
)

// ErrPerPanelBatch is returned when per-panel mode is asked to isolate more
// than one panel in a single sequence.
var ErrPerPanelBatch = errors.New("per-panel mode isolates one panel at a time")

// DeriveCuts returns the ordered cut sequence for a sheet.
//
// Hierarchical modes run the strip deriver with the mode's primary axis.
// Per-panel mode accepts at most one panel; use PanelSequences for a whole
// sheet. An empty panel list yields an empty sequence.
func DeriveCuts(sheet model.Dimensions, panels []model.PanelPlacement, kerf float64, mode model.Mode) ([]model.CutStep, error) {
	if err := Validate(sheet, panels, kerf); err != nil {
		return nil, err
	}
	switch {
	case mode.Hierarchical():
		raw := DeriveHierarchicalCuts(sheet, panels, kerf, mode.PrimaryAxis())
		return Sequence(raw, kerf), nil
	case mode == model.ModePerPanel:
		if len(panels) == 0 {
			return []model.CutStep{}, nil
		}
		if len(panels) > 1 {
			return nil, fmt.Errorf("%w: got %d panels", ErrPerPanelBatch, len(panels))
		}
		return BuildSequenceForPanel(panels[0], sheet, kerf)
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidMode, mode)
	}
}

// DeriveJob runs DeriveCuts with the job's sheet, kerf and mode.
func DeriveJob(job model.Job) ([]model.CutStep, error) {
	mode := job.Mode
	if mode == "" {
		mode = model.DefaultSettings().Mode
	}
	return DeriveCuts(job.Sheet, job.Panels, job.Kerf, mode)
}

// BuildSequenceForPanel isolates a single panel with its four edge cuts.
func BuildSequenceForPanel(p model.PanelPlacement, sheet model.Dimensions, kerf float64) ([]model.CutStep, error) {
	if err := Validate(sheet, []model.PanelPlacement{p}, kerf); err != nil {
		return nil, err
	}
	return Sequence(DeriveFourEdgeCuts(sheet, p, kerf), kerf), nil
}

// PanelSequence is the independent per-panel cut sequence for one panel.
type PanelSequence struct {
	PanelID string          `json:"panel_id"`
	Steps   []model.CutStep `json:"steps"`
}

// PanelSequences builds one four-edge sequence per panel, in input order.
func PanelSequences(sheet model.Dimensions, panels []model.PanelPlacement, kerf float64) ([]PanelSequence, error) {
	if err := Validate(sheet, panels, kerf); err != nil {
		return nil, err
	}
	out := make([]PanelSequence, 0, len(panels))
	for _, p := range panels {
		out = append(out, PanelSequence{
			PanelID: p.ID,
			Steps:   Sequence(DeriveFourEdgeCuts(sheet, p, kerf), kerf),
		})
	}
	return out, nil
}

// Validate rejects sheets, kerfs and placements that are not finite or are
// negative. Zero-area panels are accepted; they simply produce no cuts.
func Validate(sheet model.Dimensions, panels []model.PanelPlacement, kerf float64) error {
	if !finite(sheet.Width) || sheet.Width <= 0 {
		return &model.InputError{Field: "sheet.width", Value: sheet.Width, Err: model.ErrInvalidSheet}
	}
	if !finite(sheet.Height) || sheet.Height <= 0 {
		return &model.InputError{Field: "sheet.height", Value: sheet.Height, Err: model.ErrInvalidSheet}
	}
	if !finite(kerf) || kerf < 0 {
		return &model.InputError{Field: "kerf", Value: kerf, Err: model.ErrInvalidKerf}
	}
	for _, p := range panels {
		fields := []struct {
			name  string
			value float64
			sized bool
		}{
			{"x", p.X, false},
			{"y", p.Y, false},
			{"width", p.Width, true},
			{"height", p.Height, true},
		}
		for _, f := range fields {
			if !finite(f.value) || (f.sized && f.value < 0) {
				return &model.InputError{Field: f.name, PanelID: p.ID, Value: f.value, Err: model.ErrInvalidPlacement}
			}
		}
	}
	return nil
}

// CutsTouching returns the orders of the cuts that run along one of the
// panel's edges and overlap it.
func CutsTouching(p model.PanelPlacement, steps []model.CutStep) []int {
	var orders []int
	for _, c := range steps {
		tol := c.Kerf + eps
		lo, hi := p.Start(c.Axis.Cross()), p.End(c.Axis.Cross())
		if math.Min(c.SpanEnd, hi)-math.Max(c.SpanStart, lo) <= eps {
			continue
		}
		if math.Abs(c.Pos-p.Start(c.Axis)) <= tol || math.Abs(c.Pos-p.End(c.Axis)) <= tol {
			orders = append(orders, c.Order)
		}
	}
	return orders
}
