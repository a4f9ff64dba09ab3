// Package export writes derived cut sequences to files: a PDF cut sheet,
// QR-coded panel labels, an Excel cut list, DXF cut lines and SVG diagrams.
package export

import (
	"errors"
	"fmt"

	"github.com/piwi3910/SawPlan/internal/model"
)

// ErrNothingToExport is returned when a job has neither panels nor cuts.
var ErrNothingToExport = errors.New("nothing to export")

func checkExportable(job model.Job, steps []model.CutStep) error {
	if len(job.Panels) == 0 && len(steps) == 0 {
		return ErrNothingToExport
	}
	if job.Sheet.Width <= 0 || job.Sheet.Height <= 0 {
		return fmt.Errorf("%w: %.1f x %.1f", model.ErrInvalidSheet, job.Sheet.Width, job.Sheet.Height)
	}
	return nil
}

// cutKind names the saw operation a cut performs.
func cutKind(axis model.Axis) string {
	if axis == model.AxisY {
		return "Crosscut"
	}
	return "Rip"
}

func jobTitle(job model.Job) string {
	name := job.Name
	if name == "" {
		name = "Untitled"
	}
	return name
}
