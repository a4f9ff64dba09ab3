package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SawPlan/internal/engine"
	"github.com/piwi3910/SawPlan/internal/model"
)

// Sheet names used in the workbook written by ExportXLSX.
const (
	xlsxCutsSheet    = "Cuts"
	xlsxPanelsSheet  = "Panels"
	xlsxSummarySheet = "Summary"
)

var (
	cutHeader   = []interface{}{"#", "ID", "Type", "Axis", "Position", "Span Start", "Span End", "Length", "Workpiece W", "Workpiece H", "Result W", "Result H", "Kerf", "Label"}
	panelHeader = []interface{}{"ID", "X", "Y", "Width", "Height", "Rotated", "Cuts"}
)

// ExportXLSX writes the cut sequence to an Excel workbook with one sheet for
// the ordered cuts, one for the panels and one for job totals.
func ExportXLSX(path string, job model.Job, steps []model.CutStep) error {
	if err := checkExportable(job, steps); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", xlsxCutsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{xlsxPanelsSheet, xlsxSummarySheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeCutSheet(f, steps, headerStyle); err != nil {
		return err
	}
	if err := writePanelSheet(f, job, steps, headerStyle); err != nil {
		return err
	}
	if err := writeSummarySheet(f, job, steps, headerStyle); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeCutSheet(f *excelize.File, steps []model.CutStep, headerStyle int) error {
	if err := writeHeader(f, xlsxCutsSheet, cutHeader, headerStyle); err != nil {
		return err
	}
	for i, c := range steps {
		row := []interface{}{
			c.Order + 1, c.ID, cutKind(c.Axis), c.Axis.String(), c.Pos,
			c.SpanStart, c.SpanEnd, c.Length(),
			c.Before.Width, c.Before.Height, c.Result.Width, c.Result.Height,
			c.Kerf, c.Label,
		}
		if err := setRow(f, xlsxCutsSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(xlsxCutsSheet, "N", "N", 40); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

func writePanelSheet(f *excelize.File, job model.Job, steps []model.CutStep, headerStyle int) error {
	if err := writeHeader(f, xlsxPanelsSheet, panelHeader, headerStyle); err != nil {
		return err
	}
	for i, p := range job.Panels {
		orders := engine.CutsTouching(p, steps)
		nums := make([]int, len(orders))
		for j, o := range orders {
			nums[j] = o + 1
		}
		row := []interface{}{p.ID, p.X, p.Y, p.Width, p.Height, p.Rotated, joinInts(nums)}
		if err := setRow(f, xlsxPanelsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, job model.Job, steps []model.CutStep, headerStyle int) error {
	stats := model.Stats(steps)
	rows := [][]interface{}{
		{"Job", jobTitle(job)},
		{"Sheet Width (mm)", job.Sheet.Width},
		{"Sheet Height (mm)", job.Sheet.Height},
		{"Kerf (mm)", job.Kerf},
		{"Mode", string(job.Mode)},
		{"Panels", len(job.Panels)},
		{"Cuts", stats.Cuts},
		{"Rip Cuts", stats.LengthCuts},
		{"Crosscuts", stats.WidthCuts},
		{"Total Cut Length (mm)", stats.TotalLength},
		{"Efficiency (%)", job.Efficiency()},
	}
	for i, row := range rows {
		if err := setRow(f, xlsxSummarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(xlsxSummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}
	if err := f.SetColWidth(xlsxSummarySheet, "A", "A", 24); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []interface{}, style int) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header of %q: %w", sheet, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", row, sheet, err)
	}
	return nil
}
