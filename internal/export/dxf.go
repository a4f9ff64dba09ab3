package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/SawPlan/internal/model"
)

// DXF layer names. Coordinates are written unflipped so the file reads back
// through importer.ImportDXF at the same positions.
const (
	LayerSheet  = "SHEET"
	LayerPanels = "PANELS"
	LayerCuts   = "CUTS"
)

// ExportDXF writes the sheet outline, the panel outlines and every cut line
// to a DXF drawing, each on its own layer.
func ExportDXF(path string, job model.Job, steps []model.CutStep) error {
	if err := checkExportable(job, steps); err != nil {
		return err
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name string
		col  color.ColorNumber
	}{
		{LayerSheet, color.White},
		{LayerPanels, color.Cyan},
		{LayerCuts, color.Red},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.col, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	if err := d.ChangeLayer(LayerSheet); err != nil {
		return err
	}
	if err := rectangle(d, 0, 0, job.Sheet.Width, job.Sheet.Height); err != nil {
		return err
	}

	if err := d.ChangeLayer(LayerPanels); err != nil {
		return err
	}
	for _, p := range job.Panels {
		if p.Width <= 0 || p.Height <= 0 {
			continue
		}
		if err := rectangle(d, p.X, p.Y, p.Width, p.Height); err != nil {
			return fmt.Errorf("panel %q: %w", p.ID, err)
		}
	}

	if err := d.ChangeLayer(LayerCuts); err != nil {
		return err
	}
	for _, c := range steps {
		x1, y1, x2, y2 := c.Endpoints()
		if _, err := d.Line(x1, y1, 0, x2, y2, 0); err != nil {
			return fmt.Errorf("cut %s: %w", c.ID, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// rectangle draws a closed outline as four LINE entities.
func rectangle(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
