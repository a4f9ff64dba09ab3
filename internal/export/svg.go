package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/piwi3910/SawPlan/internal/model"
)

// SVGOptions controls the diagram rendered by RenderSVG.
type SVGOptions struct {
	// Scale converts sheet millimetres to drawing millimetres. Zero selects a
	// scale that fits the longer sheet side into 300 mm.
	Scale float64
	// Step renders only the first Step cuts and highlights the last of them,
	// giving one frame of a step-by-step walkthrough. Zero renders every cut.
	Step int
}

var (
	sheetFill   = canvas.Hex("#D2B48C")
	panelStroke = canvas.Hex("#1E1E1E")
	ripStroke   = canvas.Hex("#C81E1E")
	crossStroke = canvas.Hex("#1E3CC8")
	activeCut   = canvas.Hex("#FFB300")
	transparent = color.RGBA{0, 0, 0, 0}
)

// ExportSVG renders the cut diagram into an SVG file.
func ExportSVG(path string, job model.Job, steps []model.CutStep, opts SVGOptions) (err error) {
	if err := checkExportable(job, steps); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return RenderSVG(f, job, steps, opts)
}

// RenderSVG draws the sheet, the panels and the cut lines to w. Rip cuts are
// red and crosscuts blue; with SVGOptions.Step set the newest cut is drawn in
// amber on top of the others.
func RenderSVG(w io.Writer, job model.Job, steps []model.CutStep, opts SVGOptions) error {
	if err := checkExportable(job, steps); err != nil {
		return err
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 300 / math.Max(job.Sheet.Width, job.Sheet.Height)
	}
	if opts.Step < 0 || opts.Step > len(steps) {
		return fmt.Errorf("step %d out of range 0..%d", opts.Step, len(steps))
	}
	visible := steps
	if opts.Step > 0 {
		visible = steps[:opts.Step]
	}

	width := job.Sheet.Width * scale
	height := job.Sheet.Height * scale
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(sheetFill)
	ctx.SetStrokeColor(panelStroke)
	ctx.SetStrokeWidth(0.4)
	ctx.DrawPath(0, 0, canvas.Rectangle(width, height))

	ctx.SetStrokeWidth(0.25)
	for i, p := range job.Panels {
		if p.Width <= 0 || p.Height <= 0 {
			continue
		}
		col := panelColors[i%len(panelColors)]
		ctx.SetFillColor(color.RGBA{uint8(col.R), uint8(col.G), uint8(col.B), 255})
		ctx.DrawPath(p.X*scale, p.Y*scale, canvas.Rectangle(p.Width*scale, p.Height*scale))
	}

	ctx.SetFillColor(transparent)
	for i, cut := range visible {
		stroke := ripStroke
		if cut.Axis == model.AxisY {
			stroke = crossStroke
		}
		if opts.Step > 0 && i == len(visible)-1 {
			stroke = activeCut
		}
		ctx.SetStrokeColor(stroke)
		ctx.SetStrokeWidth(math.Max(cut.Kerf*scale, 0.3))

		x1, y1, x2, y2 := cut.Endpoints()
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo((x2-x1)*scale, (y2-y1)*scale)
		ctx.DrawPath(x1*scale, y1*scale, p)
	}

	writer := svg.New(w, width, height, nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return nil
}
