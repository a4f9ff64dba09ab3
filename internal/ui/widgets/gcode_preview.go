package widgets

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SawPlan/internal/gcode"
	"github.com/piwi3910/SawPlan/internal/model"
)

// Toolpath colors for different move types.
var (
	colorRapid   = color.NRGBA{R: 255, G: 60, B: 60, A: 200}   // Red for rapid moves
	colorFeed    = color.NRGBA{R: 30, G: 120, B: 255, A: 230}  // Blue for cutting moves
	colorPlunge  = color.NRGBA{R: 50, G: 200, B: 50, A: 220}   // Green for plunge
	colorRetract = color.NRGBA{R: 180, G: 180, B: 0, A: 180}   // Yellow for retract
	colorSheet   = color.NRGBA{R: 230, G: 210, B: 175, A: 255} // Light wood for stock
	colorPanel   = color.NRGBA{R: 200, G: 220, B: 255, A: 120} // Light blue for panel outlines
)

// GCodePreview renders the toolpath of a generated program over the sheet
// and its panel outlines.
type GCodePreview struct {
	widget.BaseWidget
	moves     []gcode.Move
	job       model.Job
	maxWidth  float32
	maxHeight float32
}

func NewGCodePreview(moves []gcode.Move, job model.Job, maxW, maxH float32) *GCodePreview {
	gp := &GCodePreview{
		moves:     moves,
		job:       job,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	gp.ExtendBaseWidget(gp)
	return gp
}

// CreateRenderer implements fyne.Widget.
func (gp *GCodePreview) CreateRenderer() fyne.WidgetRenderer {
	r := &gcodePreviewRenderer{gp: gp}
	r.rebuild()
	return r
}

type gcodePreviewRenderer struct {
	gp      *GCodePreview
	objects []fyne.CanvasObject
}

func (r *gcodePreviewRenderer) rebuild() {
	r.objects = nil

	gp := r.gp
	sheet := gp.job.Sheet
	if sheet.Width <= 0 || sheet.Height <= 0 {
		return
	}

	scale := fitScale(sheet.Width, sheet.Height, gp.maxWidth, gp.maxHeight, canvasMargin)
	at := func(x, y float64) fyne.Position {
		return fyne.NewPos(float32(x)*scale+canvasMargin, float32(y)*scale+canvasMargin)
	}

	bg := canvas.NewRectangle(colorSheet)
	bg.StrokeColor = color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	bg.StrokeWidth = 2
	bg.Resize(fyne.NewSize(float32(sheet.Width)*scale, float32(sheet.Height)*scale))
	bg.Move(at(0, 0))
	r.objects = append(r.objects, bg)

	for _, p := range gp.job.Panels {
		rect := canvas.NewRectangle(colorPanel)
		rect.StrokeColor = color.NRGBA{R: 100, G: 130, B: 180, A: 200}
		rect.StrokeWidth = 1.5
		rect.Resize(fyne.NewSize(float32(p.Width)*scale, float32(p.Height)*scale))
		rect.Move(at(p.X, p.Y))
		r.objects = append(r.objects, rect)
	}

	for _, m := range gp.moves {
		from := at(m.FromX, m.FromY)
		to := at(m.ToX, m.ToY)
		moved := m.XYLength() >= 0.01

		switch m.Type {
		case gcode.MoveRapid:
			if moved {
				r.addLine(from, to, colorRapid, 1)
				r.drawDashedOverlay(from, to)
			}
		case gcode.MoveFeed:
			if moved {
				r.addLine(from, to, colorFeed, 2)
			}
		case gcode.MovePlunge:
			r.addMarker(from, colorPlunge, 4)
		case gcode.MoveRetract:
			if moved {
				r.addLine(from, to, colorRetract, 1)
			} else {
				r.addMarker(from, colorRetract, 3)
			}
		}
	}
}

func (r *gcodePreviewRenderer) addLine(from, to fyne.Position, col color.Color, width float32) {
	line := canvas.NewLine(col)
	line.StrokeWidth = width
	line.Position1 = from
	line.Position2 = to
	r.objects = append(r.objects, line)
}

func (r *gcodePreviewRenderer) addMarker(at fyne.Position, col color.Color, size float32) {
	marker := canvas.NewCircle(col)
	marker.Resize(fyne.NewSize(size, size))
	marker.Move(fyne.NewPos(at.X-size/2, at.Y-size/2))
	r.objects = append(r.objects, marker)
}

// drawDashedOverlay cuts gaps into a rapid move line so it reads as dashed.
func (r *gcodePreviewRenderer) drawDashedOverlay(from, to fyne.Position) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 8 {
		return
	}

	const dashLen, gapLen = float32(6), float32(4)
	nx := dx / length
	ny := dy / length

	for cursor := dashLen; cursor+gapLen < length; cursor += dashLen + gapLen {
		r.addLine(
			fyne.NewPos(from.X+nx*cursor, from.Y+ny*cursor),
			fyne.NewPos(from.X+nx*(cursor+gapLen), from.Y+ny*(cursor+gapLen)),
			colorSheet, 2.5)
	}
}

func (r *gcodePreviewRenderer) Layout(size fyne.Size)        {}
func (r *gcodePreviewRenderer) Refresh()                     { r.rebuild() }
func (r *gcodePreviewRenderer) Destroy()                     {}
func (r *gcodePreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *gcodePreviewRenderer) MinSize() fyne.Size {
	sheet := r.gp.job.Sheet
	if sheet.Width <= 0 || sheet.Height <= 0 {
		return fyne.NewSize(100, 100)
	}
	scale := fitScale(sheet.Width, sheet.Height, r.gp.maxWidth, r.gp.maxHeight, canvasMargin)
	return fyne.NewSize(float32(sheet.Width)*scale+canvasMargin*2, float32(sheet.Height)*scale+canvasMargin*2)
}

// RenderGCodePreview parses a generated program and returns its toolpath
// preview above a one-line summary.
func RenderGCodePreview(job model.Job, code string) fyne.CanvasObject {
	preview := NewGCodePreview(gcode.Parse(code), job, 700, 450)
	s := gcode.Analyze(code)
	summary := widget.NewLabel(fmt.Sprintf(
		"%d feeds, %d plunges, %.0f mm cut, %.0f mm rapid, est. %s",
		s.Feeds, s.Plunges, s.FeedLength, s.RapidLength, s.CutTime.Round(time.Second)))
	return container.NewBorder(nil, summary, nil, nil, container.NewCenter(preview))
}
