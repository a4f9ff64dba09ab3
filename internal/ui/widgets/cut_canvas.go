package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SawPlan/internal/model"
)

// Panel colors, cycled for visual distinction.
var panelColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

var (
	colorWood     = color.NRGBA{R: 210, G: 180, B: 140, A: 255}
	colorDoneCut  = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
	colorLiveCut  = color.NRGBA{R: 255, G: 193, B: 7, A: 255}
	colorGhostCut = color.NRGBA{R: 120, G: 120, B: 120, A: 90}
)

const canvasMargin = 10

// CutCanvas draws a sheet with its panels and the cut sequence as played
// so far: finished cuts solid, the running cut partially, the rest faint.
type CutCanvas struct {
	widget.BaseWidget

	job       model.Job
	steps     []model.CutStep
	current   int     // index of the running cut, -1 before playback
	progress  float64 // fraction of the running cut done
	maxWidth  float32
	maxHeight float32
}

func NewCutCanvas(maxW, maxH float32) *CutCanvas {
	cc := &CutCanvas{current: -1, maxWidth: maxW, maxHeight: maxH}
	cc.ExtendBaseWidget(cc)
	return cc
}

// SetJob replaces the job and its sequence and resets playback state.
func (cc *CutCanvas) SetJob(job model.Job, steps []model.CutStep) {
	cc.job = job
	cc.steps = steps
	cc.current = -1
	cc.progress = 0
	cc.Refresh()
}

// SetProgress marks cut index as running at the given fraction. Every cut
// before index is drawn as finished.
func (cc *CutCanvas) SetProgress(index int, progress float64) {
	cc.current = index
	cc.progress = progress
	cc.Refresh()
}

// ShowAll marks every cut as finished.
func (cc *CutCanvas) ShowAll() {
	cc.SetProgress(len(cc.steps), 0)
}

func (cc *CutCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &cutCanvasRenderer{cc: cc}
	r.rebuild()
	return r
}

type cutCanvasRenderer struct {
	cc      *CutCanvas
	objects []fyne.CanvasObject
}

func (r *cutCanvasRenderer) rebuild() {
	r.objects = nil

	cc := r.cc
	sheet := cc.job.Sheet
	if sheet.Width <= 0 || sheet.Height <= 0 {
		r.objects = append(r.objects, canvas.NewText("Open a job to see its cut sequence.", color.Gray{Y: 120}))
		return
	}

	scale := fitScale(sheet.Width, sheet.Height, cc.maxWidth, cc.maxHeight, canvasMargin)
	at := func(x, y float64) fyne.Position {
		return fyne.NewPos(float32(x)*scale+canvasMargin, float32(y)*scale+canvasMargin)
	}
	canvasW := float32(sheet.Width) * scale
	canvasH := float32(sheet.Height) * scale

	bg := canvas.NewRectangle(colorWood)
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	bg.Move(at(0, 0))
	r.objects = append(r.objects, bg)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	border.Move(at(0, 0))
	r.objects = append(r.objects, border)

	for i, p := range cc.job.Panels {
		pw := float32(p.Width) * scale
		ph := float32(p.Height) * scale

		rect := canvas.NewRectangle(panelColors[i%len(panelColors)])
		rect.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		rect.StrokeWidth = 1
		rect.Resize(fyne.NewSize(pw, ph))
		rect.Move(at(p.X, p.Y))
		r.objects = append(r.objects, rect)

		if pw > 30 && ph > 16 {
			label := canvas.NewText(fmt.Sprintf("%s  %.0fx%.0f", p.ID, p.Width, p.Height), color.Black)
			label.TextSize = 10
			pos := at(p.X, p.Y)
			label.Move(fyne.NewPos(pos.X+3, pos.Y+2))
			r.objects = append(r.objects, label)
		}
	}

	for i, c := range cc.steps {
		switch {
		case i < cc.current:
			x1, y1, x2, y2 := c.Endpoints()
			r.addLine(at(x1, y1), at(x2, y2), colorDoneCut, 2)
		case i == cc.current:
			x1, y1, x2, y2 := c.Endpoints()
			r.addLine(at(x1, y1), at(x2, y2), colorGhostCut, 1)
			x1, y1, x2, y2 = visibleSegment(c, cc.progress)
			r.addLine(at(x1, y1), at(x2, y2), colorLiveCut, 3)
		default:
			x1, y1, x2, y2 := c.Endpoints()
			r.addLine(at(x1, y1), at(x2, y2), colorGhostCut, 1)
		}
	}
}

func (r *cutCanvasRenderer) addLine(from, to fyne.Position, col color.Color, width float32) {
	line := canvas.NewLine(col)
	line.StrokeWidth = width
	line.Position1 = from
	line.Position2 = to
	r.objects = append(r.objects, line)
}

func (r *cutCanvasRenderer) Layout(size fyne.Size)        {}
func (r *cutCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *cutCanvasRenderer) Destroy()                     {}
func (r *cutCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *cutCanvasRenderer) MinSize() fyne.Size {
	sheet := r.cc.job.Sheet
	if sheet.Width <= 0 || sheet.Height <= 0 {
		return fyne.NewSize(r.cc.maxWidth, r.cc.maxHeight)
	}
	scale := fitScale(sheet.Width, sheet.Height, r.cc.maxWidth, r.cc.maxHeight, canvasMargin)
	return fyne.NewSize(float32(sheet.Width)*scale+canvasMargin*2, float32(sheet.Height)*scale+canvasMargin*2)
}
