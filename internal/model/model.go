package model

import (
	"math"

	"github.com/google/uuid"
)

// Axis identifies the coordinate a straight cut line is fixed on.
type Axis string

const (
	AxisX Axis = "x" // Vertical cut line at x = Pos
	AxisY Axis = "y" // Horizontal cut line at y = Pos
)

// Cross returns the other axis.
func (a Axis) Cross() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

func (a Axis) String() string {
	return string(a)
}

// Mode selects how cuts are derived for a sheet.
type Mode string

const (
	ModeLengthFirst Mode = "length-first" // Column strips, vertical primary cuts
	ModeWidthFirst  Mode = "width-first"  // Row strips, horizontal primary cuts
	ModePerPanel    Mode = "per-panel"    // Four edge cuts per panel, no strips
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeLengthFirst, ModeWidthFirst, ModePerPanel}

// ParseMode maps a user supplied name to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "length-first", "length", "primary", "by-length":
		return ModeLengthFirst, true
	case "width-first", "width", "secondary", "by-width":
		return ModeWidthFirst, true
	case "per-panel", "panel", "legacy":
		return ModePerPanel, true
	}
	return "", false
}

// PrimaryAxis returns the axis of the strip-separating cuts for a hierarchical mode.
func (m Mode) PrimaryAxis() Axis {
	if m == ModeWidthFirst {
		return AxisY
	}
	return AxisX
}

// Hierarchical reports whether the mode uses strip decomposition.
func (m Mode) Hierarchical() bool {
	return m == ModeLengthFirst || m == ModeWidthFirst
}

// Dimensions is a width/height pair in sheet units.
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Extent returns the size along the given axis.
func (d Dimensions) Extent(a Axis) float64 {
	if a == AxisX {
		return d.Width
	}
	return d.Height
}

// PanelPlacement is a rectangle already nested onto a sheet.
type PanelPlacement struct {
	ID      string  `json:"id" yaml:"id"`
	X       float64 `json:"x" yaml:"x"`           // Offset from the left edge
	Y       float64 `json:"y" yaml:"y"`           // Offset from the top edge
	Width   float64 `json:"width" yaml:"width"`   // Extent along x
	Height  float64 `json:"height" yaml:"height"` // Extent along y
	Rotated bool    `json:"rotated,omitempty" yaml:"rotated,omitempty"`
}

// NewPanel returns a placement with a generated short ID.
func NewPanel(x, y, w, h float64) PanelPlacement {
	return PanelPlacement{
		ID:     uuid.New().String()[:8],
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
	}
}

// Start returns the low coordinate of the panel along an axis.
func (p PanelPlacement) Start(a Axis) float64 {
	if a == AxisX {
		return p.X
	}
	return p.Y
}

// End returns the high coordinate of the panel along an axis.
func (p PanelPlacement) End(a Axis) float64 {
	if a == AxisX {
		return p.X + p.Width
	}
	return p.Y + p.Height
}

// Area returns width times height.
func (p PanelPlacement) Area() float64 {
	return p.Width * p.Height
}

// Strip is a band of placements separated from its neighbours by primary cuts.
type Strip struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Panels []PanelPlacement
}

// Start returns the low coordinate of the strip along an axis.
func (s Strip) Start(a Axis) float64 {
	if a == AxisX {
		return s.X
	}
	return s.Y
}

// End returns the high coordinate of the strip along an axis.
func (s Strip) End(a Axis) float64 {
	if a == AxisX {
		return s.X + s.Width
	}
	return s.Y + s.Height
}

// SourceDerived marks cuts produced by the engine.
const SourceDerived = "derived"

// RawCut is a candidate cut before sequencing.
type RawCut struct {
	Axis      Axis
	Pos       float64
	SpanStart float64
	SpanEnd   float64
	Before    Dimensions
	Result    Dimensions
}

// Length returns the physical length of the cut.
func (c RawCut) Length() float64 {
	return math.Abs(c.SpanEnd - c.SpanStart)
}

// CutStep is one planned straight cut in the final sequence.
type CutStep struct {
	ID        string     `json:"id"`
	Order     int        `json:"order"`
	Axis      Axis       `json:"axis"`
	Pos       float64    `json:"pos"`
	SpanStart float64    `json:"span_start"`
	SpanEnd   float64    `json:"span_end"`
	Before    Dimensions `json:"before"`
	Result    Dimensions `json:"result"`
	Kerf      float64    `json:"kerf"`
	Label     string     `json:"label"`
	Source    string     `json:"source"`
}

// Length returns the physical length of the cut.
func (c CutStep) Length() float64 {
	return math.Abs(c.SpanEnd - c.SpanStart)
}

// Endpoints returns the start and end points of the cut line.
func (c CutStep) Endpoints() (x1, y1, x2, y2 float64) {
	if c.Axis == AxisX {
		return c.Pos, c.SpanStart, c.Pos, c.SpanEnd
	}
	return c.SpanStart, c.Pos, c.SpanEnd, c.Pos
}

// SequenceStats summarises an ordered cut list.
type SequenceStats struct {
	Cuts        int     `json:"cuts"`
	LengthCuts  int     `json:"length_cuts"` // Vertical lines (axis x)
	WidthCuts   int     `json:"width_cuts"`  // Horizontal lines (axis y)
	TotalLength float64 `json:"total_length"`
}

// Stats computes SequenceStats for a cut list.
func Stats(steps []CutStep) SequenceStats {
	var s SequenceStats
	for _, c := range steps {
		s.Cuts++
		s.TotalLength += c.Length()
		if c.Axis == AxisX {
			s.LengthCuts++
		} else {
			s.WidthCuts++
		}
	}
	return s
}

// Job ties a sheet and its nested panels together for derivation and save/load.
type Job struct {
	Name   string           `json:"name" yaml:"name"`
	Sheet  Dimensions       `json:"sheet" yaml:"sheet"`
	Kerf   float64          `json:"kerf" yaml:"kerf"`
	Mode   Mode             `json:"mode" yaml:"mode"`
	Panels []PanelPlacement `json:"panels" yaml:"panels"`
}

func NewJob() Job {
	s := DefaultSettings()
	return Job{
		Name:   "Untitled",
		Sheet:  Dimensions{Width: 2440, Height: 1220},
		Kerf:   s.KerfWidth,
		Mode:   s.Mode,
		Panels: []PanelPlacement{},
	}
}

// UsedArea returns the total area covered by panels.
func (j Job) UsedArea() float64 {
	var total float64
	for _, p := range j.Panels {
		total += p.Area()
	}
	return total
}

// Efficiency returns the usage percentage of the sheet.
func (j Job) Efficiency() float64 {
	ta := j.Sheet.Width * j.Sheet.Height
	if ta == 0 {
		return 0
	}
	return (j.UsedArea() / ta) * 100.0
}
