// Package gcode turns an ordered cut sequence into a program for a gantry
// saw or router and parses programs back for verification.
package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/SawPlan/internal/model"
)

// Generator produces GCode that traverses each cut line in sequence order.
type Generator struct {
	Settings model.CutSettings
	profile  model.GCodeProfile
}

// New returns a generator using the built-in profile named in settings.
func New(settings model.CutSettings) *Generator {
	return NewWithProfile(settings, model.GetProfile(settings.GCodeProfile))
}

// NewWithProfile returns a generator for an explicit, possibly custom, profile.
func NewWithProfile(settings model.CutSettings, profile model.GCodeProfile) *Generator {
	return &Generator{
		Settings: settings,
		profile:  profile,
	}
}

// Profile returns the post-processor profile in use.
func (g *Generator) Profile() model.GCodeProfile {
	return g.profile
}

// Generate produces the program for a job's cut sequence. Every cut is run
// along its full span, extended by Settings.Overrun at both ends, in as many
// passes as CutDepth/PassDepth requires. The tool retracts to SafeZ between
// passes and between cuts.
func (g *Generator) Generate(job model.Job, steps []model.CutStep) string {
	var b strings.Builder

	g.writeHeader(&b, job, steps)

	for _, c := range steps {
		g.writeCut(&b, c)
	}

	g.writeFooter(&b)
	return b.String()
}

func (g *Generator) writeHeader(b *strings.Builder, job model.Job, steps []model.CutStep) {
	p := g.profile
	stats := model.Stats(steps)

	name := job.Name
	if name == "" {
		name = "Untitled"
	}
	b.WriteString(g.comment(fmt.Sprintf("SawPlan GCode: %s", name)))
	b.WriteString(g.comment(fmt.Sprintf("Sheet: %.1f x %.1f mm, kerf %.1f mm, mode %s",
		job.Sheet.Width, job.Sheet.Height, job.Kerf, job.Mode)))
	b.WriteString(g.comment(fmt.Sprintf("Cuts: %d (%d rip, %d crosscut), cut length %.1f mm",
		stats.Cuts, stats.LengthCuts, stats.WidthCuts, stats.TotalLength)))
	b.WriteString(g.comment(fmt.Sprintf("Feed: %.0f mm/min, Plunge: %.0f mm/min",
		g.Settings.FeedRate, g.Settings.PlungeRate)))
	b.WriteString(g.comment(fmt.Sprintf("Depth: %.1fmm in %d pass(es), overrun %.1fmm",
		g.Settings.CutDepth, g.passes(), g.Settings.Overrun)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}

	if p.SpindleStart != "" {
		b.WriteString(fmt.Sprintf(p.SpindleStart+"\n", g.Settings.SpindleSpeed))
	}

	// Lift before the first XY move
	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(0), g.format(0)))

	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString(g.comment("=== Job complete ==="))

	if p.SpindleStop != "" {
		b.WriteString(p.SpindleStop + "\n")
	}

	for _, code := range p.EndCode {
		code = strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ))
		b.WriteString(code + "\n")
	}
}

// writeCut emits every pass of one cut line.
func (g *Generator) writeCut(b *strings.Builder, c model.CutStep) {
	p := g.profile
	x1, y1, x2, y2 := g.extend(c)

	b.WriteString(g.comment(fmt.Sprintf("--- %s (%.1f mm) ---", c.Label, c.Length())))

	numPasses := g.passes()
	for pass := 1; pass <= numPasses; pass++ {
		depth := g.passDepth(pass)

		if numPasses > 1 {
			b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", pass, numPasses, depth)))
		}

		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(x1), g.format(y1)))
		b.WriteString(fmt.Sprintf("%s Z%s F%s\n", p.FeedMove, g.format(-depth), g.format(g.Settings.PlungeRate)))
		b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", p.FeedMove, g.format(x2), g.format(y2), g.format(g.Settings.FeedRate)))
		b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	}

	b.WriteString("\n")
}

// extend returns the cut's endpoints pushed outward by the overrun.
func (g *Generator) extend(c model.CutStep) (x1, y1, x2, y2 float64) {
	x1, y1, x2, y2 = c.Endpoints()
	o := math.Max(g.Settings.Overrun, 0)
	if c.Axis == model.AxisX {
		return x1, y1 - o, x2, y2 + o
	}
	return x1 - o, y1, x2 + o, y2
}

// passes returns the number of depth passes per cut, at least one.
func (g *Generator) passes() int {
	if g.Settings.PassDepth <= 0 || g.Settings.CutDepth <= 0 {
		return 1
	}
	return int(math.Ceil(g.Settings.CutDepth / g.Settings.PassDepth))
}

// passDepth returns the depth reached on the given 1-based pass.
func (g *Generator) passDepth(pass int) float64 {
	if g.Settings.PassDepth <= 0 {
		return g.Settings.CutDepth
	}
	return math.Min(float64(pass)*g.Settings.PassDepth, g.Settings.CutDepth)
}

// comment wraps text in the profile's comment syntax. Parenthesised
// comments cannot nest, so inner parentheses become brackets.
func (g *Generator) comment(text string) string {
	if g.profile.CommentSuffix == ")" {
		text = strings.NewReplacer("(", "[", ")", "]").Replace(text)
	}
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.DecimalPlaces)
	return fmt.Sprintf(format, v)
}
