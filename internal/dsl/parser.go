// Package dsl reads and writes the plain-text .cut job format:
//
//	name "Closet carcass"
//	sheet 2440 x 1220
//	kerf 3.2
//	mode length-first
//	panel side-left at 0, 0 size 600 x 1200
//	panel "2" at 603.2, 0 size 600 x 1200 rotated
//
// Statements are separated by newlines. '#' and '//' start a comment that
// runs to the end of the line. The 'x' between two sizes must be surrounded
// by spaces.
package dsl

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/piwi3910/SawPlan/internal/model"
)

var (
	cutLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d*|\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_\-]*`},
		{Name: "Symbol", Pattern: `[,]`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(cutLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
		participle.Unquote("String"),
	)

	bareID = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)
)

// File is the root AST node of a .cut file.
type File struct {
	Statements []*Statement `parser:"Newline* ( @@ Newline* )*"`
}

// Statement is one line of a .cut file.
type Statement struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  *NameStmt      `parser:"  @@"`
	Sheet *SheetStmt     `parser:"| @@"`
	Kerf  *KerfStmt      `parser:"| @@"`
	Mode  *ModeStmt      `parser:"| @@"`
	Panel *PanelStmt     `parser:"| @@"`
}

type NameStmt struct {
	Value string `parser:"'name' @String"`
}

type SheetStmt struct {
	Width  float64 `parser:"'sheet' @Number"`
	Height float64 `parser:"'x' @Number"`
}

type KerfStmt struct {
	Value float64 `parser:"'kerf' @Number"`
}

type ModeStmt struct {
	Value string `parser:"'mode' @Ident"`
}

// PanelStmt places one panel: panel <id> at <x>, <y> size <w> x <h> [rotated].
type PanelStmt struct {
	ID      string  `parser:"'panel' ( @Ident | @String )"`
	X       float64 `parser:"'at' @Number ','"`
	Y       float64 `parser:"@Number"`
	Width   float64 `parser:"'size' @Number"`
	Height  float64 `parser:"'x' @Number"`
	Rotated bool    `parser:"@'rotated'?"`
}

// Parse parses .cut content from an io.Reader. filename is only used in
// error positions.
func Parse(filename string, r io.Reader) (*File, error) {
	return fileParser.Parse(filename, r)
}

// ParseString parses .cut content from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}

// ParseJob parses a .cut file and converts it to a job.
func ParseJob(filename string, r io.Reader) (model.Job, error) {
	f, err := Parse(filename, r)
	if err != nil {
		return model.Job{}, err
	}
	return f.Job()
}

// Job converts the parsed statements into a job. A sheet statement is
// required; kerf and mode default to DefaultSettings. Each setting may only be
// given once and panel IDs must be unique.
func (f *File) Job() (model.Job, error) {
	job := model.NewJob()
	job.Name = ""
	var sawSheet, sawKerf, sawMode, sawName bool
	ids := map[string]bool{}

	for _, st := range f.Statements {
		switch {
		case st.Name != nil:
			if sawName {
				return model.Job{}, fmt.Errorf("%s: name given twice", st.Pos)
			}
			sawName = true
			job.Name = st.Name.Value
		case st.Sheet != nil:
			if sawSheet {
				return model.Job{}, fmt.Errorf("%s: sheet given twice", st.Pos)
			}
			sawSheet = true
			job.Sheet = model.Dimensions{Width: st.Sheet.Width, Height: st.Sheet.Height}
		case st.Kerf != nil:
			if sawKerf {
				return model.Job{}, fmt.Errorf("%s: kerf given twice", st.Pos)
			}
			sawKerf = true
			job.Kerf = st.Kerf.Value
		case st.Mode != nil:
			if sawMode {
				return model.Job{}, fmt.Errorf("%s: mode given twice", st.Pos)
			}
			sawMode = true
			mode, ok := model.ParseMode(st.Mode.Value)
			if !ok {
				return model.Job{}, fmt.Errorf("%s: %w: %q", st.Pos, model.ErrInvalidMode, st.Mode.Value)
			}
			job.Mode = mode
		case st.Panel != nil:
			p := st.Panel
			if ids[p.ID] {
				return model.Job{}, fmt.Errorf("%s: duplicate panel %q", st.Pos, p.ID)
			}
			ids[p.ID] = true
			job.Panels = append(job.Panels, model.PanelPlacement{
				ID:      p.ID,
				X:       p.X,
				Y:       p.Y,
				Width:   p.Width,
				Height:  p.Height,
				Rotated: p.Rotated,
			})
		}
	}
	if !sawSheet {
		return model.Job{}, fmt.Errorf("%w: no sheet statement", model.ErrInvalidSheet)
	}
	return job, nil
}

// Format renders a job as .cut text that ParseJob reads back unchanged.
func Format(job model.Job) string {
	var b strings.Builder
	if job.Name != "" {
		fmt.Fprintf(&b, "name %s\n", strconv.Quote(job.Name))
	}
	fmt.Fprintf(&b, "sheet %s x %s\n", num(job.Sheet.Width), num(job.Sheet.Height))
	fmt.Fprintf(&b, "kerf %s\n", num(job.Kerf))
	if job.Mode != "" {
		fmt.Fprintf(&b, "mode %s\n", job.Mode)
	}
	if len(job.Panels) > 0 {
		b.WriteString("\n")
	}
	for _, p := range job.Panels {
		id := p.ID
		if !bareID.MatchString(id) || isKeyword(id) {
			id = strconv.Quote(id)
		}
		fmt.Fprintf(&b, "panel %s at %s, %s size %s x %s", id, num(p.X), num(p.Y), num(p.Width), num(p.Height))
		if p.Rotated {
			b.WriteString(" rotated")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isKeyword(s string) bool {
	switch s {
	case "name", "sheet", "kerf", "mode", "panel", "at", "size", "x", "rotated":
		return true
	}
	return false
}
