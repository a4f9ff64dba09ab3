package dsl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/piwi3910/SawPlan/internal/dsl"
	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCut = `
# Closet carcass, 18mm birch
name "Closet carcass"
sheet 2440 x 1220
kerf 3.2
mode width-first   // rows first

panel side-left at 0, 0 size 600 x 1200
panel "2" at 603.2, 0 size 600 x 1200 rotated
panel shelf_1 at 1206.4, 0 size 400.5 x .5
`

func TestParseJob(t *testing.T) {
	job, err := dsl.ParseJob("closet.cut", strings.NewReader(sampleCut))
	require.NoError(t, err)

	assert.Equal(t, "Closet carcass", job.Name)
	assert.Equal(t, model.Dimensions{Width: 2440, Height: 1220}, job.Sheet)
	assert.Equal(t, 3.2, job.Kerf)
	assert.Equal(t, model.ModeWidthFirst, job.Mode)
	require.Len(t, job.Panels, 3)

	assert.Equal(t, model.PanelPlacement{ID: "side-left", X: 0, Y: 0, Width: 600, Height: 1200}, job.Panels[0])
	assert.Equal(t, "2", job.Panels[1].ID)
	assert.Equal(t, 603.2, job.Panels[1].X)
	assert.True(t, job.Panels[1].Rotated)
	assert.Equal(t, 400.5, job.Panels[2].Width)
	assert.Equal(t, 0.5, job.Panels[2].Height)
}

func TestParseJob_Defaults(t *testing.T) {
	job, err := dsl.ParseJob("", strings.NewReader("sheet 1000 x 500\n"))
	require.NoError(t, err)

	defaults := model.DefaultSettings()
	assert.Equal(t, defaults.KerfWidth, job.Kerf)
	assert.Equal(t, defaults.Mode, job.Mode)
	assert.Empty(t, job.Panels)
}

func TestParseJob_ModeAliases(t *testing.T) {
	job, err := dsl.ParseJob("", strings.NewReader("sheet 10 x 10\nmode per-panel"))
	require.NoError(t, err)
	assert.Equal(t, model.ModePerPanel, job.Mode)
}

func TestParseJob_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing sheet", "kerf 3\n", "no sheet"},
		{"sheet twice", "sheet 1 x 1\nsheet 2 x 2\n", "sheet given twice"},
		{"duplicate panel", "sheet 100 x 100\npanel a at 0, 0 size 1 x 1\npanel a at 5, 5 size 1 x 1\n", `duplicate panel "a"`},
		{"unknown mode", "sheet 100 x 100\nmode diagonal\n", "diagonal"},
		{"syntax", "sheet 100 by 100\n", "closet.cut"},
		{"unknown statement", "sheet 100 x 100\nblade 3\n", "closet.cut:2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dsl.ParseJob("closet.cut", strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := dsl.ParseJob("", strings.NewReader("sheet 1 x 1\nmode sideways\n"))
	assert.True(t, errors.Is(err, model.ErrInvalidMode))
	_, err = dsl.ParseJob("", strings.NewReader("kerf 1\n"))
	assert.True(t, errors.Is(err, model.ErrInvalidSheet))
}

func TestParseString_Statements(t *testing.T) {
	f, err := dsl.ParseString(sampleCut)
	require.NoError(t, err)
	require.Len(t, f.Statements, 7)
	assert.NotNil(t, f.Statements[0].Name)
	assert.NotNil(t, f.Statements[3].Mode)
	assert.Equal(t, 8, f.Statements[4].Pos.Line)
}

func TestFormatRoundTrip(t *testing.T) {
	job := model.Job{
		Name:  `Kitchen "base" units`,
		Sheet: model.Dimensions{Width: 2800, Height: 2070},
		Kerf:  4,
		Mode:  model.ModeLengthFirst,
		Panels: []model.PanelPlacement{
			{ID: "base-1", X: 0, Y: 0, Width: 720.5, Height: 560},
			{ID: "7f3a9c21", X: 724.5, Y: 0, Width: 720, Height: 560, Rotated: true},
			{ID: "at", X: 0, Y: 564, Width: 100, Height: 100},
			{ID: "with space", X: 200, Y: 564, Width: 100, Height: 100},
		},
	}

	text := dsl.Format(job)
	assert.Contains(t, text, "sheet 2800 x 2070\n")
	assert.Contains(t, text, `panel base-1 at 0, 0 size 720.5 x 560`)

	back, err := dsl.ParseJob("", strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, job, back)
}
