package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SawPlan/internal/engine"
	"github.com/piwi3910/SawPlan/internal/model"
)

const testJob = `name "Test"
sheet 1000 x 500
kerf 3
mode length-first

# left column, then two stacked panels
panel A at 0, 0 size 400 x 500
panel B at 400, 0 size 600 x 250
panel C at 400, 250 size 600 x 250
`

// writeJob writes a .cut file and returns its path together with a config
// path inside the same temp dir.
func writeJob(t *testing.T, content string) (jobPath, cfgPath string) {
	t.Helper()
	dir := t.TempDir()
	jobPath = filepath.Join(dir, "test.cut")
	require.NoError(t, os.WriteFile(jobPath, []byte(content), 0644))
	return jobPath, filepath.Join(dir, "config.json")
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--config", cfgPath))
	err := root.Execute()
	return out.String(), err
}

func TestParseDims(t *testing.T) {
	tests := []struct {
		in      string
		want    model.Dimensions
		wantErr bool
	}{
		{"2440x1220", model.Dimensions{Width: 2440, Height: 1220}, false},
		{"2440X1220", model.Dimensions{Width: 2440, Height: 1220}, false},
		{" 1000*500.5 ", model.Dimensions{Width: 1000, Height: 500.5}, false},
		{"2440", model.Dimensions{}, true},
		{"axb", model.Dimensions{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDims(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRect(t *testing.T) {
	p, err := parseRect("10, 20,300,400")
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.X)
	assert.Equal(t, 20.0, p.Y)
	assert.Equal(t, 300.0, p.Width)
	assert.Equal(t, 400.0, p.Height)
	assert.Len(t, p.ID, 8)

	_, err = parseRect("10,20,300")
	assert.Error(t, err)
}

func TestDeriveSteps(t *testing.T) {
	job := model.Job{
		Sheet: model.Dimensions{Width: 1000, Height: 500},
		Kerf:  3,
		Mode:  model.ModePerPanel,
		Panels: []model.PanelPlacement{
			{ID: "A", X: 100, Y: 100, Width: 200, Height: 200},
			{ID: "B", X: 500, Y: 100, Width: 200, Height: 200},
		},
	}

	_, err := deriveSteps(job, "")
	assert.True(t, errors.Is(err, engine.ErrPerPanelBatch))

	steps, err := deriveSteps(job, "B")
	require.NoError(t, err)
	assert.Len(t, steps, 4)

	_, err = deriveSteps(job, "Z")
	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, ExitJobNotFound, cliErr.Code)
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, ExitInvalidInput, exitCodeFor(&model.InputError{Field: "kerf", Err: model.ErrInvalidKerf}))
	assert.Equal(t, ExitInvalidInput, exitCodeFor(engine.ErrPerPanelBatch))
	assert.Equal(t, ExitGeneralError, exitCodeFor(errors.New("boom")))
}

func TestDeriveCommand_JSON(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)

	out, err := run(t, cfg, "derive", jobPath, "--json")
	require.NoError(t, err)

	var result deriveResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Test", result.Job)
	assert.Equal(t, model.ModeLengthFirst, result.Mode)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, model.AxisX, result.Steps[0].Axis)
	assert.Equal(t, 400.0, result.Steps[0].Pos)
	assert.Equal(t, model.AxisY, result.Steps[1].Axis)
	assert.Equal(t, 2, result.Stats.Cuts)
}

func TestDeriveCommand_Text(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)

	out, err := run(t, cfg, "derive", jobPath, "--mode", "width-first")
	require.NoError(t, err)
	assert.Contains(t, out, "Mode: width-first")
	assert.Contains(t, out, "crosscut")
	assert.Contains(t, out, "total cut length")
}

func TestDeriveCommand_PerPanel(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)

	out, err := run(t, cfg, "derive", jobPath, "--mode", "per-panel", "--json")
	require.NoError(t, err)

	var result deriveResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Sequences, 3)
	assert.Equal(t, "A", result.Sequences[0].PanelID)
	assert.Empty(t, result.Steps)
}

func TestDeriveCommand_Errors(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)

	_, err := run(t, cfg, "derive", filepath.Join(filepath.Dir(jobPath), "missing.cut"))
	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, ExitJobNotFound, cliErr.Code)

	_, err = run(t, cfg, "derive", jobPath, "--mode", "diagonal")
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, ExitInvalidInput, cliErr.Code)

	_, err = run(t, cfg, "derive", jobPath, "--kerf=-1")
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, ExitInvalidInput, cliErr.Code)
	assert.True(t, errors.Is(err, model.ErrInvalidKerf))
}

func TestPanelCommand(t *testing.T) {
	_, cfg := writeJob(t, testJob)

	out, err := run(t, cfg, "panel", "--sheet", "1000x500", "--rect", "100,100,200,200", "--kerf", "3", "--json")
	require.NoError(t, err)

	var result deriveResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Steps, 4)
	assert.Equal(t, []float64{100, 300, 100, 300},
		[]float64{result.Steps[0].Pos, result.Steps[1].Pos, result.Steps[2].Pos, result.Steps[3].Pos})
}

func TestPlayCommand_Instant(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)

	out, err := run(t, cfg, "play", jobPath, "--instant", "--json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	var events []playEvent
	for _, l := range lines {
		var e playEvent
		require.NoError(t, json.Unmarshal([]byte(l), &e))
		events = append(events, e)
	}
	assert.Equal(t, "cut_complete", events[0].Event)
	assert.Equal(t, 1, events[0].Cut)
	assert.Equal(t, "cut-0", events[0].ID)
	assert.Equal(t, 2, events[1].Cut)
	assert.Equal(t, "done", events[2].Event)
}

func TestPlayCommand_InstantText(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)

	out, err := run(t, cfg, "play", jobPath, "--instant", "--pause", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "Cut 1: rip (length) at x=400.0")
	assert.Contains(t, out, "Done: 2 cuts.")
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "Cut 1/4 [--------------------]   0%", progressBar(0, 4, 0))
	assert.Equal(t, "Cut 2/4 [##########----------]  50%", progressBar(1, 4, 0.5))
	assert.Equal(t, "Cut 4/4 [####################] 100%", progressBar(3, 4, 1))
}

func TestCompareCommand(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)

	out, err := run(t, cfg, "compare", jobPath, "--json")
	require.NoError(t, err)

	var result struct {
		Modes []compareRow `json:"modes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Modes, len(model.Modes))

	best := 0
	for _, m := range result.Modes {
		if m.Best {
			best++
			assert.True(t, m.Mode.Hierarchical())
		}
	}
	assert.Equal(t, 1, best)
}

func TestExportCommand(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)
	dir := filepath.Dir(jobPath)

	for _, format := range []string{"pdf", "labels", "xlsx", "dxf", "svg"} {
		t.Run(format, func(t *testing.T) {
			out := filepath.Join(dir, "out-"+format)
			_, err := run(t, cfg, "export", jobPath, "--format", format, "-o", out)
			require.NoError(t, err)
			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}

	_, err := run(t, cfg, "export", jobPath, "--format", "bmp")
	assert.Error(t, err)
}

func TestExportCommand_DefaultOutput(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)

	_, err := run(t, cfg, "export", jobPath, "--format", "labels")
	require.NoError(t, err)
	_, err = os.Stat(strings.TrimSuffix(jobPath, ".cut") + "-labels.pdf")
	assert.NoError(t, err)
}

func TestGCodeCommand(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)

	out, err := run(t, cfg, "gcode", jobPath, "--profile", "Grbl")
	require.NoError(t, err)
	assert.Contains(t, out, "; SawPlan GCode: Test")
	assert.Contains(t, out, "G1 X400.000 Y500.000")
	assert.Contains(t, out, "M2")

	file := filepath.Join(filepath.Dir(jobPath), "test.nc")
	out, err = run(t, cfg, "gcode", jobPath, "-o", file, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"feeds": 2`)
	_, err = os.Stat(file)
	assert.NoError(t, err)
}

func TestGCodeCommand_CustomProfile(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)
	dir := filepath.Dir(jobPath)

	profile := `{
		// panel saw controller
		"name": "BeamSaw",
		"rapid_move": "G00",
		"feed_move": "G01",
		"comment_prefix": ";",
		"decimal_places": 1,
	}`
	profilePath := filepath.Join(dir, "beamsaw.json")
	require.NoError(t, os.WriteFile(profilePath, []byte(profile), 0644))

	_, err := run(t, cfg, "config", "add-profile", profilePath)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "profiles.json"))
	require.NoError(t, err)

	out, err := run(t, cfg, "gcode", jobPath, "--profile", "BeamSaw")
	require.NoError(t, err)
	assert.Contains(t, out, "G01 X400.0 Y500.0")
}

func TestConvertCommand(t *testing.T) {
	jobPath, cfg := writeJob(t, testJob)
	yamlPath := filepath.Join(filepath.Dir(jobPath), "test.yaml")

	_, err := run(t, cfg, "convert", jobPath, yamlPath)
	require.NoError(t, err)

	out, err := run(t, cfg, "derive", yamlPath, "--json")
	require.NoError(t, err)
	var result deriveResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Steps, 2)

	_, err = run(t, cfg, "convert", jobPath, filepath.Join(filepath.Dir(jobPath), "test.pdf"))
	assert.Error(t, err)
}

func TestImportedLayout(t *testing.T) {
	_, cfg := writeJob(t, testJob)
	csvPath := filepath.Join(filepath.Dir(cfg), "nest.csv")
	csv := "id,x,y,width,height\nA,0,0,400,500\nB,400,0,600,250\nC,400,250,600,250\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0644))

	out, err := run(t, cfg, "derive", csvPath, "--sheet", "1000x500", "--kerf", "3", "--json")
	require.NoError(t, err)

	var result deriveResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "nest", result.Job)
	assert.Equal(t, model.Dimensions{Width: 1000, Height: 500}, result.Sheet)
	assert.Len(t, result.Steps, 2)
}

func TestConfigCommands(t *testing.T) {
	_, cfg := writeJob(t, testJob)

	out, err := run(t, cfg, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, cfg)

	_, err = run(t, cfg, "config", "init")
	assert.Error(t, err, "init must not overwrite without --force")

	_, err = run(t, cfg, "config", "init", "--force")
	require.NoError(t, err)

	out, err = run(t, cfg, "config", "show", "--json")
	require.NoError(t, err)
	var shown model.AppConfig
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, model.DefaultAppConfig().DefaultKerfWidth, shown.DefaultKerfWidth)

	backup := filepath.Join(filepath.Dir(cfg), "backup.json")
	_, err = run(t, cfg, "config", "export", backup)
	require.NoError(t, err)

	other := filepath.Join(t.TempDir(), "config.json")
	_, err = run(t, other, "config", "import", backup)
	require.NoError(t, err)
	_, err = os.Stat(other)
	assert.NoError(t, err)
}
