package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SawPlan/internal/engine"
	"github.com/piwi3910/SawPlan/internal/importer"
	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/piwi3910/SawPlan/internal/project"
)

// jobFlags override the settings stored in a job file and supply them for
// imported layouts, which carry panels only.
type jobFlags struct {
	sheet string
	kerf  float64
	mode  string
	panel string
}

func addJobFlags(cmd *cobra.Command, f *jobFlags) {
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Sheet size as WIDTHxHEIGHT in mm")
	cmd.Flags().Float64Var(&f.kerf, "kerf", 0, "Blade kerf in mm")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Derivation mode: length-first, width-first, per-panel")
	cmd.Flags().StringVar(&f.panel, "panel", "", "Isolate only the panel with this ID")
}

// loadJob reads a job file or imports a layout, then applies flag overrides.
func loadJob(cmd *cobra.Command, path string, f *jobFlags) (model.Job, error) {
	if _, err := os.Stat(path); err != nil {
		return model.Job{}, WrapCLIError(ExitJobNotFound, "cannot read "+path, err)
	}

	var job model.Job
	if project.IsJobFile(path) {
		var err error
		job, err = project.LoadJob(path)
		if err != nil {
			return model.Job{}, WrapCLIError(exitCodeFor(err), "cannot load job", err)
		}
	} else {
		var err error
		job, err = importLayout(path)
		if err != nil {
			return model.Job{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("sheet") {
		dims, err := parseDims(f.sheet)
		if err != nil {
			return model.Job{}, WrapCLIError(ExitInvalidInput, "invalid --sheet", err)
		}
		job.Sheet = dims
	}
	if flags.Changed("kerf") {
		job.Kerf = f.kerf
	}
	if flags.Changed("mode") {
		mode, ok := model.ParseMode(f.mode)
		if !ok {
			return model.Job{}, WrapCLIError(ExitInvalidInput, "invalid --mode",
				fmt.Errorf("%w: %q", model.ErrInvalidMode, f.mode))
		}
		job.Mode = mode
	}

	logger.Debug("job loaded",
		"path", path,
		"panels", len(job.Panels),
		"sheet", fmt.Sprintf("%.1fx%.1f", job.Sheet.Width, job.Sheet.Height),
		"kerf", job.Kerf,
		"mode", job.Mode)
	return job, nil
}

// importLayout builds a job from a CSV, Excel or DXF layout using the
// configured defaults for everything but the panels.
func importLayout(path string) (model.Job, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		result = importer.ImportCSV(path)
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(path)
	case ".dxf":
		result = importer.ImportDXF(path)
	default:
		return model.Job{}, WrapCLIError(ExitInvalidInput, "cannot read "+path,
			fmt.Errorf("%w: %s", project.ErrUnsupportedFormat, filepath.Ext(path)))
	}

	for _, w := range result.Warnings {
		logger.Warn("import", "file", path, "warning", w)
	}
	if len(result.Errors) > 0 {
		return model.Job{}, WrapCLIError(ExitInvalidInput, "import failed", errors.New(strings.Join(result.Errors, "; ")))
	}

	job := jobDefaults()
	job.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	job.Panels = result.Panels
	if result.Sheet != nil {
		job.Sheet = *result.Sheet
	}
	return job, nil
}

// jobDefaults returns an empty job carrying the configured defaults.
func jobDefaults() model.Job {
	job := model.NewJob()
	if appConfig.DefaultSheetWidth > 0 && appConfig.DefaultSheetHeight > 0 {
		job.Sheet = model.Dimensions{Width: appConfig.DefaultSheetWidth, Height: appConfig.DefaultSheetHeight}
	}
	if appConfig.DefaultKerfWidth >= 0 {
		job.Kerf = appConfig.DefaultKerfWidth
	}
	if appConfig.DefaultMode != "" {
		job.Mode = appConfig.DefaultMode
	}
	return job
}

// deriveSteps returns the sequence to play or export. Per-panel jobs have no
// single sequence, so they need a panel ID; with an ID in any mode the panel
// is isolated on its own.
func deriveSteps(job model.Job, panelID string) ([]model.CutStep, error) {
	if panelID == "" {
		if job.Mode == model.ModePerPanel && len(job.Panels) > 1 {
			return nil, WrapCLIError(ExitInvalidInput, "per-panel mode needs --panel <id>", engine.ErrPerPanelBatch)
		}
		return engine.DeriveJob(job)
	}
	p, ok := findPanel(job, panelID)
	if !ok {
		return nil, NewCLIError(ExitJobNotFound, fmt.Sprintf("panel %q not found", panelID))
	}
	return engine.BuildSequenceForPanel(p, job.Sheet, job.Kerf)
}

func findPanel(job model.Job, id string) (model.PanelPlacement, bool) {
	for _, p := range job.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return model.PanelPlacement{}, false
}

// parseDims parses "2440x1220" (also "2440X1220" or "2440*1220").
func parseDims(s string) (model.Dimensions, error) {
	parts := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == 'x' || r == 'X' || r == '*'
	})
	if len(parts) != 2 {
		return model.Dimensions{}, fmt.Errorf("expected WIDTHxHEIGHT, got %q", s)
	}
	vals, err := parseFloats(parts)
	if err != nil {
		return model.Dimensions{}, err
	}
	return model.Dimensions{Width: vals[0], Height: vals[1]}, nil
}

// parseRect parses "x,y,w,h".
func parseRect(s string) (model.PanelPlacement, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return model.PanelPlacement{}, fmt.Errorf("expected X,Y,WIDTH,HEIGHT, got %q", s)
	}
	vals, err := parseFloats(parts)
	if err != nil {
		return model.PanelPlacement{}, err
	}
	return model.NewPanel(vals[0], vals[1], vals[2], vals[3]), nil
}

func parseFloats(parts []string) ([]float64, error) {
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", strings.TrimSpace(p))
		}
		vals[i] = v
	}
	return vals, nil
}
