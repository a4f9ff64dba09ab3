package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/SawPlan/internal/engine"
	"github.com/piwi3910/SawPlan/internal/model"
)

type panelFlags struct {
	sheet string
	rect  string
	kerf  float64
}

// NewPanelCommand creates the "panel" command, which isolates a single
// rectangle without needing a job file.
func NewPanelCommand() *cobra.Command {
	flags := &panelFlags{}

	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Print the four edge cuts that free one panel",
		Long: `Print the cuts that isolate a single panel from a sheet: bottom, top,
left and right edges in that order, skipping edges on the sheet boundary.

Examples:
  sawplan panel --sheet 2440x1220 --rect 100,200,600,400
  sawplan panel --sheet 2440x1220 --rect 0,0,600,400 --kerf 4 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanel(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "Sheet size as WIDTHxHEIGHT in mm")
	cmd.Flags().StringVar(&flags.rect, "rect", "", "Panel as X,Y,WIDTH,HEIGHT in mm")
	cmd.Flags().Float64Var(&flags.kerf, "kerf", 0, "Blade kerf in mm (default from config)")
	_ = cmd.MarkFlagRequired("rect")

	return cmd
}

func runPanel(cmd *cobra.Command, flags *panelFlags) error {
	job := jobDefaults()
	job.Name = "panel"
	job.Mode = model.ModePerPanel

	if flags.sheet != "" {
		dims, err := parseDims(flags.sheet)
		if err != nil {
			return WrapCLIError(ExitInvalidInput, "invalid --sheet", err)
		}
		job.Sheet = dims
	}
	if cmd.Flags().Changed("kerf") {
		job.Kerf = flags.kerf
	}
	p, err := parseRect(flags.rect)
	if err != nil {
		return WrapCLIError(ExitInvalidInput, "invalid --rect", err)
	}
	job.Panels = []model.PanelPlacement{p}

	steps, err := engine.BuildSequenceForPanel(p, job.Sheet, job.Kerf)
	if err != nil {
		return WrapCLIError(exitCodeFor(err), "cannot derive cuts", err)
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, deriveResult{
			Job:   job.Name,
			Sheet: job.Sheet,
			Kerf:  job.Kerf,
			Mode:  job.Mode,
			Steps: steps,
			Stats: model.Stats(steps),
		})
	}
	printSteps(w, steps)
	printStats(w, model.Stats(steps))
	return nil
}
