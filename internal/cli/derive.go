package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SawPlan/internal/engine"
	"github.com/piwi3910/SawPlan/internal/model"
)

// NewDeriveCommand creates the "derive" command.
func NewDeriveCommand() *cobra.Command {
	flags := &jobFlags{}

	cmd := &cobra.Command{
		Use:   "derive <job>",
		Short: "Print the ordered cut sequence for a job",
		Long: `Derive the guillotine cut sequence for a nested sheet layout.

In per-panel mode every panel gets its own four-edge sequence unless
--panel selects one of them.

Examples:
  sawplan derive closet.cut
  sawplan derive layout.csv --sheet 2440x1220 --kerf 3.2 --mode width-first
  sawplan derive closet.cut --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := loadJob(cmd, args[0], flags)
			if err != nil {
				return err
			}
			return runDerive(cmd.OutOrStdout(), job, flags.panel)
		},
	}
	addJobFlags(cmd, flags)

	return cmd
}

// deriveResult is the JSON output of the derive command.
type deriveResult struct {
	Job       string                 `json:"job"`
	Sheet     model.Dimensions       `json:"sheet"`
	Kerf      float64                `json:"kerf"`
	Mode      model.Mode             `json:"mode"`
	Steps     []model.CutStep        `json:"steps"`
	Stats     model.SequenceStats    `json:"stats"`
	Sequences []engine.PanelSequence `json:"sequences,omitempty"`
}

func runDerive(w io.Writer, job model.Job, panelID string) error {
	result := deriveResult{
		Job:   job.Name,
		Sheet: job.Sheet,
		Kerf:  job.Kerf,
		Mode:  job.Mode,
		Steps: []model.CutStep{},
	}

	if job.Mode == model.ModePerPanel && panelID == "" && len(job.Panels) > 1 {
		seqs, err := engine.PanelSequences(job.Sheet, job.Panels, job.Kerf)
		if err != nil {
			return WrapCLIError(exitCodeFor(err), "cannot derive cuts", err)
		}
		result.Sequences = seqs
		for _, s := range seqs {
			st := model.Stats(s.Steps)
			result.Stats.Cuts += st.Cuts
			result.Stats.LengthCuts += st.LengthCuts
			result.Stats.WidthCuts += st.WidthCuts
			result.Stats.TotalLength += st.TotalLength
		}
	} else {
		steps, err := deriveSteps(job, panelID)
		if err != nil {
			return WrapCLIError(exitCodeFor(err), "cannot derive cuts", err)
		}
		result.Steps = steps
		result.Stats = model.Stats(steps)
	}

	if jsonOutput {
		return printJSON(w, result)
	}

	fmt.Fprintf(w, "Job: %s  Sheet: %.1f x %.1f mm  Kerf: %.1f mm  Mode: %s\n\n",
		jobName(job), job.Sheet.Width, job.Sheet.Height, job.Kerf, job.Mode)
	if result.Sequences != nil {
		for _, s := range result.Sequences {
			fmt.Fprintf(w, "Panel %s\n", s.PanelID)
			printSteps(w, s.Steps)
			fmt.Fprintln(w)
		}
	} else {
		printSteps(w, result.Steps)
		fmt.Fprintln(w)
	}
	printStats(w, result.Stats)
	return nil
}

// printSteps writes a fixed-width table of cuts:
//
//	#    TYPE      POS       SPAN                 LENGTH    RESULT
//	1    rip       x=400.0   0.0 - 500.0          500.0     400 x 500
func printSteps(w io.Writer, steps []model.CutStep) {
	if len(steps) == 0 {
		fmt.Fprintln(w, "No cuts required.")
		return
	}
	fmt.Fprintf(w, "%-4s %-9s %-11s %-20s %-9s %s\n", "#", "TYPE", "POS", "SPAN", "LENGTH", "RESULT")
	for _, c := range steps {
		fmt.Fprintf(w, "%-4d %-9s %-11s %-20s %-9.1f %.0f x %.0f\n",
			c.Order+1,
			cutType(c.Axis),
			fmt.Sprintf("%s=%.1f", c.Axis, c.Pos),
			fmt.Sprintf("%.1f - %.1f", c.SpanStart, c.SpanEnd),
			c.Length(),
			c.Result.Width, c.Result.Height)
	}
}

func printStats(w io.Writer, s model.SequenceStats) {
	fmt.Fprintf(w, "%d cuts (%d rip, %d crosscut), %.1f mm total cut length\n",
		s.Cuts, s.LengthCuts, s.WidthCuts, s.TotalLength)
}

func cutType(axis model.Axis) string {
	if axis == model.AxisY {
		return "crosscut"
	}
	return "rip"
}

func jobName(job model.Job) string {
	if job.Name == "" {
		return "Untitled"
	}
	return job.Name
}
