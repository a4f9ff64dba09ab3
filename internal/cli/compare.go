package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SawPlan/internal/engine"
	"github.com/piwi3910/SawPlan/internal/model"
)

// NewCompareCommand creates the "compare" command.
func NewCompareCommand() *cobra.Command {
	flags := &jobFlags{}

	cmd := &cobra.Command{
		Use:   "compare <job>",
		Short: "Compare cut count and cut length across derivation modes",
		Long: `Derive the job under every mode and compare the resulting sequences.
The hierarchical mode with the shortest total cut length is marked.

Examples:
  sawplan compare closet.cut
  sawplan compare layout.xlsx --sheet 2800x2070 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := loadJob(cmd, args[0], flags)
			if err != nil {
				return err
			}
			return runCompare(cmd.OutOrStdout(), job)
		},
	}
	addJobFlags(cmd, flags)

	return cmd
}

type compareRow struct {
	Mode  model.Mode          `json:"mode"`
	Stats model.SequenceStats `json:"stats"`
	Best  bool                `json:"best"`
	Error string              `json:"error,omitempty"`
}

func runCompare(w io.Writer, job model.Job) error {
	results := engine.CompareModes(job)
	best, _ := engine.BestMode(results)

	rows := make([]compareRow, 0, len(results))
	for _, r := range results {
		row := compareRow{Mode: r.Mode, Stats: r.Stats, Best: r.Mode == best}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}

	if jsonOutput {
		return printJSON(w, map[string]interface{}{"job": job.Name, "modes": rows})
	}

	fmt.Fprintf(w, "%-2s %-14s %-6s %-6s %-10s %s\n", "", "MODE", "CUTS", "RIPS", "CROSSCUTS", "LENGTH")
	for _, r := range rows {
		mark := ""
		if r.Best {
			mark = "*"
		}
		if r.Error != "" {
			fmt.Fprintf(w, "%-2s %-14s error: %s\n", mark, r.Mode, r.Error)
			continue
		}
		fmt.Fprintf(w, "%-2s %-14s %-6d %-6d %-10d %.1f mm\n",
			mark, r.Mode, r.Stats.Cuts, r.Stats.LengthCuts, r.Stats.WidthCuts, r.Stats.TotalLength)
	}
	return nil
}
