package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SawPlan/internal/project"
)

// NewConvertCommand creates the "convert" command.
func NewConvertCommand() *cobra.Command {
	flags := &jobFlags{}

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a layout or job into a .json, .yaml or .cut job file",
		Long: `Read a job or import a layout and save it as a job file. The output
format follows the output file extension.

Examples:
  sawplan convert nest.csv closet.cut --sheet 2440x1220 --kerf 3.2
  sawplan convert closet.cut closet.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !project.IsJobFile(args[1]) {
				return WrapCLIError(ExitInvalidInput, "cannot write "+args[1], project.ErrUnsupportedFormat)
			}
			job, err := loadJob(cmd, args[0], flags)
			if err != nil {
				return err
			}
			if err := project.SaveJob(args[1], job); err != nil {
				return WrapCLIError(ExitGeneralError, "cannot save job", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d panels)\n", args[1], len(job.Panels))
			return nil
		},
	}
	addJobFlags(cmd, flags)

	return cmd
}
