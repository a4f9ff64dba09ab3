package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SawPlan/internal/export"
	"github.com/piwi3910/SawPlan/internal/model"
)

type exportFlags struct {
	jobFlags
	format string
	output string
	step   int
}

// exportExtensions maps each export format to its default file suffix.
var exportExtensions = map[string]string{
	"pdf":    ".pdf",
	"labels": "-labels.pdf",
	"xlsx":   ".xlsx",
	"dxf":    ".dxf",
	"svg":    ".svg",
}

// NewExportCommand creates the "export" command.
func NewExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <job>",
		Short: "Write the cut sequence as PDF, labels, XLSX, DXF or SVG",
		Long: `Export the derived cut sequence.

Formats:
  pdf     cut diagram with numbered cuts and an ordered cut table
  labels  QR-coded panel labels listing the cuts along each panel
  xlsx    cut list workbook (cuts, panels, summary)
  dxf     sheet, panel outlines and cut lines on separate layers
  svg     cut diagram; --step N draws only the first N cuts

Examples:
  sawplan export closet.cut --format pdf -o closet.pdf
  sawplan export closet.cut --format svg --step 3 -o step3.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := loadJob(cmd, args[0], &flags.jobFlags)
			if err != nil {
				return err
			}
			out := flags.output
			if out == "" {
				ext, ok := exportExtensions[flags.format]
				if !ok {
					ext = "." + flags.format
				}
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ext
			}
			return runExport(cmd, job, flags, out)
		},
	}
	addJobFlags(cmd, &flags.jobFlags)
	cmd.Flags().StringVarP(&flags.format, "format", "f", "pdf", "Export format: pdf, labels, xlsx, dxf, svg")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: job name with format extension)")
	cmd.Flags().IntVar(&flags.step, "step", 0, "SVG only: draw the first N cuts and highlight the last")

	return cmd
}

func runExport(cmd *cobra.Command, job model.Job, flags *exportFlags, out string) error {
	steps, err := deriveSteps(job, flags.panel)
	if err != nil {
		return WrapCLIError(exitCodeFor(err), "cannot derive cuts", err)
	}

	switch flags.format {
	case "pdf":
		err = export.ExportPDF(out, job, steps)
	case "labels":
		err = export.ExportLabels(out, job, steps)
	case "xlsx":
		err = export.ExportXLSX(out, job, steps)
	case "dxf":
		err = export.ExportDXF(out, job, steps)
	case "svg":
		err = export.ExportSVG(out, job, steps, export.SVGOptions{Step: flags.step})
	default:
		return NewCLIError(ExitInvalidInput, fmt.Sprintf("unknown format %q", flags.format))
	}
	if err != nil {
		return WrapCLIError(ExitGeneralError, "export failed", err)
	}

	logger.Info("exported", "format", flags.format, "file", out, "cuts", len(steps))
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"format": flags.format,
			"file":   out,
			"cuts":   len(steps),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d cuts)\n", out, len(steps))
	return nil
}
