package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SawPlan/internal/gcode"
	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/piwi3910/SawPlan/internal/project"
)

type gcodeFlags struct {
	jobFlags
	output    string
	profile   string
	depth     float64
	passDepth float64
	overrun   float64
}

// NewGCodeCommand creates the "gcode" command.
func NewGCodeCommand() *cobra.Command {
	flags := &gcodeFlags{}

	cmd := &cobra.Command{
		Use:   "gcode <job>",
		Short: "Generate G-code that runs every cut in sequence order",
		Long: `Generate a G-code program for a gantry saw or router. Each cut is run
along its span at full depth, in passes of --pass-depth, with a rapid
retract between cuts. Machine settings come from the config file.

Examples:
  sawplan gcode closet.cut -o closet.nc
  sawplan gcode closet.cut --profile Mach3 --overrun 10 -o closet.tap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := loadJob(cmd, args[0], &flags.jobFlags)
			if err != nil {
				return err
			}
			return runGCode(cmd, job, flags)
		},
	}
	addJobFlags(cmd, &flags.jobFlags)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&flags.profile, "profile", "", "Post-processor profile (default from config)")
	cmd.Flags().Float64Var(&flags.depth, "depth", 0, "Cut depth in mm (default from config)")
	cmd.Flags().Float64Var(&flags.passDepth, "pass-depth", 0, "Depth per pass in mm (default from config)")
	cmd.Flags().Float64Var(&flags.overrun, "overrun", 0, "Extra travel past both ends of each cut in mm")

	return cmd
}

func runGCode(cmd *cobra.Command, job model.Job, flags *gcodeFlags) error {
	steps, err := deriveSteps(job, flags.panel)
	if err != nil {
		return WrapCLIError(exitCodeFor(err), "cannot derive cuts", err)
	}

	settings := model.DefaultSettings()
	appConfig.ApplyToSettings(&settings)
	settings.KerfWidth = job.Kerf
	settings.Mode = job.Mode
	fl := cmd.Flags()
	if fl.Changed("profile") {
		settings.GCodeProfile = flags.profile
	}
	if fl.Changed("depth") {
		settings.CutDepth = flags.depth
	}
	if fl.Changed("pass-depth") {
		settings.PassDepth = flags.passDepth
	}
	if fl.Changed("overrun") {
		settings.Overrun = flags.overrun
	}

	custom, err := project.LoadCustomProfiles(profilesPath())
	if err != nil {
		logger.Warn("cannot load custom profiles", "err", err)
	}
	profile := project.ResolveProfile(settings.GCodeProfile, custom)
	if profile.Name != settings.GCodeProfile {
		logger.Warn("unknown profile, using fallback", "requested", settings.GCodeProfile, "profile", profile.Name)
	}

	code := gcode.NewWithProfile(settings, profile).Generate(job, steps)
	summary := gcode.Analyze(code)
	logger.Debug("gcode generated",
		"profile", profile.Name,
		"feeds", summary.Feeds,
		"feed_length", summary.FeedLength,
		"cut_time", summary.CutTime)

	out := cmd.OutOrStdout()
	if flags.output != "" {
		if err := os.WriteFile(flags.output, []byte(code), 0644); err != nil {
			return WrapCLIError(ExitGeneralError, "cannot write "+flags.output, err)
		}
		if jsonOutput {
			return printJSON(out, map[string]interface{}{
				"file":    flags.output,
				"profile": profile.Name,
				"summary": summary,
			})
		}
		fmt.Fprintf(out, "Wrote %s: %d cuts, %.1f mm of feed, est. %s cutting time\n",
			flags.output, len(steps), summary.FeedLength, summary.CutTime.Round(time.Second))
		return nil
	}

	_, err = fmt.Fprint(out, code)
	return err
}
