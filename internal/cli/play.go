package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/piwi3910/SawPlan/internal/playback"
)

type playFlags struct {
	jobFlags
	speed   float64
	pause   time.Duration
	instant bool
}

// NewPlayCommand creates the "play" command.
func NewPlayCommand() *cobra.Command {
	flags := &playFlags{}

	cmd := &cobra.Command{
		Use:   "play <job>",
		Short: "Walk through the cut sequence one cut at a time",
		Long: `Animate the cut sequence in the terminal. Each cut takes its length
divided by --speed; the next cut starts only after the previous one has
completed. Press Ctrl-C to stop.

Examples:
  sawplan play closet.cut
  sawplan play closet.cut --speed 400 --pause 500ms
  sawplan play closet.cut --instant --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := loadJob(cmd, args[0], &flags.jobFlags)
			if err != nil {
				return err
			}
			steps, err := deriveSteps(job, flags.panel)
			if err != nil {
				return WrapCLIError(exitCodeFor(err), "cannot derive cuts", err)
			}
			settings := appConfig.Playback()
			if cmd.Flags().Changed("speed") {
				settings.Speed = flags.speed
			}
			if cmd.Flags().Changed("pause") {
				settings.Pause = flags.pause
			}
			return runPlay(cmd, steps, settings, flags.instant)
		},
	}
	addJobFlags(cmd, &flags.jobFlags)
	cmd.Flags().Float64Var(&flags.speed, "speed", 0, "Saw travel speed in mm/s (default from config)")
	cmd.Flags().DurationVar(&flags.pause, "pause", 0, "Pause between cuts (default from config)")
	cmd.Flags().BoolVar(&flags.instant, "instant", false, "Replay without waiting on the wall clock")

	return cmd
}

// playEvent is one line of JSON playback output.
type playEvent struct {
	Event string `json:"event"`
	Cut   int    `json:"cut,omitempty"`
	ID    string `json:"id,omitempty"`
	Label string `json:"label,omitempty"`
}

func runPlay(cmd *cobra.Command, steps []model.CutStep, settings model.PlaybackSettings, instant bool) error {
	w := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	token := playback.NewCancelToken()
	stopWatch := token.CancelOnDone(ctx)
	defer stopWatch()

	var clock playback.FrameClock
	manual := playback.NewManualClock(settings.FrameInterval)
	if instant {
		clock = manual
	} else {
		clock = playback.NewTickerClock(settings.FrameInterval)
	}

	completed := 0
	cb := playback.Callbacks{
		OnCutComplete: func(i int) {
			completed++
			c := steps[i]
			if jsonOutput {
				_ = printJSONLine(w, playEvent{Event: "cut_complete", Cut: i + 1, ID: c.ID, Label: c.Label})
				return
			}
			fmt.Fprintf(w, "\r%-60s\n", fmt.Sprintf("%s (%.1f mm)", c.Label, c.Length()))
		},
		OnDone: func() {
			if jsonOutput {
				_ = printJSONLine(w, playEvent{Event: "done"})
				return
			}
			fmt.Fprintf(w, "Done: %d cuts.\n", len(steps))
		},
	}
	if !instant && !jsonOutput {
		cb.OnProgress = func(i int, progress float64) {
			fmt.Fprintf(w, "\r%s", progressBar(i, len(steps), progress))
		}
	}

	sched := playback.NewScheduler(clock, settings)
	logger.Debug("playback starting",
		"cuts", len(steps),
		"speed", sched.Settings().Speed,
		"pause", sched.Settings().Pause,
		"instant", instant)

	pb := sched.Run(steps, cb, token)
	if instant {
		manual.RunUntilIdle(math.MaxInt32)
	}
	<-pb.Done()

	if pb.State() == playback.Cancelled {
		if jsonOutput {
			_ = printJSONLine(w, playEvent{Event: "cancelled", Cut: completed})
		} else {
			fmt.Fprintf(w, "\nCancelled after %d of %d cuts.\n", completed, len(steps))
		}
		logger.Info("playback cancelled", "completed", completed, "total", len(steps))
	}
	return nil
}

// progressBar renders "Cut 3/12 [#####-----]  45%".
func progressBar(index, total int, progress float64) string {
	const width = 20
	filled := int(progress * width)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	return fmt.Sprintf("Cut %d/%d [%s] %3.0f%%", index+1, total, bar, progress*100)
}

func printJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
