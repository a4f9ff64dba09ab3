// Package cli implements the sawplan command line. Each subcommand lives in
// its own file; this file defines the root command, the global flags and the
// shared logger and configuration.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/piwi3910/SawPlan/internal/project"
)

// Global flag values, bound to persistent flags on the root command.
var (
	// jsonOutput switches every command to machine-readable JSON on stdout.
	jsonOutput bool

	// verbose lowers the log level to Debug.
	verbose bool

	// configPath overrides the default ~/.sawplan/config.json location.
	configPath string
)

// Set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	logger    = slog.New(slog.NewTextHandler(os.Stderr, nil))
	appConfig = model.DefaultAppConfig()
)

// NewRootCommand creates the root command with every subcommand registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sawplan",
		Short: "Guillotine cut sequencer for nested panel layouts",
		Long: `sawplan derives the ordered straight-line cuts that free every panel of a
nested sheet layout on a panel saw, and plays them back step by step.

Jobs are read from .json, .yaml, .cut files or imported from .csv, .xlsx
and .dxf layouts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(cmd.ErrOrStderr())
			return loadConfig()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.sawplan/config.json)")

	rootCmd.AddCommand(NewDeriveCommand())
	rootCmd.AddCommand(NewPanelCommand())
	rootCmd.AddCommand(NewPlayCommand())
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewGCodeCommand())
	rootCmd.AddCommand(NewConvertCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command and translates errors into exit codes.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}
		printError(err.Error(), nil)
		os.Exit(int(exitCodeFor(err)))
	}
}

func setupLogger(w io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadConfig() error {
	path := configPath
	if path == "" {
		path = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(path)
	if err != nil {
		return WrapCLIError(ExitConfigError, "cannot load config "+path, err)
	}
	appConfig = cfg
	logger.Debug("config loaded", slog.String("path", path))
	return nil
}

// activeConfigPath returns the config file in use.
func activeConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return project.DefaultConfigPath()
}

// printError writes an error to stderr as text or JSON.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}
	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
