package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/piwi3910/SawPlan/internal/project"
)

// profilesPath keeps custom profiles next to the active config file.
func profilesPath() string {
	return filepath.Join(filepath.Dir(activeConfigPath()), filepath.Base(project.DefaultProfilesPath()))
}

// NewConfigCommand creates the "config" command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the sawplan configuration",
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigExportCommand())
	cmd.AddCommand(newConfigImportCommand())
	cmd.AddCommand(newConfigAddProfileCommand())
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := activeConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return NewCLIError(ExitConfigError, path+" already exists (use --force to overwrite)")
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return WrapCLIError(ExitConfigError, "cannot write config", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(w, appConfig)
			}
			c := appConfig
			fmt.Fprintf(w, "Config file:     %s\n", activeConfigPath())
			fmt.Fprintf(w, "Sheet:           %.1f x %.1f mm\n", c.DefaultSheetWidth, c.DefaultSheetHeight)
			fmt.Fprintf(w, "Kerf:            %.1f mm\n", c.DefaultKerfWidth)
			fmt.Fprintf(w, "Mode:            %s\n", c.DefaultMode)
			fmt.Fprintf(w, "Playback speed:  %.0f mm/s\n", c.PlaybackSpeed)
			fmt.Fprintf(w, "Cut pause:       %d ms\n", c.CutPauseMs)
			fmt.Fprintf(w, "G-code profile:  %s\n", c.DefaultGCodeProfile)
			fmt.Fprintf(w, "Feed / plunge:   %.0f / %.0f mm/min\n", c.DefaultFeedRate, c.DefaultPlungeRate)
			fmt.Fprintf(w, "Depth / pass:    %.1f / %.1f mm\n", c.DefaultCutDepth, c.DefaultPassDepth)
			return nil
		},
	}
}

func newConfigExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Back up config and custom profiles to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := project.LoadCustomProfiles(profilesPath())
			if err != nil {
				return WrapCLIError(ExitConfigError, "cannot load profiles", err)
			}
			if err := project.ExportAllData(args[0], appConfig, profiles); err != nil {
				return WrapCLIError(ExitConfigError, "backup failed", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d custom profiles)\n", args[0], len(profiles))
			return nil
		},
	}
}

func newConfigImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore config and custom profiles from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return WrapCLIError(ExitConfigError, "restore failed", err)
			}
			if err := project.SaveAppConfig(activeConfigPath(), backup.Config); err != nil {
				return WrapCLIError(ExitConfigError, "cannot write config", err)
			}
			if err := project.SaveCustomProfiles(profilesPath(), backup.Profiles); err != nil {
				return WrapCLIError(ExitConfigError, "cannot write profiles", err)
			}
			appConfig = backup.Config
			fmt.Fprintf(cmd.OutOrStdout(), "Restored config and %d custom profiles from %s\n", len(backup.Profiles), args[0])
			return nil
		},
	}
}

func newConfigAddProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-profile <file>",
		Short: "Add or replace a custom G-code profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := project.ImportProfile(args[0])
			if err != nil {
				return WrapCLIError(ExitConfigError, "cannot read profile", err)
			}
			for _, p := range model.GCodeProfiles {
				if p.Name == profile.Name {
					return WrapCLIError(ExitConfigError, "cannot add profile",
						errors.New("name "+profile.Name+" is taken by a built-in profile"))
				}
			}

			path := profilesPath()
			profiles, err := project.LoadCustomProfiles(path)
			if err != nil {
				return WrapCLIError(ExitConfigError, "cannot load profiles", err)
			}
			replaced := false
			for i := range profiles {
				if profiles[i].Name == profile.Name {
					profiles[i] = profile
					replaced = true
				}
			}
			if !replaced {
				profiles = append(profiles, profile)
			}
			if err := project.SaveCustomProfiles(path, profiles); err != nil {
				return WrapCLIError(ExitConfigError, "cannot write profiles", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %q to %s\n", profile.Name, path)
			return nil
		},
	}
}
