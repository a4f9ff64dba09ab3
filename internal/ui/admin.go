package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/piwi3910/SawPlan/internal/project"
)

// floatEntry creates an entry bound to a float pointer.
func floatEntry(val *float64) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
	e.OnChanged = func(text string) {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			*val = v
		}
	}
	return e
}

// intEntry creates an entry bound to an int pointer.
func intEntry(val *int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(*val))
	e.OnChanged = func(text string) {
		if v, err := strconv.Atoi(text); err == nil {
			*val = v
		}
	}
	return e
}

// showSettingsDialog edits the job defaults and playback preferences.
func (a *App) showSettingsDialog() {
	cfg := a.config

	modes := make([]string, len(model.Modes))
	for i, m := range model.Modes {
		modes[i] = string(m)
	}
	modeSelect := widget.NewSelect(modes, func(selected string) {
		if m, ok := model.ParseMode(selected); ok {
			cfg.DefaultMode = m
		}
	})
	modeSelect.SetSelected(string(cfg.DefaultMode))

	formItems := []*widget.FormItem{
		widget.NewFormItem("Default Sheet Width (mm)", floatEntry(&cfg.DefaultSheetWidth)),
		widget.NewFormItem("Default Sheet Height (mm)", floatEntry(&cfg.DefaultSheetHeight)),
		widget.NewFormItem("Default Kerf Width (mm)", floatEntry(&cfg.DefaultKerfWidth)),
		widget.NewFormItem("Default Mode", modeSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Playback Speed (mm/s)", floatEntry(&cfg.PlaybackSpeed)),
		widget.NewFormItem("Minimum Cut Duration (ms)", intEntry(&cfg.MinCutDurationMs)),
		widget.NewFormItem("Pause Between Cuts (ms)", intEntry(&cfg.CutPauseMs)),
		widget.NewFormItem("Frame Rate (fps)", intEntry(&cfg.FrameRate)),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			a.config = cfg
			a.speedSlider.SetValue(cfg.Playback().Speed)
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(460, 420))
	d.Show()
}

// showImportExportDialog backs up or restores config and custom profiles.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := project.ExportAllData(path, a.config, a.profiles); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Settings and %d custom profiles exported to:\n%s", len(a.profiles), path), a.window)
			}
		}, a.window)
		d.SetFileName("sawplan-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your current settings and custom profiles.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					path := reader.URI().Path()
					reader.Close()
					backup, err := project.ImportAllData(path)
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.config = backup.Config
					a.profiles = backup.Profiles
					a.settings = model.DefaultSettings()
					a.config.ApplyToSettings(&a.settings)
					if err := a.saveConfig(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
						return
					}
					a.persistCustomProfiles(a.window)
					a.SetupMenus()
					a.refreshGCode()
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export settings and custom G-code profiles to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(a.configPath, a.config)
}
