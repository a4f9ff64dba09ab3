package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SawPlan/internal/engine"
	"github.com/piwi3910/SawPlan/internal/gcode"
	"github.com/piwi3910/SawPlan/internal/importer"
	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/piwi3910/SawPlan/internal/playback"
	"github.com/piwi3910/SawPlan/internal/project"
	"github.com/piwi3910/SawPlan/internal/ui/widgets"
)

// App holds all viewer state and UI references.
type App struct {
	app        fyne.App
	window     fyne.Window
	configPath string
	config     model.AppConfig
	settings   model.CutSettings
	profiles   []model.GCodeProfile // custom profiles only
	history    *History

	job     model.Job
	jobPath string
	panelID string // isolated panel in per-panel mode
	steps   []model.CutStep

	// Playback; token is nil when nothing is playing.
	token *playback.CancelToken

	// UI references for dynamic updates
	cutCanvas   *widgets.CutCanvas
	cutList     *widget.List
	gcodeTab    *fyne.Container
	jobInfo     *widget.Label
	kerfEntry   *widget.Entry
	modeSelect  *widget.Select
	panelSelect *widget.Select
	speedSlider *widget.Slider
	progress    *widget.ProgressBar
	status      *widget.Label
	playButton  fyne.Disableable
	stopButton  fyne.Disableable
	syncingForm bool
}

// NewApp creates the viewer and loads config and custom profiles from
// configPath's directory. Missing files fall back to defaults.
func NewApp(application fyne.App, window fyne.Window, configPath string) *App {
	a := &App{
		app:        application,
		window:     window,
		configPath: configPath,
		history:    NewHistory(),
		job:        model.NewJob(),
	}

	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		slog.Warn("cannot load config, using defaults", "path", configPath, "err", err)
		cfg = model.DefaultAppConfig()
	}
	a.config = cfg
	a.settings = model.DefaultSettings()
	a.config.ApplyToSettings(&a.settings)

	profiles, err := project.LoadCustomProfiles(a.profilesPath())
	if err != nil {
		slog.Warn("cannot load custom profiles", "err", err)
	}
	a.profiles = profiles

	a.job = a.newJob()
	return a
}

func (a *App) profilesPath() string {
	return filepath.Join(filepath.Dir(a.configPath), filepath.Base(project.DefaultProfilesPath()))
}

// newJob returns an empty job carrying the configured defaults.
func (a *App) newJob() model.Job {
	job := model.NewJob()
	if a.config.DefaultSheetWidth > 0 && a.config.DefaultSheetHeight > 0 {
		job.Sheet = model.Dimensions{Width: a.config.DefaultSheetWidth, Height: a.config.DefaultSheetHeight}
	}
	job.Kerf = a.config.DefaultKerfWidth
	if a.config.DefaultMode != "" {
		job.Mode = a.config.DefaultMode
	}
	return job
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	recent := fyne.NewMenuItem("Open Recent", nil)
	recent.ChildMenu = a.buildRecentMenu()

	exportItem := fyne.NewMenuItem("Export", nil)
	exportItem.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Cut Diagram (PDF)...", func() { a.exportFile("pdf", ".pdf") }),
		fyne.NewMenuItem("Panel Labels (PDF)...", func() { a.exportFile("labels", "-labels.pdf") }),
		fyne.NewMenuItem("Cut List (XLSX)...", func() { a.exportFile("xlsx", ".xlsx") }),
		fyne.NewMenuItem("Drawing (DXF)...", func() { a.exportFile("dxf", ".dxf") }),
		fyne.NewMenuItem("Diagram (SVG)...", func() { a.exportFile("svg", ".svg") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("G-code...", func() { a.exportGCode() }),
	)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Job...", func() { a.openJobDialog() }),
		recent,
		fyne.NewMenuItem("Save Job As...", func() { a.saveJobDialog() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Layout from CSV...", func() { a.importDialog(importer.ImportCSV, ".csv", ".tsv", ".txt") }),
		fyne.NewMenuItem("Import Layout from Excel...", func() { a.importDialog(importer.ImportExcel, ".xlsx", ".xlsm") }),
		fyne.NewMenuItem("Import Layout from DXF...", func() { a.importDialog(importer.ImportDXF, ".dxf") }),
		fyne.NewMenuItemSeparator(),
		exportItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { a.window.Close() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { a.undo() }),
		fyne.NewMenuItem("Redo", func() { a.redo() }),
	)

	settingsMenu := fyne.NewMenu("Settings",
		fyne.NewMenuItem("Preferences...", func() { a.showSettingsDialog() }),
		fyne.NewMenuItem("Machine Settings...", func() { a.showMachineSettingsDialog() }),
		fyne.NewMenuItem("G-code Profiles...", func() { a.showProfileManager() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import / Export Data...", func() { a.showImportExportDialog() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() { a.showAboutDialog() }),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, settingsMenu, helpMenu))
}

func (a *App) buildRecentMenu() *fyne.Menu {
	if len(a.config.RecentJobs) == 0 {
		item := fyne.NewMenuItem("(none)", nil)
		item.Disabled = true
		return fyne.NewMenu("", item)
	}
	var items []*fyne.MenuItem
	for _, path := range a.config.RecentJobs {
		path := path
		items = append(items, fyne.NewMenuItem(path, func() { a.OpenJob(path) }))
	}
	return fyne.NewMenu("", items...)
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About SawPlan",
		"SawPlan — Guillotine Cut Sequencer\n\n"+
			"Derives the ordered straight cuts that free every panel\n"+
			"of a nested sheet layout and plays them back step by step.",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.cutCanvas = widgets.NewCutCanvas(800, 520)
	a.gcodeTab = container.NewStack(widget.NewLabel("Open a job to preview its G-code."))

	tabs := container.NewAppTabs(
		container.NewTabItem("Sequence", container.NewScroll(container.NewCenter(a.cutCanvas))),
		container.NewTabItem("G-code", a.gcodeTab),
	)
	tabs.SetTabLocation(container.TabLocationTop)

	split := container.NewHSplit(a.buildJobPanel(), tabs)
	split.Offset = 0.28

	return container.NewBorder(nil, a.buildControls(), nil, nil, split)
}

// ─── Job Panel ─────────────────────────────────────────────

func (a *App) buildJobPanel() fyne.CanvasObject {
	a.jobInfo = widget.NewLabel("No job loaded.")
	a.jobInfo.Wrapping = fyne.TextWrapWord

	a.kerfEntry = widget.NewEntry()
	a.kerfEntry.OnSubmitted = func(text string) { a.applyKerf(text) }

	modes := make([]string, len(model.Modes))
	for i, m := range model.Modes {
		modes[i] = string(m)
	}
	a.modeSelect = widget.NewSelect(modes, func(selected string) {
		if a.syncingForm {
			return
		}
		mode, ok := model.ParseMode(selected)
		if !ok || mode == a.job.Mode {
			return
		}
		a.editJob("Change mode", func(job *model.Job) { job.Mode = mode })
	})

	a.panelSelect = widget.NewSelect(nil, func(selected string) {
		if a.syncingForm || selected == a.panelID {
			return
		}
		a.panelID = selected
		a.rederive()
	})

	a.cutList = widget.NewList(
		func() int { return len(a.steps) },
		func() fyne.CanvasObject { return widget.NewLabel("Cut 00: crosscut (width) at y=0000.0") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			c := a.steps[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s  %.0f mm", c.Label, c.Length()))
		},
	)
	a.cutList.OnSelected = func(id widget.ListItemID) {
		if a.token != nil {
			return
		}
		a.cutCanvas.SetProgress(id, 1)
		a.status.SetText(a.steps[id].Label)
	}

	form := widget.NewForm(
		widget.NewFormItem("Kerf (mm)", a.kerfEntry),
		widget.NewFormItem("Mode", a.modeSelect),
		widget.NewFormItem("Panel", a.panelSelect),
	)

	return container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("Job", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			a.jobInfo,
			form,
			widget.NewSeparator(),
			widget.NewLabelWithStyle("Cut Sequence", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		),
		nil, nil, nil,
		a.cutList,
	)
}

// syncForm copies the job into the form widgets without triggering edits.
func (a *App) syncForm() {
	a.syncingForm = true
	defer func() { a.syncingForm = false }()

	name := a.job.Name
	if name == "" {
		name = "Untitled"
	}
	a.jobInfo.SetText(fmt.Sprintf("%s\nSheet %.0f x %.0f mm, %d panels, %.1f%% used",
		name, a.job.Sheet.Width, a.job.Sheet.Height, len(a.job.Panels), a.job.Efficiency()))
	a.kerfEntry.SetText(strconv.FormatFloat(a.job.Kerf, 'f', -1, 64))
	a.modeSelect.SetSelected(string(a.job.Mode))

	ids := make([]string, len(a.job.Panels))
	for i, p := range a.job.Panels {
		ids[i] = p.ID
	}
	a.panelSelect.Options = ids
	if a.job.Mode == model.ModePerPanel && len(ids) > 0 {
		if _, ok := findPanel(a.job, a.panelID); !ok {
			a.panelID = ids[0]
		}
		a.panelSelect.SetSelected(a.panelID)
		a.panelSelect.Enable()
	} else {
		a.panelID = ""
		a.panelSelect.ClearSelected()
		a.panelSelect.Disable()
	}
}

func (a *App) applyKerf(text string) {
	kerf, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		dialog.ShowError(fmt.Errorf("invalid kerf %q", text), a.window)
		a.syncForm()
		return
	}
	if kerf == a.job.Kerf {
		return
	}
	a.editJob("Change kerf", func(job *model.Job) { job.Kerf = kerf })
}

// editJob records the current job in history, applies edit and re-derives.
func (a *App) editJob(label string, edit func(job *model.Job)) {
	a.history.Record(a.job, label)
	edit(&a.job)
	a.setJob(a.job)
}

func (a *App) undo() {
	job, label, ok := a.history.Undo(a.job)
	if !ok {
		return
	}
	a.setJob(job)
	a.status.SetText("Undid " + label + ". " + a.status.Text)
}

func (a *App) redo() {
	job, label, ok := a.history.Redo(a.job)
	if !ok {
		return
	}
	a.setJob(job)
	a.status.SetText("Redid " + label + ". " + a.status.Text)
}

// setJob replaces the job, refreshes the form and derives a new sequence.
func (a *App) setJob(job model.Job) {
	a.stopPlayback()
	if job.Mode != a.job.Mode {
		a.panelID = ""
	}
	a.job = job
	a.syncForm()
	a.rederive()
}

// rederive derives the sequence for the current job and refreshes every
// view of it. Errors leave an empty sequence and are shown in the status bar.
func (a *App) rederive() {
	a.stopPlayback()
	steps, err := a.derive()
	if err != nil {
		a.steps = nil
		a.status.SetText("Cannot derive cuts: " + err.Error())
		slog.Warn("derive failed", "job", a.job.Name, "err", err)
	} else {
		a.steps = steps
		st := model.Stats(steps)
		a.status.SetText(fmt.Sprintf("%d cuts (%d rip, %d crosscut), %.0f mm total",
			st.Cuts, st.LengthCuts, st.WidthCuts, st.TotalLength))
	}
	a.cutList.UnselectAll()
	a.cutList.Refresh()
	a.cutCanvas.SetJob(a.job, a.steps)
	a.progress.SetValue(0)
	a.refreshGCode()
}

func (a *App) derive() ([]model.CutStep, error) {
	if a.job.Mode == model.ModePerPanel {
		if p, ok := findPanel(a.job, a.panelID); ok {
			return engine.BuildSequenceForPanel(p, a.job.Sheet, a.job.Kerf)
		}
	}
	return engine.DeriveJob(a.job)
}

func findPanel(job model.Job, id string) (model.PanelPlacement, bool) {
	for _, p := range job.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return model.PanelPlacement{}, false
}

// ─── Playback Controls ─────────────────────────────────────

func (a *App) buildControls() fyne.CanvasObject {
	play := newIconButtonWithTooltip(theme.MediaPlayIcon(), "Play the cut sequence", func() { a.startPlayback() })
	stop := newIconButtonWithTooltip(theme.MediaStopIcon(), "Stop playback", func() { a.stopPlayback() })
	all := newIconButtonWithTooltip(theme.VisibilityIcon(), "Show all cuts", func() {
		a.stopPlayback()
		a.cutCanvas.ShowAll()
		a.progress.SetValue(1)
	})
	stop.Disable()
	a.playButton = play
	a.stopButton = stop

	speed := a.config.Playback().Speed
	speedLabel := widget.NewLabel(fmt.Sprintf("%.0f mm/s", speed))
	a.speedSlider = widget.NewSlider(50, 3000)
	a.speedSlider.Step = 50
	a.speedSlider.SetValue(speed)
	a.speedSlider.OnChanged = func(v float64) {
		speedLabel.SetText(fmt.Sprintf("%.0f mm/s", v))
	}

	a.progress = widget.NewProgressBar()
	a.status = widget.NewLabel("")

	return container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil,
			container.NewHBox(play, stop, all, widget.NewLabel("Speed"), container.NewGridWrap(fyne.NewSize(180, 36), a.speedSlider), speedLabel),
			nil,
			a.progress,
		),
		container.NewHBox(a.status, layout.NewSpacer()),
	)
}

// startPlayback animates the sequence on the wall clock. Scheduler callbacks
// arrive on timer goroutines and are handed to the UI thread with fyne.Do;
// events from a run that has since been stopped are dropped.
func (a *App) startPlayback() {
	a.stopPlayback()
	if len(a.steps) == 0 {
		return
	}

	settings := a.config.Playback()
	settings.Speed = a.speedSlider.Value

	token := playback.NewCancelToken()
	a.token = token
	a.cutList.UnselectAll()
	a.cutCanvas.SetProgress(0, 0)
	a.playButton.Disable()
	a.stopButton.Enable()

	total := float64(len(a.steps))
	steps := a.steps
	live := func(fn func()) {
		fyne.Do(func() {
			if a.token == token {
				fn()
			}
		})
	}

	sched := playback.NewScheduler(playback.NewTickerClock(settings.FrameInterval), settings)
	sched.Run(steps, playback.Callbacks{
		OnProgress: func(i int, p float64) {
			live(func() {
				a.cutCanvas.SetProgress(i, p)
				a.progress.SetValue((float64(i) + p) / total)
			})
		},
		OnCutComplete: func(i int) {
			live(func() {
				a.status.SetText(fmt.Sprintf("%s (%d of %d)", steps[i].Label, i+1, len(steps)))
			})
		},
		OnDone: func() {
			live(func() {
				a.token = nil
				a.cutCanvas.ShowAll()
				a.progress.SetValue(1)
				a.playButton.Enable()
				a.stopButton.Disable()
			})
		},
	}, token)

	slog.Debug("playback started", "cuts", len(steps), "speed", settings.Speed)
}

func (a *App) stopPlayback() {
	if a.token == nil {
		return
	}
	a.token.Cancel()
	a.token = nil
	a.playButton.Enable()
	a.stopButton.Disable()
}

// ─── G-code ────────────────────────────────────────────────

func (a *App) generator() *gcode.Generator {
	s := a.settings
	s.KerfWidth = a.job.Kerf
	s.Mode = a.job.Mode
	return gcode.NewWithProfile(s, project.ResolveProfile(s.GCodeProfile, a.profiles))
}

func (a *App) refreshGCode() {
	a.gcodeTab.RemoveAll()
	if len(a.steps) == 0 {
		a.gcodeTab.Add(widget.NewLabel("No cuts to preview."))
		return
	}
	code := a.generator().Generate(a.job, a.steps)
	a.gcodeTab.Add(widgets.RenderGCodePreview(a.job, code))
}

// ─── Files ─────────────────────────────────────────────────

// OpenJob loads a job file and remembers it in the recent list.
func (a *App) OpenJob(path string) {
	job, err := project.LoadJob(path)
	if err != nil {
		dialog.ShowError(fmt.Errorf("cannot open %s: %w", path, err), a.window)
		return
	}
	a.jobPath = path
	a.history.Clear()
	a.panelID = ""
	a.setJob(job)
	a.window.SetTitle("SawPlan — " + filepath.Base(path))
	a.rememberRecent(path)
}

func (a *App) rememberRecent(path string) {
	a.config.AddRecentJob(path)
	if err := a.saveConfig(); err != nil {
		slog.Warn("cannot save recent jobs", "err", err)
	}
	a.SetupMenus()
}

func (a *App) openJobDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.OpenJob(path)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(project.JobExtensions))
	d.Show()
}

func (a *App) saveJobDialog() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.SaveJob(path, a.job); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.jobPath = path
		a.rememberRecent(path)
	}, a.window)
	d.SetFileName(a.defaultName(".cut"))
	d.Show()
}

// importDialog imports a nested layout and wraps it in a job with the
// configured sheet, kerf and mode.
func (a *App) importDialog(importFn func(string) importer.ImportResult, exts ...string) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.handleImportResult(path, importFn(path))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(exts))
	d.Show()
}

func (a *App) handleImportResult(path string, result importer.ImportResult) {
	if len(result.Errors) > 0 {
		dialog.ShowError(errors.New(strings.Join(result.Errors, "\n")), a.window)
		return
	}

	job := a.newJob()
	job.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	job.Panels = result.Panels
	if result.Sheet != nil {
		job.Sheet = *result.Sheet
	}
	a.jobPath = ""
	a.history.Clear()
	a.panelID = ""
	a.setJob(job)

	msg := fmt.Sprintf("Imported %d panels.", len(result.Panels))
	if len(result.Warnings) > 0 {
		msg += "\n\nWarnings:\n" + strings.Join(result.Warnings, "\n")
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

func (a *App) defaultName(ext string) string {
	if a.jobPath != "" {
		return strings.TrimSuffix(filepath.Base(a.jobPath), filepath.Ext(a.jobPath)) + ext
	}
	if a.job.Name != "" {
		return a.job.Name + ext
	}
	return "sawplan" + ext
}
