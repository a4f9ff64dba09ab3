package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// profileNames lists built-in profiles followed by custom ones.
func (a *App) profileNames() []string {
	var names []string
	for _, p := range a.allProfiles() {
		names = append(names, p.Name)
	}
	return names
}

// showMachineSettingsDialog edits the G-code machine settings. Changes are
// saved as the new config defaults and the preview is regenerated.
func (a *App) showMachineSettingsDialog() {
	s := a.settings

	profileSelect := widget.NewSelect(a.profileNames(), func(selected string) {
		s.GCodeProfile = selected
	})
	profileSelect.SetSelected(s.GCodeProfile)

	manageProfileBtn := widget.NewButtonWithIcon("Manage", theme.SettingsIcon(), func() {
		a.showProfileManager()
	})

	feedSection := widget.NewCard("Feeds and Speeds", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Feed Rate (mm/min)"), floatEntry(&s.FeedRate),
			widget.NewLabel("Plunge Rate (mm/min)"), floatEntry(&s.PlungeRate),
			widget.NewLabel("Spindle Speed (RPM)"), intEntry(&s.SpindleSpeed),
		))

	depthSection := widget.NewCard("Depth", "Each cut runs in passes of Pass Depth down to Cut Depth",
		container.NewGridWithColumns(2,
			widget.NewLabel("Safe Z (mm)"), floatEntry(&s.SafeZ),
			widget.NewLabel("Cut Depth (mm)"), floatEntry(&s.CutDepth),
			widget.NewLabel("Pass Depth (mm)"), floatEntry(&s.PassDepth),
			widget.NewLabel("Overrun (mm)"), floatEntry(&s.Overrun),
		))

	profileSection := widget.NewCard("G-code Profile", "",
		container.NewBorder(nil, nil, nil, manageProfileBtn, profileSelect))

	content := container.NewVScroll(container.NewVBox(profileSection, feedSection, depthSection))

	d := dialog.NewCustomConfirm("Machine Settings", "Save", "Cancel", content, func(ok bool) {
		if !ok {
			return
		}
		a.settings = s
		a.config.DefaultFeedRate = s.FeedRate
		a.config.DefaultPlungeRate = s.PlungeRate
		a.config.DefaultSpindleSpeed = s.SpindleSpeed
		a.config.DefaultSafeZ = s.SafeZ
		a.config.DefaultCutDepth = s.CutDepth
		a.config.DefaultPassDepth = s.PassDepth
		a.config.DefaultGCodeProfile = s.GCodeProfile
		if err := a.saveConfig(); err != nil {
			dialog.ShowError(err, a.window)
		}
		a.refreshGCode()
	}, a.window)
	d.Resize(fyne.NewSize(520, 520))
	d.Show()
}
