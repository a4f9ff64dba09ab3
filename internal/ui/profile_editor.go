package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/piwi3910/SawPlan/internal/project"
)

// allProfiles returns the built-in profiles followed by the custom ones.
func (a *App) allProfiles() []model.GCodeProfile {
	all := make([]model.GCodeProfile, 0, len(model.GCodeProfiles)+len(a.profiles))
	all = append(all, model.GCodeProfiles...)
	return append(all, a.profiles...)
}

// upsertProfile adds p to custom or replaces the custom profile with the
// same name. Built-in names are rejected.
func upsertProfile(custom []model.GCodeProfile, p model.GCodeProfile) ([]model.GCodeProfile, error) {
	if strings.TrimSpace(p.Name) == "" {
		return custom, fmt.Errorf("profile name cannot be empty")
	}
	for _, b := range model.GCodeProfiles {
		if b.Name == p.Name {
			return custom, fmt.Errorf("%q is a built-in profile name", p.Name)
		}
	}
	p.IsBuiltIn = false
	out := make([]model.GCodeProfile, 0, len(custom)+1)
	replaced := false
	for _, c := range custom {
		if c.Name == p.Name {
			out = append(out, p)
			replaced = true
			continue
		}
		out = append(out, c)
	}
	if !replaced {
		out = append(out, p)
	}
	return out, nil
}

// removeProfile drops the custom profile called name.
func removeProfile(custom []model.GCodeProfile, name string) ([]model.GCodeProfile, bool) {
	out := make([]model.GCodeProfile, 0, len(custom))
	found := false
	for _, c := range custom {
		if c.Name == name {
			found = true
			continue
		}
		out = append(out, c)
	}
	return out, found
}

// showProfileManager opens the profile management window where users can
// view, duplicate, edit, delete, import and export G-code profiles.
func (a *App) showProfileManager() {
	w := a.app.NewWindow("G-code Profile Manager")
	w.Resize(fyne.NewSize(700, 500))

	selectedIdx := -1
	profiles := a.allProfiles()
	detail := container.NewVBox(widget.NewLabel("Select a profile to view details."))

	var list *widget.List
	reload := func() {
		profiles = a.allProfiles()
		selectedIdx = -1
		list.UnselectAll()
		list.Refresh()
		detail.RemoveAll()
		detail.Add(widget.NewLabel("Select a profile to view details."))
		a.refreshGCode()
	}

	list = widget.NewList(
		func() int { return len(profiles) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Profile Name"),
				layout.NewSpacer(),
				widget.NewLabel("(built-in)"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			p := profiles[id]
			box.Objects[1].(*widget.Label).SetText(p.Name)
			if p.IsBuiltIn {
				box.Objects[3].(*widget.Label).SetText("(built-in)")
			} else {
				box.Objects[3].(*widget.Label).SetText("(custom)")
			}
		},
	)
	list.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		a.showProfileDetail(detail, profiles[id], w, reload)
	}

	selected := func(action string) (model.GCodeProfile, bool) {
		if selectedIdx < 0 || selectedIdx >= len(profiles) {
			dialog.ShowInformation("No Selection", "Select a profile to "+action+".", w)
			return model.GCodeProfile{}, false
		}
		return profiles[selectedIdx], true
	}

	duplicateBtn := widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), func() {
		if p, ok := selected("duplicate"); ok {
			a.duplicateProfile(p, w, reload)
		}
	})
	importBtn := widget.NewButtonWithIcon("Import", theme.FolderOpenIcon(), func() {
		a.importProfileDialog(w, reload)
	})
	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
		if p, ok := selected("export"); ok {
			a.exportProfileDialog(p, w)
		}
	})
	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		p, ok := selected("delete")
		if !ok {
			return
		}
		if p.IsBuiltIn {
			dialog.ShowInformation("Cannot Delete", "Built-in profiles cannot be deleted.", w)
			return
		}
		dialog.ShowConfirm("Delete Profile", fmt.Sprintf("Delete custom profile %q?", p.Name), func(ok bool) {
			if !ok {
				return
			}
			a.profiles, _ = removeProfile(a.profiles, p.Name)
			a.persistCustomProfiles(w)
			reload()
		}, w)
	})

	listPanel := container.NewBorder(
		widget.NewLabelWithStyle("Profiles", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(duplicateBtn, importBtn, exportBtn, deleteBtn),
		nil, nil,
		list,
	)
	detailPanel := container.NewBorder(
		widget.NewLabelWithStyle("Profile Details", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewVScroll(detail),
	)

	split := container.NewHSplit(listPanel, detailPanel)
	split.SetOffset(0.35)
	w.SetContent(split)
	w.Show()
}

// showProfileDetail populates the detail pane with profile information and an edit button.
func (a *App) showProfileDetail(c *fyne.Container, p model.GCodeProfile, w fyne.Window, onChanged func()) {
	c.RemoveAll()

	bold := func(s string) *widget.Label {
		return widget.NewLabelWithStyle(s, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	}

	if p.IsBuiltIn {
		c.Add(widget.NewLabel("Built-in profiles are read-only. Duplicate to customize."))
	} else {
		c.Add(widget.NewButtonWithIcon("Edit Profile", theme.DocumentCreateIcon(), func() {
			a.showEditProfileDialog(p, w, onChanged)
		}))
	}

	c.Add(container.NewVBox(
		bold(p.Name),
		widget.NewLabel(p.Description),
		widget.NewSeparator(),
		container.NewGridWithColumns(2,
			bold("Units:"), widget.NewLabel(p.Units),
			bold("Decimal Places:"), widget.NewLabel(strconv.Itoa(p.DecimalPlaces)),
			widget.NewLabel("Rapid Move:"), widget.NewLabel(p.RapidMove),
			widget.NewLabel("Feed Move:"), widget.NewLabel(p.FeedMove),
			widget.NewLabel("Spindle Start:"), widget.NewLabel(p.SpindleStart),
			widget.NewLabel("Spindle Stop:"), widget.NewLabel(p.SpindleStop),
			widget.NewLabel("Comment Prefix:"), widget.NewLabel(fmt.Sprintf("%q", p.CommentPrefix)),
			widget.NewLabel("Comment Suffix:"), widget.NewLabel(fmt.Sprintf("%q", p.CommentSuffix)),
		),
		widget.NewSeparator(),
		bold("Start Code"),
		widget.NewLabel(strings.Join(p.StartCode, "\n")),
		bold("End Code"),
		widget.NewLabel(strings.Join(p.EndCode, "\n")),
	))
	c.Refresh()
}

// duplicateProfile creates a custom copy of an existing profile.
func (a *App) duplicateProfile(source model.GCodeProfile, w fyne.Window, onCreated func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(source.Name + " (Copy)")

	form := dialog.NewForm("Duplicate Profile", "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("New Profile Name", nameEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			dup := source
			dup.Name = strings.TrimSpace(nameEntry.Text)
			dup.Description = "Copy of " + source.Name
			dup.StartCode = append([]string(nil), source.StartCode...)
			dup.EndCode = append([]string(nil), source.EndCode...)

			profiles, err := upsertProfile(a.profiles, dup)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			a.profiles = profiles
			a.persistCustomProfiles(w)
			onCreated()
		},
		w,
	)
	form.Resize(fyne.NewSize(400, 150))
	form.Show()
}

// showEditProfileDialog edits a custom profile in place.
func (a *App) showEditProfileDialog(p model.GCodeProfile, w fyne.Window, onSaved func()) {
	entry := func(text string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(text)
		return e
	}
	multi := func(lines []string) *widget.Entry {
		e := widget.NewMultiLineEntry()
		e.SetText(strings.Join(lines, "\n"))
		e.SetMinRowsVisible(4)
		return e
	}

	nameEntry := entry(p.Name)
	descEntry := entry(p.Description)
	unitsSelect := widget.NewSelect([]string{"mm", "inches"}, nil)
	unitsSelect.SetSelected(p.Units)
	decimalEntry := entry(strconv.Itoa(p.DecimalPlaces))
	rapidEntry := entry(p.RapidMove)
	feedEntry := entry(p.FeedMove)
	spindleStartEntry := entry(p.SpindleStart)
	spindleStopEntry := entry(p.SpindleStop)
	prefixEntry := entry(p.CommentPrefix)
	suffixEntry := entry(p.CommentSuffix)
	startCodeEntry := multi(p.StartCode)
	endCodeEntry := multi(p.EndCode)

	tabs := container.NewAppTabs(
		container.NewTabItem("General", container.NewGridWithColumns(2,
			widget.NewLabel("Name"), nameEntry,
			widget.NewLabel("Description"), descEntry,
			widget.NewLabel("Units"), unitsSelect,
			widget.NewLabel("Decimal Places"), decimalEntry,
		)),
		container.NewTabItem("Commands", container.NewGridWithColumns(2,
			widget.NewLabel("Rapid Move"), rapidEntry,
			widget.NewLabel("Feed Move"), feedEntry,
			widget.NewLabel("Spindle Start (use %d for RPM)"), spindleStartEntry,
			widget.NewLabel("Spindle Stop"), spindleStopEntry,
			widget.NewLabel("Comment Prefix"), prefixEntry,
			widget.NewLabel("Comment Suffix"), suffixEntry,
		)),
		container.NewTabItem("Start/End Code", container.NewVBox(
			widget.NewLabelWithStyle("Start Code (one command per line)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			startCodeEntry,
			widget.NewLabelWithStyle("End Code ([SafeZ] is replaced)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			endCodeEntry,
		)),
	)

	editWindow := a.app.NewWindow("Edit Profile: " + p.Name)

	saveBtn := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		decimals, err := strconv.Atoi(strings.TrimSpace(decimalEntry.Text))
		if err != nil || decimals < 0 || decimals > 10 {
			dialog.ShowError(fmt.Errorf("decimal places must be a number between 0 and 10"), editWindow)
			return
		}

		updated := model.GCodeProfile{
			Name:          strings.TrimSpace(nameEntry.Text),
			Description:   descEntry.Text,
			Units:         unitsSelect.Selected,
			StartCode:     splitLines(startCodeEntry.Text),
			SpindleStart:  spindleStartEntry.Text,
			SpindleStop:   spindleStopEntry.Text,
			RapidMove:     rapidEntry.Text,
			FeedMove:      feedEntry.Text,
			EndCode:       splitLines(endCodeEntry.Text),
			CommentPrefix: prefixEntry.Text,
			CommentSuffix: suffixEntry.Text,
			DecimalPlaces: decimals,
		}

		profiles := a.profiles
		if updated.Name != p.Name {
			profiles, _ = removeProfile(profiles, p.Name)
		}
		profiles, err = upsertProfile(profiles, updated)
		if err != nil {
			dialog.ShowError(err, editWindow)
			return
		}
		a.profiles = profiles
		a.persistCustomProfiles(w)
		editWindow.Close()
		onSaved()
	})
	saveBtn.Importance = widget.HighImportance

	editWindow.SetContent(container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), saveBtn), nil, nil, tabs))
	editWindow.Resize(fyne.NewSize(600, 460))
	editWindow.Show()
}

// importProfileDialog opens a file dialog to import a profile from JSON.
func (a *App) importProfileDialog(w fyne.Window, onImported func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		profile, err := project.ImportProfile(path)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to import profile: %w", err), w)
			return
		}
		profiles, err := upsertProfile(a.profiles, profile)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		a.profiles = profiles
		a.persistCustomProfiles(w)
		onImported()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Profile %q imported successfully.", profile.Name), w)
	}, w)
}

// exportProfileDialog opens a file save dialog to export a profile to JSON.
func (a *App) exportProfileDialog(p model.GCodeProfile, w fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := project.ExportProfile(path, p); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export profile: %w", err), w)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Profile %q exported successfully.", p.Name), w)
	}, w)
	d.SetFileName(strings.ReplaceAll(strings.ToLower(p.Name), " ", "_") + "_profile.json")
	d.Show()
}

// persistCustomProfiles saves the current custom profiles to disk.
func (a *App) persistCustomProfiles(w fyne.Window) {
	if err := project.SaveCustomProfiles(a.profilesPath(), a.profiles); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save profiles: %w", err), w)
	}
}

// splitLines splits a multiline string into trimmed, non-empty lines.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
