// SawPlan Viewer: Guillotine Cut Sequence Player
//
// A desktop viewer that derives the cut sequence of a nested sheet layout
// and animates it cut by cut.
//
// Build:
//   go build -o sawplan-viewer ./cmd/sawplan-viewer
//
// Using fyne-cross for packaging:
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64
//
// Usage:
//   sawplan-viewer [job-file]

package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/SawPlan/internal/project"
	"github.com/piwi3910/SawPlan/internal/ui"
)

func main() {
	application := app.NewWithID("com.piwi3910.sawplan")
	application.Settings().SetTheme(ui.NewSawPlanTheme())

	window := application.NewWindow("SawPlan — Cut Sequence Viewer")

	appUI := ui.NewApp(application, window, project.DefaultConfigPath())
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1280, 800))
	window.CenterOnScreen()

	if len(os.Args) > 1 {
		appUI.OpenJob(os.Args[1])
	}

	window.ShowAndRun()
}
