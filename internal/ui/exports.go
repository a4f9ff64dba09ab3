package ui

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/piwi3910/SawPlan/internal/export"
)

// exportFile asks for a destination and writes the current sequence in the
// given format.
func (a *App) exportFile(format, ext string) {
	if len(a.job.Panels) == 0 && len(a.steps) == 0 {
		dialog.ShowInformation("Nothing to export", "Open or import a job first.", a.window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		switch format {
		case "pdf":
			err = export.ExportPDF(path, a.job, a.steps)
		case "labels":
			err = export.ExportLabels(path, a.job, a.steps)
		case "xlsx":
			err = export.ExportXLSX(path, a.job, a.steps)
		case "dxf":
			err = export.ExportDXF(path, a.job, a.steps)
		case "svg":
			err = export.ExportSVG(path, a.job, a.steps, export.SVGOptions{})
		default:
			err = fmt.Errorf("unknown export format %q", format)
		}
		if err != nil {
			dialog.ShowError(fmt.Errorf("export failed: %w", err), a.window)
			return
		}
		slog.Info("exported", "format", format, "file", path, "cuts", len(a.steps))
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to:\n%s", path), a.window)
	}, a.window)
	d.SetFileName(a.defaultName(ext))
	d.Show()
}

func (a *App) exportGCode() {
	if len(a.steps) == 0 {
		dialog.ShowInformation("No cuts", "The current job has no cuts to run.", a.window)
		return
	}
	code := a.generator().Generate(a.job, a.steps)

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if _, err := writer.Write([]byte(code)); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("G-code saved to:\n%s", writer.URI().Path()), a.window)
	}, a.window)
	d.SetFileName(a.defaultName(".nc"))
	d.Show()
}
