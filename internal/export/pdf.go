package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SawPlan/internal/model"
)

// panelColor represents an RGB color for a placed panel.
type panelColor struct {
	R, G, B int
}

// panelColors mirrors the color scheme used in the viewer cut canvas.
var panelColors = []panelColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	rowHeight    = 6.0
)

// ExportPDF writes a cut sheet: the first page shows the sheet with every
// panel and every numbered cut line, the following pages list the cuts in
// order with their position, span and resulting piece.
func ExportPDF(path string, job model.Job, steps []model.CutStep) error {
	if err := checkExportable(job, steps); err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderDiagramPage(pdf, job, steps)

	renderCutTable(pdf, job, steps)

	return pdf.OutputFileAndClose(path)
}

// renderDiagramPage draws the sheet, panels and cut lines on the current page.
func renderDiagramPage(pdf *fpdf.Fpdf, job model.Job, steps []model.CutStep) {
	sheet := job.Sheet
	stats := model.Stats(steps)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%.0f x %.0f mm)", jobTitle(job), sheet.Width, sheet.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	line := fmt.Sprintf("Panels: %d | Cuts: %d (%d rip, %d crosscut) | Cut length: %.0f mm | Kerf: %.1f mm | Mode: %s | Efficiency: %.1f%%",
		len(job.Panels), stats.Cuts, stats.LengthCuts, stats.WidthCuts, stats.TotalLength, job.Kerf, job.Mode, job.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, line, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/sheet.Width, drawHeight/sheet.Height)

	canvasW := sheet.Width * scale
	canvasH := sheet.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Stock sheet background (wood color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, p := range job.Panels {
		col := panelColors[i%len(panelColors)]
		pw := p.Width * scale
		ph := p.Height * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			dims := fmt.Sprintf("%.0fx%.0f", p.Width, p.Height)
			idW := pdf.GetStringWidth(p.ID)
			dimsW := pdf.GetStringWidth(dims)

			if idW < pw-2 {
				pdf.SetXY(px+(pw-idW)/2, py+ph/2-4)
				pdf.CellFormat(idW, 4, p.ID, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawCutLines(pdf, steps, scale, offsetX, offsetY)
	drawDimensionAnnotations(pdf, sheet, offsetX, offsetY, canvasW, canvasH)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(marginLeft, offsetY+canvasH+6)
	legend := "Red: rip cuts (along the length). Blue: crosscuts (across the width). Numbers give the cutting order."
	pdf.CellFormat(drawWidth, 4, legend, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawCutLines draws each cut over its span with its 1-based number in a
// badge at the start of the line.
func drawCutLines(pdf *fpdf.Fpdf, steps []model.CutStep, scale, offsetX, offsetY float64) {
	for _, c := range steps {
		x1, y1, x2, y2 := c.Endpoints()
		if c.Axis == model.AxisX {
			pdf.SetDrawColor(200, 30, 30)
		} else {
			pdf.SetDrawColor(30, 60, 200)
		}
		pdf.SetLineWidth(math.Max(c.Kerf*scale, 0.4))
		pdf.Line(offsetX+x1*scale, offsetY+y1*scale, offsetX+x2*scale, offsetY+y2*scale)
	}

	pdf.SetFont("Helvetica", "B", 6)
	for _, c := range steps {
		x1, y1, _, _ := c.Endpoints()
		bx := offsetX + x1*scale
		by := offsetY + y1*scale
		if c.Axis == model.AxisX {
			by += 3
		} else {
			bx += 3
		}
		pdf.SetFillColor(255, 255, 255)
		pdf.SetLineWidth(0.2)
		pdf.Circle(bx, by, 2.2, "FD")

		num := fmt.Sprintf("%d", c.Order+1)
		w := pdf.GetStringWidth(num)
		pdf.SetXY(bx-w/2, by-1.5)
		pdf.CellFormat(w, 3, num, "", 0, "C", false, 0, "")
	}
}

// drawDimensionAnnotations adds width and height dimension labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sheet model.Dimensions, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", sheet.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f mm", sheet.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// renderCutTable lists every cut in order, starting a new page whenever the
// current one is full.
func renderCutTable(pdf *fpdf.Fpdf, job model.Job, steps []model.CutStep) {
	colWidths := []float64{12, 24, 30, 44, 28, 50, 50, 29}
	headers := []string{"#", "Type", "Position", "Span", "Length", "Workpiece", "Result", "Kerf"}

	header := func() float64 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(marginLeft, marginTop)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 8, "Cut Sequence: "+jobTitle(job), "", 0, "L", false, 0, "")

		y := marginTop + 12
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		x := marginLeft
		for i, h := range headers {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[i], rowHeight, h, "1", 0, "C", true, 0, "")
			x += colWidths[i]
		}
		pdf.SetFont("Helvetica", "", 9)
		return y + rowHeight
	}

	y := header()
	if len(steps) == 0 {
		pdf.SetXY(marginLeft, y+2)
		pdf.CellFormat(100, rowHeight, "No cuts required.", "", 0, "L", false, 0, "")
	}

	for i, c := range steps {
		if y+rowHeight > pageHeight-marginBottom-rowHeight {
			renderFooter(pdf)
			y = header()
		}
		row := []string{
			fmt.Sprintf("%d", c.Order+1),
			cutKind(c.Axis),
			fmt.Sprintf("%s = %.1f", c.Axis, c.Pos),
			fmt.Sprintf("%.1f - %.1f", c.SpanStart, c.SpanEnd),
			fmt.Sprintf("%.1f mm", c.Length()),
			fmt.Sprintf("%.0f x %.0f", c.Before.Width, c.Before.Height),
			fmt.Sprintf("%.0f x %.0f", c.Result.Width, c.Result.Height),
			fmt.Sprintf("%.1f mm", c.Kerf),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		x := marginLeft
		for j, cell := range row {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], rowHeight, cell, "1", 0, "C", true, 0, "")
			x += colWidths[j]
		}
		y += rowHeight
	}
	renderFooter(pdf)
}

func renderFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SawPlan - guillotine cut sequencer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
