package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SawPlan/internal/engine"
	"github.com/piwi3910/SawPlan/internal/model"
)

// LabelInfo holds the data encoded into each panel label's QR code.
type LabelInfo struct {
	PanelID string  `json:"id"`
	Width   float64 `json:"width_mm"`
	Height  float64 `json:"height_mm"`
	X       float64 `json:"x_mm"`
	Y       float64 `json:"y_mm"`
	Rotated bool    `json:"rotated"`
	Cuts    []int   `json:"cuts"` // 1-based numbers of the cuts along its edges
	Job     string  `json:"job"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per panel. Each label
// shows the panel ID, its size, its position on the sheet and the numbers of
// the cuts that free it, so the operator can tick them off at the saw.
func ExportLabels(path string, job model.Job, steps []model.CutStep) error {
	labels := CollectLabelInfos(job, steps)
	if len(labels) == 0 {
		return fmt.Errorf("no panels to generate labels for: %w", ErrNothingToExport)
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.PanelID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, index int, info LabelInfo) error {
	// Light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.PanelID, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f mm", info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("@ (%.0f, %.0f)", info.X, info.Y), "", 1, "L", false, 0, "")

	if len(info.Cuts) > 0 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		cuts := "Cuts: " + joinInts(info.Cuts)
		pdf.CellFormat(textW, 3, truncate(pdf, cuts, textW), "", 1, "L", false, 0, "")
	}

	if info.Rotated {
		pdf.SetXY(textX, y+labelPadding+16)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits into width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// CollectLabelInfos builds the label data for every non-empty panel of the
// job, in panel order.
func CollectLabelInfos(job model.Job, steps []model.CutStep) []LabelInfo {
	var labels []LabelInfo
	for _, p := range job.Panels {
		if p.Width <= 0 || p.Height <= 0 {
			continue
		}
		orders := engine.CutsTouching(p, steps)
		cuts := make([]int, len(orders))
		for i, o := range orders {
			cuts[i] = o + 1
		}
		labels = append(labels, LabelInfo{
			PanelID: p.ID,
			Width:   p.Width,
			Height:  p.Height,
			X:       p.X,
			Y:       p.Y,
			Rotated: p.Rotated,
			Cuts:    cuts,
			Job:     job.Name,
		})
	}
	return labels
}
