// Package importer reads panel placements produced by a nesting tool from
// CSV, Excel and DXF files. CSV and Excel files support automatic delimiter
// detection, flexible column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SawPlan/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Panels   []model.PanelPlacement
	Sheet    *model.Dimensions // set when the source outlines the sheet
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID      int
	X       int
	Y       int
	Width   int
	Height  int
	Rotated int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":      {"id", "label", "name", "part", "panel", "piece", "item"},
	"x":       {"x", "left", "pos x", "offset x", "x offset"},
	"y":       {"y", "top", "pos y", "offset y", "y offset"},
	"width":   {"width", "w", "length", "len"},
	"height":  {"height", "h", "depth", "d"},
	"rotated": {"rotated", "rot", "rotation", "turned"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping id, x, y, width, height, rotated and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, X: -1, Y: -1, Width: -1, Height: -1, Rotated: -1}
	slots := map[string]*int{
		"id":      &mapping.ID,
		"x":       &mapping.X,
		"y":       &mapping.Y,
		"width":   &mapping.Width,
		"height":  &mapping.Height,
		"rotated": &mapping.Rotated,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if slot := slots[role]; *slot == -1 {
						*slot = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{ID: 0, X: 1, Y: 2, Width: 3, Height: 4, Rotated: 5}, false
	}
	return mapping, true
}

// parseRotated reports the rotation flag and whether the string was recognized.
func parseRotated(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "rotated", "90":
		return true, true
	case "", "no", "n", "false", "0", "-":
		return false, true
	default:
		return false, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNumber(row []string, idx int, name, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts a placement from a row using the given column mapping.
// Returns the placement, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.PanelPlacement, string, string) {
	var p model.PanelPlacement
	var errMsg string

	if p.X, errMsg = parseNumber(row, mapping.X, "x", rowLabel); errMsg != "" {
		return p, errMsg, ""
	}
	if p.Y, errMsg = parseNumber(row, mapping.Y, "y", rowLabel); errMsg != "" {
		return p, errMsg, ""
	}
	if p.Width, errMsg = parseNumber(row, mapping.Width, "width", rowLabel); errMsg != "" {
		return p, errMsg, ""
	}
	if p.Height, errMsg = parseNumber(row, mapping.Height, "height", rowLabel); errMsg != "" {
		return p, errMsg, ""
	}

	if p.Width <= 0 || p.Height <= 0 {
		return p, fmt.Sprintf("%s: Width and height must be positive", rowLabel), ""
	}
	if p.X < 0 || p.Y < 0 {
		return p, fmt.Sprintf("%s: Offsets must not be negative", rowLabel), ""
	}

	p.ID = getCell(row, mapping.ID)
	if p.ID == "" {
		p.ID = uuid.New().String()[:8]
	}

	var warning string
	if s := getCell(row, mapping.Rotated); s != "" {
		rotated, ok := parseRotated(s)
		if ok {
			p.Rotated = rotated
		} else {
			warning = fmt.Sprintf("%s: Unknown rotation '%s', assuming not rotated", rowLabel, s)
		}
	}

	return p, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports placements from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports placements from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports placements from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 5 {
		// An unrecognized header: the x column is not numeric.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := map[string]bool{}
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		p, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if seen[p.ID] {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate panel id '%s'", rowLabel, p.ID))
			continue
		}
		seen[p.ID] = true
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Panels = append(result.Panels, p)
	}

	return result
}
