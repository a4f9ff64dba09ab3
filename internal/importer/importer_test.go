package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "id,x,y,width,height\na,0,0,100,200\n", ','},
		{"semicolon", "id;x;y;width;height\na;0;0;100,5;200\n", ';'},
		{"tab", "id\tx\ty\twidth\theight\na\t0\t0\t100\t200\n", '\t'},
		{"pipe", "id|x|y|width|height\na|0|0|100|200\n", '|'},
	}
	for _, tt := range tests {
		if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, ok := DetectColumns([]string{"ID", "X", "Y", "Width", "Height", "Rotated"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{ID: 0, X: 1, Y: 2, Width: 3, Height: 4, Rotated: 5}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Length", "Depth", "Left", "Top", "Part"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.Width != 0 || mapping.Height != 1 || mapping.X != 2 || mapping.Y != 3 || mapping.ID != 4 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
	if mapping.Rotated != -1 {
		t.Errorf("expected no rotated column, got %d", mapping.Rotated)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, ok := DetectColumns([]string{"a", "0", "0", "100", "200"})
	if ok {
		t.Fatal("expected no header")
	}
	if mapping.X != 1 || mapping.Height != 4 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "ID,X,Y,Width,Height,Rotated\nside,0,0,600,1200,no\ntop,603.2,0,800,560,yes\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(result.Panels))
	}

	p := result.Panels[1]
	if p.ID != "top" {
		t.Errorf("expected id 'top', got '%s'", p.ID)
	}
	if p.X != 603.2 || p.Y != 0 {
		t.Errorf("expected offset (603.2, 0), got (%f, %f)", p.X, p.Y)
	}
	if p.Width != 800 || p.Height != 560 {
		t.Errorf("expected size 800x560, got %fx%f", p.Width, p.Height)
	}
	if !p.Rotated {
		t.Error("expected panel to be rotated")
	}
	if result.Panels[0].Rotated {
		t.Error("expected first panel not rotated")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "a,0,0,100,200\nb,103,0,100,200\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Panels) != 2 {
		t.Fatalf("expected 2 panels, got %d (errors: %v)", len(result.Panels), result.Errors)
	}
	if result.Panels[1].X != 103 {
		t.Errorf("expected x=103, got %f", result.Panels[1].X)
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	data := "Stück,Pos,Höhe,Breite,Länge\na,0,0,100,200\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Panels) != 1 {
		t.Fatalf("expected 1 panel, got %d (errors: %v)", len(result.Panels), result.Errors)
	}
}

func TestImportCSVFromReader_ReorderedColumns(t *testing.T) {
	data := "width;height;x;y;name\n400;300;10;20;door\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Panels) != 1 {
		t.Fatalf("expected 1 panel, got %d (errors: %v)", len(result.Panels), result.Errors)
	}
	p := result.Panels[0]
	if p.ID != "door" || p.X != 10 || p.Y != 20 || p.Width != 400 || p.Height != 300 {
		t.Errorf("unexpected panel %+v", p)
	}
}

func TestImportCSVFromReader_MissingID(t *testing.T) {
	data := "x,y,width,height\n0,0,100,100\n200,0,100,100\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(result.Panels))
	}
	if len(result.Panels[0].ID) != 8 {
		t.Errorf("expected generated 8 character id, got '%s'", result.Panels[0].ID)
	}
	if result.Panels[0].ID == result.Panels[1].ID {
		t.Error("generated ids must differ")
	}
}

func TestImportCSVFromReader_MissingRequiredColumn(t *testing.T) {
	data := "id,x,width,height\na,0,100,100\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Y") {
		t.Errorf("expected missing Y column error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	data := "id,x,y,width,height\n" +
		"good,0,0,100,100\n" +
		"badw,0,0,abc,100\n" +
		"zero,0,0,0,100\n" +
		"neg,-5,0,100,100\n" +
		"good,0,0,100,100\n" +
		"short,0,0\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Panels) != 1 {
		t.Errorf("expected 1 valid panel, got %d", len(result.Panels))
	}
	if len(result.Errors) != 5 {
		t.Fatalf("expected 5 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Line 3") || !strings.Contains(result.Errors[0], "Invalid width") {
		t.Errorf("unexpected first error: %s", result.Errors[0])
	}
	if !strings.Contains(result.Errors[3], "Duplicate panel id 'good'") {
		t.Errorf("expected duplicate id error, got %s", result.Errors[3])
	}
	if !strings.Contains(result.Errors[4], "Missing width") {
		t.Errorf("expected missing width error, got %s", result.Errors[4])
	}
}

func TestImportCSVFromReader_UnknownRotation(t *testing.T) {
	data := "id,x,y,width,height,rotated\na,0,0,100,100,sideways\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Panels) != 1 || result.Panels[0].Rotated {
		t.Fatalf("expected one unrotated panel, got %+v", result.Panels)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Unknown rotation") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected rotation warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_EmptyRows(t *testing.T) {
	data := "a,0,0,100,100\n,,,,\n\nb,200,0,100,100\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Panels) != 2 {
		t.Errorf("expected 2 panels, got %d (errors: %v)", len(result.Panels), result.Errors)
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.csv")
	data := "id;x;y;width;height\na;0;0;100;200\nb;103.2;0;100;200\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)
	if len(result.Panels) != 2 {
		t.Fatalf("expected 2 panels, got %d (errors: %v)", len(result.Panels), result.Errors)
	}
	if result.Panels[1].X != 103.2 {
		t.Errorf("expected x=103.2, got %f", result.Panels[1].X)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	result := ImportCSV(path)
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Panel", "X", "Y", "Width", "Height", "Rotated"},
		{"shelf", 0, 0, 600, 300, "no"},
		{"door", 603.5, 0, 400, 800, "yes"},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(result.Panels))
	}
	if result.Panels[1].ID != "door" || result.Panels[1].X != 603.5 || !result.Panels[1].Rotated {
		t.Errorf("unexpected panel %+v", result.Panels[1])
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"shelf", 0, 0, 600, 300},
		{"door", 603, 0, 400, 800},
	})

	result := ImportExcel(path)

	if len(result.Panels) != 2 {
		t.Fatalf("expected 2 panels, got %d (errors: %v)", len(result.Panels), result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── Rotation Parsing ──────────────────────────────────────

func TestParseRotated(t *testing.T) {
	tests := []struct {
		input string
		want  bool
		known bool
	}{
		{"yes", true, true},
		{"TRUE", true, true},
		{"1", true, true},
		{"", false, true},
		{"no", false, true},
		{"-", false, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		got, known := parseRotated(tt.input)
		if got != tt.want || known != tt.known {
			t.Errorf("parseRotated(%q) = %v, %v; want %v, %v", tt.input, got, known, tt.want, tt.known)
		}
	}
}
