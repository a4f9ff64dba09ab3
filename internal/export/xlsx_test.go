package export

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuts.xlsx")
	job, steps := buildTestJob(t)

	if err := ExportXLSX(path, job, steps); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot open workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Cuts", "Panels", "Summary"}) {
		t.Errorf("sheet list = %v", got)
	}

	cuts, err := f.GetRows("Cuts")
	if err != nil {
		t.Fatalf("GetRows(Cuts): %v", err)
	}
	if len(cuts) != 3 {
		t.Fatalf("expected header + 2 cut rows, got %d", len(cuts))
	}
	if cuts[0][0] != "#" || cuts[0][2] != "Type" {
		t.Errorf("unexpected header: %v", cuts[0])
	}
	if cuts[1][0] != "1" || cuts[1][1] != "cut-0" || cuts[1][2] != "Rip" || cuts[1][4] != "400" {
		t.Errorf("unexpected first cut row: %v", cuts[1])
	}
	if cuts[2][2] != "Crosscut" || cuts[2][4] != "250" {
		t.Errorf("unexpected second cut row: %v", cuts[2])
	}

	panels, err := f.GetRows("Panels")
	if err != nil {
		t.Fatalf("GetRows(Panels): %v", err)
	}
	if len(panels) != 4 {
		t.Fatalf("expected header + 3 panel rows, got %d", len(panels))
	}
	if panels[2][0] != "B" || panels[2][6] != "1, 2" {
		t.Errorf("unexpected panel row: %v", panels[2])
	}

	v, err := f.GetCellValue("Summary", "B7")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if v != "2" {
		t.Errorf("summary cut count = %q, want 2", v)
	}
}

func TestExportXLSX_EmptyJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	job, _ := buildTestJob(t)
	job.Panels = nil

	if err := ExportXLSX(path, job, nil); err == nil {
		t.Fatal("expected error for empty job, got nil")
	}
}
