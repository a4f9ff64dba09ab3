package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SawPlan/internal/model"
)

func TestSaveAndLoadCustomProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.json")

	profiles := []model.GCodeProfile{
		{
			Name:          "PanelSaw",
			Description:   "Gantry saw with Grbl controller",
			IsBuiltIn:     true,
			Units:         "mm",
			StartCode:     []string{"G90", "G21"},
			SpindleStart:  "M3 S%d",
			SpindleStop:   "M5",
			RapidMove:     "G0",
			FeedMove:      "G1",
			EndCode:       []string{"M5", "M2"},
			CommentPrefix: ";",
			DecimalPlaces: 2,
		},
	}

	if err := SaveCustomProfiles(path, profiles); err != nil {
		t.Fatalf("SaveCustomProfiles failed: %v", err)
	}

	loaded, err := LoadCustomProfiles(path)
	if err != nil {
		t.Fatalf("LoadCustomProfiles failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(loaded))
	}
	if loaded[0].Name != "PanelSaw" {
		t.Errorf("expected name PanelSaw, got %s", loaded[0].Name)
	}
	if loaded[0].IsBuiltIn {
		t.Error("loaded profiles must not be marked built-in")
	}
	if loaded[0].DecimalPlaces != 2 {
		t.Errorf("expected 2 decimal places, got %d", loaded[0].DecimalPlaces)
	}
}

func TestLoadCustomProfilesMissingFile(t *testing.T) {
	profiles, err := LoadCustomProfiles(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profiles == nil || len(profiles) != 0 {
		t.Errorf("expected empty slice, got %v", profiles)
	}
}

func TestImportProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saw.json")
	data := []byte(`{
  // shared by the workshop
  "name": "Workshop",
  "rapid_move": "G0",
  "feed_move": "G1",
  "is_built_in": true,
}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	p, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}
	if p.Name != "Workshop" || p.IsBuiltIn {
		t.Errorf("unexpected profile %+v", p)
	}

	noName := filepath.Join(dir, "anon.json")
	if err := os.WriteFile(noName, []byte(`{"feed_move":"G1"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportProfile(noName); err == nil {
		t.Error("expected error for profile without a name")
	}
}

func TestResolveProfile(t *testing.T) {
	custom := []model.GCodeProfile{{Name: "Grbl", Description: "tuned"}, {Name: "PanelSaw"}}

	if p := ResolveProfile("Grbl", custom); p.Description != "tuned" {
		t.Errorf("custom profile should shadow built-in, got %q", p.Description)
	}
	if p := ResolveProfile("Mach3", custom); p.Name != "Mach3" {
		t.Errorf("expected built-in Mach3, got %s", p.Name)
	}
	if p := ResolveProfile("missing", nil); p.Name != "Generic" {
		t.Errorf("expected Generic fallback, got %s", p.Name)
	}
}

func TestExportProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared", "grbl_copy.json")

	p := model.GetProfile("Grbl")
	p.Name = "Grbl Copy"
	if err := ExportProfile(path, p); err != nil {
		t.Fatalf("ExportProfile failed: %v", err)
	}

	got, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}
	if got.Name != "Grbl Copy" {
		t.Errorf("expected name 'Grbl Copy', got %q", got.Name)
	}
	if got.IsBuiltIn {
		t.Error("exported profile must not be marked built-in")
	}
	if got.DecimalPlaces != 3 || len(got.EndCode) != 3 {
		t.Errorf("profile fields lost in round trip: %+v", got)
	}
}
