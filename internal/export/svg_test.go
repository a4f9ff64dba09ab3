package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderSVG(t *testing.T) {
	job, steps := buildTestJob(t)

	var buf bytes.Buffer
	if err := RenderSVG(&buf, job, steps, SVGOptions{}); err != nil {
		t.Fatalf("RenderSVG returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Errorf("output is not an SVG document: %.80s", out)
	}
}

func TestRenderSVG_Step(t *testing.T) {
	job, steps := buildTestJob(t)

	var all, first bytes.Buffer
	if err := RenderSVG(&all, job, steps, SVGOptions{Scale: 0.5}); err != nil {
		t.Fatalf("RenderSVG returned error: %v", err)
	}
	if err := RenderSVG(&first, job, steps, SVGOptions{Scale: 0.5, Step: 1}); err != nil {
		t.Fatalf("RenderSVG(step 1) returned error: %v", err)
	}
	if bytes.Equal(all.Bytes(), first.Bytes()) {
		t.Error("step 1 frame should differ from the full diagram")
	}

	if err := RenderSVG(&bytes.Buffer{}, job, steps, SVGOptions{Step: 3}); err == nil {
		t.Error("expected error for step past the last cut")
	}
}

func TestExportSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuts.svg")
	job, steps := buildTestJob(t)

	if err := ExportSVG(path, job, steps, SVGOptions{}); err != nil {
		t.Fatalf("ExportSVG returned error: %v", err)
	}
	assertFileWritten(t, path, 100)
}
