package engine

import (
	"errors"
	"testing"

	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compareJob() model.Job {
	return model.Job{
		Name:  "compare",
		Sheet: model.Dimensions{Width: 1000, Height: 500},
		Kerf:  3,
		Mode:  model.ModeLengthFirst,
		Panels: []model.PanelPlacement{
			{ID: "A", X: 100, Y: 100, Width: 200, Height: 100},
			{ID: "B", X: 500, Y: 300, Width: 100, Height: 100},
		},
	}
}

func TestCompareModes_CoversEveryMode(t *testing.T) {
	results := CompareModes(compareJob())
	require.Len(t, results, len(model.Modes))

	for i, r := range results {
		assert.Equal(t, model.Modes[i], r.Mode)
		assert.NoError(t, r.Err)
		assert.Positive(t, r.Stats.Cuts, "mode %s", r.Mode)
		assert.Equal(t, r.Stats.Cuts, r.Stats.LengthCuts+r.Stats.WidthCuts)
	}
}

func TestCompareModes_PerPanelTotalsEverySequence(t *testing.T) {
	var perPanel ModeComparison
	for _, r := range CompareModes(compareJob()) {
		if r.Mode == model.ModePerPanel {
			perPanel = r
		}
	}

	// Two panels, four full-sheet edges each.
	assert.Equal(t, 8, perPanel.Stats.Cuts)
	assert.Equal(t, 4, perPanel.Stats.LengthCuts)
	assert.Equal(t, 4, perPanel.Stats.WidthCuts)
	assert.InDelta(t, 6000.0, perPanel.Stats.TotalLength, 1e-9)
}

func TestCompareModes_InvalidJob(t *testing.T) {
	job := compareJob()
	job.Kerf = -1

	for _, r := range CompareModes(job) {
		assert.True(t, errors.Is(r.Err, model.ErrInvalidKerf), "mode %s: %v", r.Mode, r.Err)
		assert.Zero(t, r.Stats.Cuts)
	}
}

func TestBestMode(t *testing.T) {
	results := []ModeComparison{
		{Mode: model.ModeLengthFirst, Stats: model.SequenceStats{TotalLength: 900}},
		{Mode: model.ModeWidthFirst, Stats: model.SequenceStats{TotalLength: 700}},
		{Mode: model.ModePerPanel, Stats: model.SequenceStats{TotalLength: 100}},
	}
	best, ok := BestMode(results)
	require.True(t, ok)
	assert.Equal(t, model.ModeWidthFirst, best, "per-panel is never the best mode")

	results[1].Err = errors.New("boom")
	best, ok = BestMode(results)
	require.True(t, ok)
	assert.Equal(t, model.ModeLengthFirst, best)
}

func TestBestMode_TieGoesToFirst(t *testing.T) {
	results := []ModeComparison{
		{Mode: model.ModeLengthFirst, Stats: model.SequenceStats{TotalLength: 500}},
		{Mode: model.ModeWidthFirst, Stats: model.SequenceStats{TotalLength: 500}},
	}
	best, ok := BestMode(results)
	require.True(t, ok)
	assert.Equal(t, model.ModeLengthFirst, best)
}

func TestBestMode_NoCandidate(t *testing.T) {
	_, ok := BestMode([]ModeComparison{{Mode: model.ModePerPanel}})
	assert.False(t, ok)

	_, ok = BestMode(nil)
	assert.False(t, ok)
}
