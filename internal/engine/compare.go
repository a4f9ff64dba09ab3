package engine

import (
	"github.com/piwi3910/SawPlan/internal/model"
)

// ModeComparison holds the statistics of one derivation mode for a job.
type ModeComparison struct {
	Mode  model.Mode          `json:"mode"`
	Stats model.SequenceStats `json:"stats"`
	Err   error               `json:"-"`
}

// CompareModes derives the job under every mode so the sequences can be
// compared side by side. Per-panel mode is totalled over the independent
// sequence of each panel.
func CompareModes(job model.Job) []ModeComparison {
	results := make([]ModeComparison, 0, len(model.Modes))

	for _, mode := range model.Modes {
		cmp := ModeComparison{Mode: mode}
		if mode == model.ModePerPanel {
			seqs, err := PanelSequences(job.Sheet, job.Panels, job.Kerf)
			cmp.Err = err
			for _, s := range seqs {
				st := model.Stats(s.Steps)
				cmp.Stats.Cuts += st.Cuts
				cmp.Stats.LengthCuts += st.LengthCuts
				cmp.Stats.WidthCuts += st.WidthCuts
				cmp.Stats.TotalLength += st.TotalLength
			}
		} else {
			steps, err := DeriveCuts(job.Sheet, job.Panels, job.Kerf, mode)
			cmp.Err = err
			cmp.Stats = model.Stats(steps)
		}
		results = append(results, cmp)
	}

	return results
}

// BestMode returns the hierarchical mode with the shortest total cut length.
// Ties go to the mode listed first.
func BestMode(results []ModeComparison) (model.Mode, bool) {
	var best *ModeComparison
	for i := range results {
		r := &results[i]
		if r.Err != nil || !r.Mode.Hierarchical() {
			continue
		}
		if best == nil || r.Stats.TotalLength < best.Stats.TotalLength {
			best = r
		}
	}
	if best == nil {
		return "", false
	}
	return best.Mode, true
}
