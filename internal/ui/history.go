package ui

import "github.com/piwi3910/SawPlan/internal/model"

const defaultHistoryLimit = 50

// edit is one recorded job change. job holds the state on the far side of
// the cursor: the job before the edit while it can be undone, the job after
// it once undone.
type edit struct {
	job   model.Job
	label string
}

// History is a linear undo timeline of job edits. Entries before cursor can
// be undone, entries from cursor on can be redone.
type History struct {
	edits  []edit
	cursor int
	limit  int
}

func NewHistory() *History {
	return &History{limit: defaultHistoryLimit}
}

// Record stores job as the state before an edit described by label. Any
// undone edits are discarded; the oldest edits fall off past the limit.
func (h *History) Record(job model.Job, label string) {
	h.edits = append(h.edits[:h.cursor], edit{job: cloneJob(job), label: label})
	if over := len(h.edits) - h.limit; over > 0 {
		h.edits = append([]edit(nil), h.edits[over:]...)
	}
	h.cursor = len(h.edits)
}

// Undo swaps current for the job recorded before the latest edit and
// returns it together with that edit's label.
func (h *History) Undo(current model.Job) (model.Job, string, bool) {
	if h.cursor == 0 {
		return model.Job{}, "", false
	}
	h.cursor--
	return h.swap(h.cursor, current)
}

// Redo reapplies the most recently undone edit.
func (h *History) Redo(current model.Job) (model.Job, string, bool) {
	if h.cursor == len(h.edits) {
		return model.Job{}, "", false
	}
	job, label, ok := h.swap(h.cursor, current)
	h.cursor++
	return job, label, ok
}

func (h *History) swap(i int, current model.Job) (model.Job, string, bool) {
	e := &h.edits[i]
	restored := e.job
	e.job = cloneJob(current)
	return restored, e.label, true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool { return h.cursor < len(h.edits) }

// Clear forgets every edit, e.g. after opening another job.
func (h *History) Clear() {
	h.edits = nil
	h.cursor = 0
}

// cloneJob copies the panel slice so the live job and history never share it.
func cloneJob(job model.Job) model.Job {
	if job.Panels != nil {
		job.Panels = append([]model.PanelPlacement(nil), job.Panels...)
	}
	return job
}
