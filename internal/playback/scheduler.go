// Package playback animates a cut sequence one cut at a time.
//
// A Scheduler is driven entirely by a FrameClock: every animation step runs
// inside a frame callback and control returns to the clock between frames.
// Cuts animate strictly in order and cut n+1 never starts before the
// completion callback of cut n has returned.
package playback

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/piwi3910/SawPlan/internal/model"
)

// Callbacks receive playback events. Any of them may be nil.
type Callbacks struct {
	OnProgress    func(cutIndex int, progress float64)
	OnCutComplete func(cutIndex int)
	OnDone        func()
}

// Scheduler plays cut sequences on a clock. A Scheduler holds no per-run
// state; each Run gets its own Playback.
type Scheduler struct {
	clock    FrameClock
	settings model.PlaybackSettings
}

func NewScheduler(clock FrameClock, settings model.PlaybackSettings) *Scheduler {
	def := model.DefaultPlaybackSettings()
	if settings.MinDuration <= 0 {
		settings.MinDuration = def.MinDuration
	}
	if settings.Pause < 0 {
		settings.Pause = 0
	}
	return &Scheduler{clock: clock, settings: settings}
}

// Settings returns the effective playback settings.
func (s *Scheduler) Settings() model.PlaybackSettings {
	return s.settings
}

// Duration returns how long cut c takes to animate: its length divided by the
// speed, or the minimum duration when either is not positive. Durations too
// long to represent saturate at the largest time.Duration.
func (s *Scheduler) Duration(c model.CutStep) time.Duration {
	length := c.Length()
	if length <= 0 || s.settings.Speed <= 0 || math.IsNaN(length) {
		return s.settings.MinDuration
	}
	ns := length / s.settings.Speed * float64(time.Second)
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	d := time.Duration(ns)
	if d <= 0 {
		return s.settings.MinDuration
	}
	return d
}

// Run starts animating cuts and returns immediately. With no cuts OnDone is
// called before Run returns and no frame is requested. A cancelled token stops
// the run at the next frame boundary or before the next cut; OnDone is then
// never called. token may be nil, in which case Playback.Cancel still works.
func (s *Scheduler) Run(cuts []model.CutStep, cb Callbacks, token *CancelToken) *Playback {
	if token == nil {
		token = NewCancelToken()
	}
	p := &Playback{
		sched: s,
		cuts:  cuts,
		cb:    cb,
		token: token,
		done:  make(chan struct{}),
	}
	if len(cuts) == 0 {
		p.finish()
		return p
	}
	p.startCut(0)
	return p
}

// Playback is one run of the scheduler.
type Playback struct {
	sched *Scheduler
	cuts  []model.CutStep
	cb    Callbacks
	token *CancelToken
	done  chan struct{}

	mu       sync.Mutex
	state    State
	index    int
	progress float64
	started  time.Time // first frame of the current cut
	paused   time.Time // completion frame of the previous cut
}

// State returns the current state.
func (p *Playback) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Position returns the index of the cut being animated and its progress.
func (p *Playback) Position() (int, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index, p.progress
}

// Done is closed when the run reaches Done or Cancelled.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Cancel cancels the run's token.
func (p *Playback) Cancel() {
	p.token.Cancel()
}

func (p *Playback) transition(to State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !isAllowedTransition(p.state, to) {
		return fmt.Errorf("playback: disallowed transition %s -> %s", p.state, to)
	}
	p.state = to
	return nil
}

// request schedules fn on the next frame unless the token is set.
func (p *Playback) request(fn func(time.Time)) {
	if p.token.Cancelled() {
		p.cancel()
		return
	}
	p.sched.clock.RequestFrame(fn)
}

func (p *Playback) startCut(i int) {
	if p.token.Cancelled() {
		p.cancel()
		return
	}
	if err := p.transition(Animating); err != nil {
		return
	}
	p.mu.Lock()
	p.index = i
	p.progress = 0
	p.started = time.Time{}
	p.mu.Unlock()
	p.request(p.frame)
}

func (p *Playback) frame(now time.Time) {
	if p.token.Cancelled() {
		p.cancel()
		return
	}

	p.mu.Lock()
	if p.started.IsZero() {
		p.started = now
	}
	i := p.index
	progress := clampProgress(now.Sub(p.started), p.sched.Duration(p.cuts[i]))
	p.progress = progress
	p.mu.Unlock()

	if p.cb.OnProgress != nil {
		p.cb.OnProgress(i, progress)
	}
	if progress < 1 {
		p.request(p.frame)
		return
	}

	if err := p.transition(CutComplete); err != nil {
		return
	}
	if p.cb.OnCutComplete != nil {
		p.cb.OnCutComplete(i)
	}
	if i == len(p.cuts)-1 {
		p.finish()
		return
	}
	if p.sched.settings.Pause <= 0 {
		p.startCut(i + 1)
		return
	}
	p.mu.Lock()
	p.paused = now
	p.mu.Unlock()
	p.request(p.pauseFrame)
}

// pauseFrame waits out the gap between two cuts.
func (p *Playback) pauseFrame(now time.Time) {
	if p.token.Cancelled() {
		p.cancel()
		return
	}
	p.mu.Lock()
	waited := now.Sub(p.paused)
	next := p.index + 1
	p.mu.Unlock()

	if waited < p.sched.settings.Pause {
		p.request(p.pauseFrame)
		return
	}
	p.startCut(next)
}

func (p *Playback) finish() {
	if err := p.transition(Done); err != nil {
		return
	}
	if p.cb.OnDone != nil {
		p.cb.OnDone()
	}
	close(p.done)
}

func (p *Playback) cancel() {
	if err := p.transition(Cancelled); err != nil {
		return
	}
	close(p.done)
}

func clampProgress(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	v := float64(elapsed) / float64(total)
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
