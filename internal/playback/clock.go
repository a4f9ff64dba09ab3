package playback

import (
	"sync"
	"time"
)

// FrameClock schedules animation frames. RequestFrame arranges for fn to be
// called once, on a later frame, with that frame's timestamp.
type FrameClock interface {
	RequestFrame(fn func(now time.Time))
}

// TickerClock delivers frames from the wall clock, one Interval after each
// request. Callbacks run on their own goroutine.
type TickerClock struct {
	Interval time.Duration
}

func NewTickerClock(interval time.Duration) TickerClock {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return TickerClock{Interval: interval}
}

func (c TickerClock) RequestFrame(fn func(now time.Time)) {
	time.AfterFunc(c.Interval, func() { fn(time.Now()) })
}

// ManualClock is a synchronous clock. Frames only happen when Step is called,
// and each step advances the clock by a fixed amount. Useful for tests and for
// replaying a sequence instantly.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	step    time.Duration
	pending []func(time.Time)
}

// NewManualClock returns a clock starting at the Unix epoch that advances by
// step on every frame.
func NewManualClock(step time.Duration) *ManualClock {
	if step <= 0 {
		step = time.Second / 60
	}
	return &ManualClock{now: time.Unix(0, 0), step: step}
}

func (c *ManualClock) RequestFrame(fn func(now time.Time)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, fn)
}

// Now returns the timestamp of the most recent frame.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of callbacks waiting for the next frame.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Step advances the clock by one frame and runs every callback that was
// requested before the call. Callbacks requested while stepping wait for the
// next frame. It reports whether any callback ran.
func (c *ManualClock) Step() bool {
	c.mu.Lock()
	fns := c.pending
	c.pending = nil
	c.now = c.now.Add(c.step)
	now := c.now
	c.mu.Unlock()

	for _, fn := range fns {
		fn(now)
	}
	return len(fns) > 0
}

// RunUntilIdle steps until no callbacks are pending or maxFrames frames have
// run, and returns the number of frames stepped.
func (c *ManualClock) RunUntilIdle(maxFrames int) int {
	frames := 0
	for frames < maxFrames && c.Pending() > 0 {
		c.Step()
		frames++
	}
	return frames
}
