package playback

import (
	"context"
	"sync/atomic"
)

// CancelToken is a cooperative cancellation flag shared between the caller
// and a running playback. The scheduler polls it at frame boundaries and
// before each cut; setting it never interrupts a frame in progress.
//
// A nil *CancelToken is never cancelled.
type CancelToken struct {
	cancelled atomic.Bool
}

func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel sets the flag. Calling it more than once is harmless.
func (t *CancelToken) Cancel() {
	if t != nil {
		t.cancelled.Store(true)
	}
}

func (t *CancelToken) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}

// CancelOnDone cancels the token when ctx is done. The returned stop function
// releases the watcher without cancelling.
func (t *CancelToken) CancelOnDone(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, t.Cancel)
}
