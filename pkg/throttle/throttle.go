// Package throttle coalesces rapid call bursts into rate-limited executions
package throttle

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// Throttler coalesces bursts of calls into at most one execution per
// window. The first call in a quiet period runs immediately (leading
// edge); calls arriving inside the window are coalesced into a single
// trailing execution of the most recent function when the window closes.
//
// Throttler is safe for concurrent use, though widgets typically call it
// from a single owner.
type Throttler struct {
	mu      sync.Mutex
	window  time.Duration
	clock   clockwork.Clock
	limiter *rate.Limiter
	pending func()
	timer   clockwork.Timer
	stopped bool
}

// New creates a Throttler with the given coalescing window. A nil clock
// defaults to the real clock. Non-positive windows disable throttling:
// every call runs immediately.
func New(window time.Duration, clock clockwork.Clock) *Throttler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	t := &Throttler{
		window: window,
		clock:  clock,
	}
	if window > 0 {
		t.limiter = rate.NewLimiter(rate.Every(window), 1)
	}
	return t
}

// Do runs fn now if the window allows, otherwise holds it for the
// trailing edge. When multiple calls coalesce only the most recent fn
// runs. After Stop, Do is a no-op.
func (t *Throttler) Do(fn func()) {
	if fn == nil {
		return
	}

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}

	now := t.clock.Now()
	if t.limiter == nil || t.limiter.AllowN(now, 1) {
		t.mu.Unlock()
		fn()
		return
	}

	t.pending = fn
	if t.timer == nil {
		// Reserve the next token so the trailing execution lands when
		// the current window closes, not a full window after this call.
		res := t.limiter.ReserveN(now, 1)
		t.timer = t.clock.AfterFunc(res.DelayFrom(now), t.fire)
	}
	t.mu.Unlock()
}

// Flush runs any pending trailing execution immediately.
func (t *Throttler) Flush() {
	t.fire()
}

// Stop cancels any pending execution and makes further Do calls no-ops.
func (t *Throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Throttler) fire() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}
