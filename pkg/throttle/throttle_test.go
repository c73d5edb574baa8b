package throttle

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestThrottler_LeadingEdge(t *testing.T) {
	clock := clockwork.NewFakeClock()
	th := New(100*time.Millisecond, clock)

	var calls atomic.Int32
	th.Do(func() { calls.Add(1) })

	assert.Equal(t, int32(1), calls.Load(), "first call in a quiet period runs immediately")
}

func TestThrottler_CoalescesBurst(t *testing.T) {
	clock := clockwork.NewFakeClock()
	th := New(100*time.Millisecond, clock)

	var first, second, third atomic.Int32
	th.Do(func() { first.Add(1) })
	th.Do(func() { second.Add(1) })
	th.Do(func() { third.Add(1) })

	// Leading call ran; the burst is held for the trailing edge
	assert.Equal(t, int32(1), first.Load())
	assert.Equal(t, int32(0), second.Load())
	assert.Equal(t, int32(0), third.Load())

	clock.Advance(100 * time.Millisecond)

	// Only the most recent coalesced call runs
	assert.Eventually(t, func() bool { return third.Load() == 1 },
		time.Second, time.Millisecond)
	assert.Equal(t, int32(0), second.Load(), "superseded call must never run")
}

func TestThrottler_TrailingFiresAtWindowClose(t *testing.T) {
	clock := clockwork.NewFakeClock()
	th := New(100*time.Millisecond, clock)

	var lead, trail atomic.Int32
	th.Do(func() { lead.Add(1) })
	assert.Equal(t, int32(1), lead.Load())

	// A call arriving mid-window is held for the close of the window
	// opened by the leading call, not a full window after itself
	clock.Advance(70 * time.Millisecond)
	th.Do(func() { trail.Add(1) })
	assert.Equal(t, int32(0), trail.Load())

	clock.Advance(30 * time.Millisecond)
	assert.Eventually(t, func() bool { return trail.Load() == 1 },
		time.Second, time.Millisecond)
}

func TestThrottler_FlushRunsPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	th := New(100*time.Millisecond, clock)

	var calls atomic.Int32
	th.Do(func() { calls.Add(1) })
	th.Do(func() { calls.Add(1) })
	assert.Equal(t, int32(1), calls.Load())

	th.Flush()
	assert.Equal(t, int32(2), calls.Load())

	// Flush with nothing pending is a no-op
	th.Flush()
	assert.Equal(t, int32(2), calls.Load())
}

func TestThrottler_StopCancelsPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	th := New(100*time.Millisecond, clock)

	var calls atomic.Int32
	th.Do(func() { calls.Add(1) })
	th.Do(func() { calls.Add(1) })
	th.Stop()

	clock.Advance(time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "pending trailing call must not fire after Stop")

	th.Do(func() { calls.Add(1) })
	assert.Equal(t, int32(1), calls.Load(), "Do after Stop is a no-op")
}

func TestThrottler_ZeroWindowDisablesThrottling(t *testing.T) {
	th := New(0, clockwork.NewFakeClock())

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		th.Do(func() { calls.Add(1) })
	}
	assert.Equal(t, int32(5), calls.Load())
}

func TestThrottler_NilFunc(t *testing.T) {
	th := New(100*time.Millisecond, clockwork.NewFakeClock())
	assert.NotPanics(t, func() { th.Do(nil) })
}
