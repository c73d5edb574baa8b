package token

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/widgetkit/testutil"
	"github.com/c360/widgetkit/widget"
)

func newTestCounter(t *testing.T, cfg Config) (*Counter, *clockwork.FakeClock, *testutil.EventRecorder) {
	t.Helper()

	deps, clock := testutil.FakeDeps()
	c := New(cfg, deps)

	rec := testutil.NewEventRecorder()
	c.OnAny(rec.Record)

	return c, clock, rec
}

func TestAddTokensExactCount(t *testing.T) {
	c, _, _ := newTestCounter(t, Config{})

	for i := 0; i < 250; i++ {
		c.AddTokens(2)
	}

	assert.Equal(t, int64(500), c.Tokens(), "count stays exact under throttling")
}

func TestAddTokensIgnoresNonPositive(t *testing.T) {
	c, _, _ := newTestCounter(t, Config{})

	c.AddTokens(0)
	c.AddTokens(-5)

	assert.Equal(t, int64(0), c.Tokens())
	assert.True(t, c.State().StartTime.IsZero())
}

func TestThrottledUpdates(t *testing.T) {
	c, _, rec := newTestCounter(t, Config{})
	surface := widget.NewMemorySurface()
	c.Mount(surface)
	renders := surface.RenderCount()

	for i := 0; i < 100; i++ {
		c.AddTokens(1)
	}

	// leading edge only: the fake clock never advances, so the burst
	// coalesces into a single immediate update
	assert.Equal(t, 1, rec.Count(EventUpdate))
	assert.Equal(t, renders+1, surface.RenderCount())
}

func TestThrottleTrailingEdge(t *testing.T) {
	c, clock, rec := newTestCounter(t, Config{})

	c.AddTokens(1)
	c.AddTokens(1)
	require.Equal(t, 1, rec.Count(EventUpdate))

	clock.Advance(100 * time.Millisecond)

	assert.Eventually(t, func() bool {
		return rec.Count(EventUpdate) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestComputedRate(t *testing.T) {
	c, clock, _ := newTestCounter(t, Config{})

	c.AddTokens(10)
	clock.Advance(2 * time.Second)
	c.AddTokens(30)

	assert.InDelta(t, 20.0, c.State().Rate, 0.01, "40 tokens over 2s")
}

func TestSetRateOverride(t *testing.T) {
	c, clock, _ := newTestCounter(t, Config{})

	c.SetRate(42.5)
	c.AddTokens(10)
	clock.Advance(time.Second)
	c.AddTokens(10)

	assert.Equal(t, 42.5, c.State().Rate, "external rate wins over computed")
}

func TestComplete(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowCost = true
	cfg.CostPerKiloTokens = 3.0
	c, clock, rec := newTestCounter(t, cfg)
	surface := widget.NewMemorySurface()
	c.Mount(surface)

	c.AddTokens(500)
	clock.Advance(4 * time.Second)
	c.Complete()

	st := c.State()
	assert.True(t, st.Completed)
	assert.Equal(t, 4*time.Second, st.ElapsedTime)
	assert.Equal(t, 1, rec.Count(EventComplete))

	c.AddTokens(100)
	assert.Equal(t, int64(500), c.Tokens(), "additions after Complete are ignored")

	assert.Contains(t, surface.Markup(), "completed")
	assert.Contains(t, surface.Markup(), "$1.50", "500 tokens at $3/1K")
}

func TestCompleteIsIdempotent(t *testing.T) {
	c, _, rec := newTestCounter(t, Config{})

	c.AddTokens(5)
	c.Complete()
	c.Complete()

	assert.Equal(t, 1, rec.Count(EventComplete))
}

func TestReset(t *testing.T) {
	c, _, rec := newTestCounter(t, Config{})

	c.AddTokens(100)
	c.Complete()
	before := rec.Len()

	c.Reset()

	st := c.State()
	assert.Equal(t, int64(0), st.Tokens)
	assert.False(t, st.Completed)
	assert.True(t, st.StartTime.IsZero())
	assert.Equal(t, before, rec.Len(), "Reset must not emit events")
}

func TestMarkup(t *testing.T) {
	c, clock, _ := newTestCounter(t, Config{ShowRate: true, ShowElapsed: true})
	surface := widget.NewMemorySurface()
	c.Mount(surface)

	c.AddTokens(10)
	clock.Advance(time.Second)
	c.AddTokens(10)
	c.Render()

	markup := surface.Markup()
	assert.Contains(t, markup, "20 tokens")
	assert.Contains(t, markup, "tok/s")
	assert.Contains(t, markup, "1s")
}

func TestCreateFactory(t *testing.T) {
	deps := widget.Dependencies{Clock: clockwork.NewFakeClock()}

	w, err := Create([]byte(`{"showCost": true, "costPerKiloTokens": 1.5, "throttleWindow": 50}`), deps)
	require.NoError(t, err)

	c := w.(*Counter)
	assert.True(t, c.config.ShowCost)
	assert.Equal(t, 1.5, c.config.CostPerKiloTokens)
	assert.Equal(t, 50*time.Millisecond, c.config.ThrottleWindow)

	_, err = Create([]byte(`{bad`), deps)
	assert.Error(t, err)
}
