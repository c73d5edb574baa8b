package queue

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/widgetkit/testutil"
	"github.com/c360/widgetkit/widget"
)

func newTestIndicator(t *testing.T, cfg Config) (*Indicator, *clockwork.FakeClock, *testutil.EventRecorder) {
	t.Helper()

	deps, clock := testutil.FakeDeps()
	q := New(cfg, deps)

	rec := testutil.NewEventRecorder()
	q.OnAny(rec.Record)

	return q, clock, rec
}

func TestStartAndPosition(t *testing.T) {
	q, _, rec := newTestIndicator(t, Config{})

	q.SetPosition(12, 40)
	q.Start()

	st := q.State()
	assert.True(t, st.Started)
	assert.Equal(t, 12, st.Position)
	assert.Equal(t, 40, st.Total)
	assert.Equal(t, 1, rec.Count(EventStart))

	q.Start()
	assert.Equal(t, 1, rec.Count(EventStart), "Start is idempotent")
}

func TestEtaFromSteadyAdvances(t *testing.T) {
	q, clock, _ := newTestIndicator(t, Config{})

	q.SetPosition(10, 10)
	q.Start()

	// steady 2s per position: the EWMA converges to exactly 2s
	for i := 0; i < 4; i++ {
		clock.Advance(2 * time.Second)
		q.Advance()
	}

	st := q.State()
	assert.Equal(t, 6, st.Position)
	assert.Equal(t, 12*time.Second, st.Eta, "6 positions at 2s each")
}

func TestEtaWeighsRecentIntervals(t *testing.T) {
	q, clock, _ := newTestIndicator(t, Config{})

	q.SetPosition(10, 10)
	q.Start()

	clock.Advance(2 * time.Second)
	q.Advance()
	clock.Advance(4 * time.Second)
	q.Advance()

	// 0.3*4000 + 0.7*2000 = 2600ms per position, 8 remaining
	st := q.State()
	assert.Equal(t, 8, st.Position)
	assert.Equal(t, 20800*time.Millisecond, st.Eta)
}

func TestSetPositionDecreaseFeedsEstimator(t *testing.T) {
	q, clock, _ := newTestIndicator(t, Config{})

	q.SetPosition(20, 20)
	q.Start()

	clock.Advance(6 * time.Second)
	q.SetPosition(17, 20) // 3 positions in 6s = 2s each

	assert.Equal(t, 34*time.Second, q.State().Eta)
}

func TestNoEtaBeforeObservations(t *testing.T) {
	q, _, _ := newTestIndicator(t, Config{})

	q.SetPosition(5, 10)
	assert.Equal(t, time.Duration(0), q.State().Eta)
}

func TestComplete(t *testing.T) {
	q, clock, rec := newTestIndicator(t, Config{})
	surface := widget.NewMemorySurface()
	q.Mount(surface)

	q.SetPosition(2, 2)
	q.Start()
	clock.Advance(time.Second)
	q.Advance()
	q.Complete()

	st := q.State()
	assert.True(t, st.Completed)
	assert.Equal(t, 0, st.Position)
	assert.Equal(t, time.Duration(0), st.Eta)
	assert.Equal(t, 1, rec.Count(EventComplete))
	assert.Contains(t, surface.Markup(), "Your turn")

	q.SetPosition(5, 5)
	assert.Equal(t, 0, q.State().Position, "updates after Complete are ignored")
}

func TestInvalidPositionsIgnored(t *testing.T) {
	q, _, _ := newTestIndicator(t, Config{})

	q.SetPosition(5, 10)
	q.SetPosition(-1, 10)
	q.SetPosition(3, -2)

	st := q.State()
	assert.Equal(t, 5, st.Position)
	assert.Equal(t, 10, st.Total)
}

func TestAdvanceStopsAtZero(t *testing.T) {
	q, _, _ := newTestIndicator(t, Config{})

	q.SetPosition(1, 1)
	q.Advance()
	q.Advance()

	assert.Equal(t, 0, q.State().Position)
}

func TestThrottledUpdates(t *testing.T) {
	q, _, rec := newTestIndicator(t, Config{})

	q.SetPosition(100, 100)
	for i := 0; i < 50; i++ {
		q.Advance()
	}

	// fake clock never advances: the burst coalesces to the leading edge
	assert.Equal(t, 1, rec.Count(EventUpdate))
	assert.Equal(t, 50, q.State().Position, "position stays exact under throttling")
}

func TestMarkup(t *testing.T) {
	q, clock, _ := newTestIndicator(t, Config{ShowEta: true})
	surface := widget.NewMemorySurface()
	q.Mount(surface)

	q.SetPosition(4, 9)
	q.Start()
	clock.Advance(3 * time.Second)
	q.Advance()
	q.Render()

	markup := surface.Markup()
	assert.Contains(t, markup, "Position 3 of 9")
	assert.Contains(t, markup, "~9s")
}

func TestCreateFactory(t *testing.T) {
	deps, _ := testutil.FakeDeps()

	w, err := Create([]byte(`{"showEta": false, "throttleWindow": 200}`), deps)
	require.NoError(t, err)

	q := w.(*Indicator)
	assert.False(t, q.config.ShowEta)
	assert.Equal(t, 200*time.Millisecond, q.config.ThrottleWindow)

	_, err = Create([]byte(`nope`), deps)
	assert.Error(t, err)
}
