// Package queue implements a queue-position indicator widget. The host
// reports the caller's position as the queue drains; the indicator
// estimates time-to-front from an exponentially weighted moving average of
// observed per-position advance intervals.
package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/c360/widgetkit/errors"
	"github.com/c360/widgetkit/pkg/throttle"
	"github.com/c360/widgetkit/widget"
)

// WidgetName is the registration name for the queue indicator
const WidgetName = "queue-indicator"

// Event names emitted by the indicator
const (
	EventStart    = "queuestart"
	EventUpdate   = "queueupdate"
	EventComplete = "queuecomplete"
)

// ewmaAlpha weights the most recent advance interval; older observations
// decay geometrically
const ewmaAlpha = 0.3

const defaultThrottleWindow = 100 * time.Millisecond

// Config holds the queue indicator settings
type Config struct {
	widget.Config

	ShowEta bool
	// ThrottleWindow coalesces position updates; zero uses the 100ms
	// default, negative disables throttling
	ThrottleWindow time.Duration
}

// DefaultConfig returns the indicator defaults
func DefaultConfig() Config {
	return Config{
		ShowEta:        true,
		ThrottleWindow: defaultThrottleWindow,
	}
}

// State is the indicator's mutable state record
type State struct {
	Position  int
	Total     int
	Started   bool
	Completed bool
	Eta       time.Duration // zero until enough advances are observed
}

// Indicator shows queue position with an estimated time to the front
type Indicator struct {
	*widget.Base

	mu       sync.Mutex
	config   Config
	state    State
	throttle *throttle.Throttler

	lastAdvance  time.Time
	perPosMillis float64 // EWMA of per-position advance time
}

// New creates a queue indicator
func New(cfg Config, deps widget.Dependencies) *Indicator {
	if cfg.ThrottleWindow == 0 {
		cfg.ThrottleWindow = defaultThrottleWindow
	}

	q := &Indicator{config: cfg}
	q.Base = widget.NewBase(q, WidgetName, cfg.Config, deps)
	q.throttle = throttle.New(cfg.ThrottleWindow, deps.GetClock())
	return q
}

// Create is the registry factory for the queue indicator
func Create(raw json.RawMessage, deps widget.Dependencies) (widget.Widget, error) {
	cfg := DefaultConfig()
	if len(raw) > 0 {
		var fc struct {
			ShowEta        *bool   `json:"showEta,omitempty"`
			ThrottleWindow *int64  `json:"throttleWindow,omitempty"`
			Debug          *bool   `json:"debug,omitempty"`
			Disabled       *bool   `json:"disabled,omitempty"`
			AriaLabel      *string `json:"ariaLabel,omitempty"`
		}
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, errors.WrapInvalid(err, "queue", "Create", "unmarshal config")
		}
		if fc.ShowEta != nil {
			cfg.ShowEta = *fc.ShowEta
		}
		if fc.ThrottleWindow != nil {
			cfg.ThrottleWindow = time.Duration(*fc.ThrottleWindow) * time.Millisecond
		}
		if fc.Debug != nil {
			cfg.Debug = *fc.Debug
		}
		if fc.Disabled != nil {
			cfg.Disabled = *fc.Disabled
		}
		if fc.AriaLabel != nil {
			cfg.AriaLabel = *fc.AriaLabel
		}
	}
	return New(cfg, deps), nil
}

// Register adds the queue indicator factory to the registry
func Register(r *widget.Registry) error {
	return r.RegisterWithConfig(widget.RegistrationConfig{
		Name:        WidgetName,
		Factory:     Create,
		Schema:      Schema(),
		Category:    "indicator",
		Description: "Shows queue position with an EWMA-based estimated wait",
		Version:     "1.0.0",
	})
}

// Meta returns basic widget information
func (q *Indicator) Meta() widget.Metadata {
	return widget.Metadata{
		Name:        WidgetName,
		Category:    "indicator",
		Description: "Shows queue position with an EWMA-based estimated wait",
		Version:     "1.0.0",
	}
}

// ConfigSchema returns the configuration schema for this widget
func (q *Indicator) ConfigSchema() widget.ConfigSchema { return Schema() }

// Schema describes the accepted configuration for registry discovery
func Schema() widget.ConfigSchema {
	return widget.ConfigSchema{
		Properties: map[string]widget.PropertySchema{
			"showEta": {Type: "boolean", Default: true},
			"throttleWindow": {
				Type:        "integer",
				Description: "Update coalescing window in milliseconds",
				Default:     100,
			},
		},
	}
}

// DefaultRole declares the accessibility role applied at mount
func (q *Indicator) DefaultRole() string { return "status" }

// State returns a snapshot of the indicator's current state
func (q *Indicator) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Start marks the wait as begun and anchors the ETA observation clock
func (q *Indicator) Start() {
	q.mu.Lock()
	if q.state.Started {
		q.mu.Unlock()
		return
	}

	now := q.Clock().Now()
	q.state.Started = true
	q.lastAdvance = now
	detail := map[string]any{
		"position":  q.state.Position,
		"total":     q.state.Total,
		"timestamp": now.UnixMilli(),
	}
	q.mu.Unlock()

	q.Render()
	q.Emit(EventStart, detail)
}

// SetPosition reports the current position (1 = next) and queue length.
// A decreasing position feeds the ETA estimator. Negative values and
// updates after Complete are ignored.
func (q *Indicator) SetPosition(pos, total int) {
	if pos < 0 || total < 0 {
		return
	}

	q.mu.Lock()
	if q.state.Completed {
		q.mu.Unlock()
		return
	}

	if q.state.Started && pos < q.state.Position {
		q.observeLocked(q.state.Position - pos)
	}
	q.state.Position = pos
	q.state.Total = total
	q.refreshEtaLocked()
	q.mu.Unlock()

	q.throttle.Do(q.publish)
}

// Advance moves one position closer to the front
func (q *Indicator) Advance() {
	q.mu.Lock()
	if q.state.Completed || q.state.Position <= 0 {
		q.mu.Unlock()
		return
	}

	if q.state.Started {
		q.observeLocked(1)
	}
	q.state.Position--
	q.refreshEtaLocked()
	q.mu.Unlock()

	q.throttle.Do(q.publish)
}

// Complete marks the wait as over, flushes any coalesced update and emits
// queuecomplete
func (q *Indicator) Complete() {
	q.mu.Lock()
	if q.state.Completed {
		q.mu.Unlock()
		return
	}

	q.state.Completed = true
	q.state.Position = 0
	q.state.Eta = 0
	detail := map[string]any{
		"total":     q.state.Total,
		"timestamp": q.Clock().Now().UnixMilli(),
	}
	q.mu.Unlock()

	q.throttle.Flush()
	q.Render()
	q.Emit(EventComplete, detail)
}

// Cleanup cancels the pending throttled update; invoked at unmount
func (q *Indicator) Cleanup() {
	q.throttle.Stop()
}

// observeLocked folds an advance of n positions into the EWMA.
// Requires q.mu held.
func (q *Indicator) observeLocked(n int) {
	now := q.Clock().Now()
	interval := now.Sub(q.lastAdvance)
	q.lastAdvance = now
	if n <= 0 || interval <= 0 {
		return
	}

	perPos := float64(interval.Milliseconds()) / float64(n)
	if q.perPosMillis == 0 {
		q.perPosMillis = perPos
		return
	}
	q.perPosMillis = ewmaAlpha*perPos + (1-ewmaAlpha)*q.perPosMillis
}

func (q *Indicator) refreshEtaLocked() {
	if q.perPosMillis == 0 || q.state.Position <= 0 {
		q.state.Eta = 0
		return
	}
	q.state.Eta = time.Duration(q.perPosMillis*float64(q.state.Position)) * time.Millisecond
}

// publish re-renders and emits a throttled queueupdate
func (q *Indicator) publish() {
	q.mu.Lock()
	detail := map[string]any{
		"position":  q.state.Position,
		"total":     q.state.Total,
		"eta":       q.state.Eta.Milliseconds(),
		"timestamp": q.Clock().Now().UnixMilli(),
	}
	q.mu.Unlock()

	q.Render()
	q.Emit(EventUpdate, detail)
}

// Render writes the indicator's current state to its mount surface
func (q *Indicator) Render() {
	q.mu.Lock()
	markup := q.markupLocked()
	q.mu.Unlock()

	q.WriteMarkup(markup)
}

func (q *Indicator) markupLocked() string {
	var b strings.Builder
	st := q.state

	class := "queue-indicator"
	if st.Completed {
		class += " completed"
	}
	fmt.Fprintf(&b, `<div class="%s">`, class)

	switch {
	case st.Completed:
		b.WriteString(`<span class="queue-position">Your turn</span>`)
	case st.Total > 0:
		fmt.Fprintf(&b, `<span class="queue-position">Position %d of %d</span>`,
			st.Position, st.Total)
	default:
		fmt.Fprintf(&b, `<span class="queue-position">Position %d</span>`, st.Position)
	}

	if q.config.ShowEta && st.Eta > 0 && !st.Completed {
		fmt.Fprintf(&b, `<span class="queue-eta">~%s</span>`,
			widget.FormatDuration(st.Eta))
	}

	b.WriteString(`</div>`)
	return b.String()
}
