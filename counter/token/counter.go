// Package token implements a streaming token counter widget. Token deltas
// arrive far faster than a display should repaint, so renders and update
// notifications are throttled through a coalescing window while the
// underlying count stays exact.
package token

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

// WidgetName is the registration name for the token counter
const WidgetName = "token-counter"

// Event names emitted by the counter
const (
	// EventUpdate fires on throttled count/rate changes
	EventUpdate = "tokenupdate"
	// EventComplete fires once when the stream ends
	EventComplete = "tokencomplete"
)

const defaultThrottleWindow = 100 * time.Millisecond

// Config holds the token counter settings
type Config struct {
	widget.Config

	ShowRate    bool
	ShowElapsed bool
	ShowCost    bool
	// CostPerKiloTokens prices the stream for the cost display
	CostPerKiloTokens float64
	// ThrottleWindow coalesces renders and update events; zero uses the
	// 100ms default, negative disables throttling
	ThrottleWindow time.Duration
}

// DefaultConfig returns the counter defaults
func DefaultConfig() Config {
	return Config{
		ShowRate:       true,
		ShowElapsed:    true,
		ThrottleWindow: defaultThrottleWindow,
	}
}

// State is the counter's mutable state record
type State struct {
	Tokens      int64
	Rate        float64 // tokens per second
	StartTime   time.Time
	ElapsedTime time.Duration
	Completed   bool
}

// Counter counts streamed tokens with a throttled display
type Counter struct {
	*widget.Base

	mu       sync.Mutex
	config   Config
	state    State
	throttle *throttle.Throttler
	rateSet  bool // external rate overrides the computed one
}

// New creates a token counter
func New(cfg Config, deps widget.Dependencies) *Counter {
	if cfg.ThrottleWindow == 0 {
		cfg.ThrottleWindow = defaultThrottleWindow
	}

	c := &Counter{config: cfg}
	c.Base = widget.NewBase(c, WidgetName, cfg.Config, deps)
	c.throttle = throttle.New(cfg.ThrottleWindow, deps.GetClock())
	return c
}

// Create is the registry factory for the token counter
func Create(raw json.RawMessage, deps widget.Dependencies) (widget.Widget, error) {
	cfg := DefaultConfig()
	if len(raw) > 0 {
		var fc struct {
			ShowRate          *bool    `json:"showRate,omitempty"`
			ShowElapsed       *bool    `json:"showElapsed,omitempty"`
			ShowCost          *bool    `json:"showCost,omitempty"`
			CostPerKiloTokens *float64 `json:"costPerKiloTokens,omitempty"`
			ThrottleWindow    *int64   `json:"throttleWindow,omitempty"`
			Debug             *bool    `json:"debug,omitempty"`
			Disabled          *bool    `json:"disabled,omitempty"`
			AriaLabel         *string  `json:"ariaLabel,omitempty"`
		}
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, errors.WrapInvalid(err, "token", "Create", "unmarshal config")
		}
		if fc.ShowRate != nil {
			cfg.ShowRate = *fc.ShowRate
		}
		if fc.ShowElapsed != nil {
			cfg.ShowElapsed = *fc.ShowElapsed
		}
		if fc.ShowCost != nil {
			cfg.ShowCost = *fc.ShowCost
		}
		if fc.CostPerKiloTokens != nil && *fc.CostPerKiloTokens >= 0 {
			cfg.CostPerKiloTokens = *fc.CostPerKiloTokens
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

// Register adds the token counter factory to the registry
func Register(r *widget.Registry) error {
	return r.RegisterWithConfig(widget.RegistrationConfig{
		Name:        WidgetName,
		Factory:     Create,
		Schema:      Schema(),
		Category:    "counter",
		Description: "Counts streamed tokens with throttled rate, elapsed and cost display",
		Version:     "1.0.0",
	})
}

// Meta returns basic widget information
func (c *Counter) Meta() widget.Metadata {
	return widget.Metadata{
		Name:        WidgetName,
		Category:    "counter",
		Description: "Counts streamed tokens with throttled rate, elapsed and cost display",
		Version:     "1.0.0",
	}
}

// ConfigSchema returns the configuration schema for this widget
func (c *Counter) ConfigSchema() widget.ConfigSchema { return Schema() }

// Schema describes the accepted configuration for registry discovery
func Schema() widget.ConfigSchema {
	return widget.ConfigSchema{
		Properties: map[string]widget.PropertySchema{
			"showRate":          {Type: "boolean", Default: true},
			"showElapsed":       {Type: "boolean", Default: true},
			"showCost":          {Type: "boolean", Default: false},
			"costPerKiloTokens": {Type: "number", Default: 0.0},
			"throttleWindow": {
				Type:        "integer",
				Description: "Render coalescing window in milliseconds",
				Default:     100,
			},
		},
	}
}

// DefaultRole declares the accessibility role applied at mount
func (c *Counter) DefaultRole() string { return "status" }

// State returns a snapshot of the counter's current state
func (c *Counter) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Tokens returns the exact current token count
func (c *Counter) Tokens() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Tokens
}

// AddTokens adds n tokens to the count. The count is exact immediately;
// the display and the tokenupdate event are throttled. Non-positive deltas
// and additions after Complete are ignored.
func (c *Counter) AddTokens(n int64) {
	if n <= 0 {
		return
	}

	c.mu.Lock()
	if c.state.Completed {
		c.mu.Unlock()
		return
	}

	now := c.Clock().Now()
	if c.state.StartTime.IsZero() {
		c.state.StartTime = now
	}
	c.state.Tokens += n
	c.state.ElapsedTime = now.Sub(c.state.StartTime)
	if !c.rateSet && c.state.ElapsedTime > 0 {
		c.state.Rate = float64(c.state.Tokens) / c.state.ElapsedTime.Seconds()
	}
	c.mu.Unlock()

	c.throttle.Do(c.publish)
}

// SetRate overrides the computed tokens-per-second rate. Negative rates
// are ignored.
func (c *Counter) SetRate(tps float64) {
	if tps < 0 {
		return
	}

	c.mu.Lock()
	c.state.Rate = tps
	c.rateSet = true
	c.mu.Unlock()

	c.throttle.Do(c.publish)
}

// Complete marks the stream as finished, flushes any coalesced update and
// emits tokencomplete. Subsequent AddTokens calls are ignored.
func (c *Counter) Complete() {
	c.mu.Lock()
	if c.state.Completed {
		c.mu.Unlock()
		return
	}

	now := c.Clock().Now()
	c.state.Completed = true
	if !c.state.StartTime.IsZero() {
		c.state.ElapsedTime = now.Sub(c.state.StartTime)
	}
	detail := map[string]any{
		"tokens":      c.state.Tokens,
		"elapsedTime": c.state.ElapsedTime.Milliseconds(),
		"cost":        c.costLocked(),
		"timestamp":   now.UnixMilli(),
	}
	c.mu.Unlock()

	c.throttle.Flush()
	c.Render()
	c.Emit(EventComplete, detail)
}

// Reset returns the counter to zero. No event is emitted.
func (c *Counter) Reset() {
	c.mu.Lock()
	c.state = State{}
	c.rateSet = false
	c.mu.Unlock()

	c.Render()
}

// Cleanup cancels the pending throttled update; invoked at unmount
func (c *Counter) Cleanup() {
	c.throttle.Stop()
}

// publish re-renders and emits a throttled tokenupdate
func (c *Counter) publish() {
	c.mu.Lock()
	detail := map[string]any{
		"tokens":    c.state.Tokens,
		"rate":      c.state.Rate,
		"timestamp": c.Clock().Now().UnixMilli(),
	}
	c.mu.Unlock()

	c.Render()
	c.Emit(EventUpdate, detail)
}

func (c *Counter) costLocked() float64 {
	return float64(c.state.Tokens) / 1000 * c.config.CostPerKiloTokens
}

// Render writes the counter's current state to its mount surface
func (c *Counter) Render() {
	c.mu.Lock()
	markup := c.markupLocked()
	c.mu.Unlock()

	c.WriteMarkup(markup)
}

func (c *Counter) markupLocked() string {
	var b strings.Builder
	st := c.state
	cfg := c.config

	class := "token-counter"
	if st.Completed {
		class += " completed"
	}
	fmt.Fprintf(&b, `<div class="%s">`, class)
	fmt.Fprintf(&b, `<span class="token-count">%d tokens</span>`, st.Tokens)

	if cfg.ShowRate && st.Rate > 0 {
		fmt.Fprintf(&b, `<span class="token-rate">%.1f tok/s</span>`, st.Rate)
	}
	if cfg.ShowElapsed && !st.StartTime.IsZero() {
		fmt.Fprintf(&b, `<span class="token-elapsed">%s</span>`,
			widget.FormatDuration(st.ElapsedTime))
	}
	if cfg.ShowCost {
		fmt.Fprintf(&b, `<span class="token-cost">%s</span>`,
			widget.FormatCurrency(c.costLocked()))
	}

	b.WriteString(`</div>`)
	return b.String()
}
