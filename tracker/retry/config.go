package retry

import (
	"encoding/json"
	"math"
	"time"

	"github.com/c360/widgetkit/errors"
	"github.com/c360/widgetkit/pkg/backoff"
	"github.com/c360/widgetkit/widget"
)

// WidgetName is the registration name for the retry tracker
const WidgetName = "retry-tracker"

// Config holds the retry tracker's behavior and display settings.
// Zero or out-of-range values are replaced with defaults at construction;
// the widget itself never fails on bad configuration.
type Config struct {
	widget.Config

	// MaxAttempts is the attempt budget for a run (minimum 1)
	MaxAttempts int
	// InitialDelay seeds the backoff calculation
	InitialDelay time.Duration
	// MaxDelay caps every computed delay
	MaxDelay time.Duration
	// BackoffMultiplier scales successive exponential delays
	BackoffMultiplier float64
	// Strategy selects the delay progression
	Strategy backoff.Strategy
	// Attempt is the initial attempt number (normally 1)
	Attempt int

	// AllowManualRetry shows a retry button while waiting or failed
	AllowManualRetry bool
	// AllowCancel shows a cancel button until the run ends
	AllowCancel bool

	ShowAttemptCount bool
	ShowNextRetry    bool
	ShowElapsedTime  bool
	ShowProgressBar  bool

	// Size is one of "small", "medium", "large"
	Size string
	// Variant is one of "default", "minimal", "detailed"
	Variant string
	// Animation enables spinner/pulse effects in the markup
	Animation bool
}

// DefaultConfig returns the tracker defaults: three attempts with
// exponential backoff from one second, capped at thirty seconds.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:       3,
		InitialDelay:      time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		Strategy:          backoff.StrategyExponential,
		Attempt:           1,
		AllowManualRetry:  true,
		AllowCancel:       true,
		ShowAttemptCount:  true,
		ShowNextRetry:     true,
		ShowElapsedTime:   true,
		ShowProgressBar:   true,
		Size:              "medium",
		Variant:           "default",
		Animation:         true,
	}
}

// normalize replaces invalid settings with their defaults
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.MaxAttempts < 1 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = def.InitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.BackoffMultiplier <= 0 || math.IsNaN(c.BackoffMultiplier) || math.IsInf(c.BackoffMultiplier, 0) {
		c.BackoffMultiplier = def.BackoffMultiplier
	}
	if !c.Strategy.IsValid() {
		c.Strategy = def.Strategy
	}
	if c.Attempt < 1 {
		c.Attempt = def.Attempt
	}
	if !validSize(c.Size) {
		c.Size = def.Size
	}
	if !validVariant(c.Variant) {
		c.Variant = def.Variant
	}
}

func validSize(s string) bool {
	return s == "small" || s == "medium" || s == "large"
}

func validVariant(v string) bool {
	return v == "default" || v == "minimal" || v == "detailed"
}

// backoffConfig projects the widget settings onto the delay calculator
func (c Config) backoffConfig() backoff.Config {
	return backoff.Config{
		Strategy:     c.Strategy,
		InitialDelay: c.InitialDelay,
		MaxDelay:     c.MaxDelay,
		Multiplier:   c.BackoffMultiplier,
	}
}

// fileConfig is the JSON shape accepted by the factory. Delays are in
// milliseconds to match the attribute surface. Pointer fields distinguish
// "absent" from zero so partial configs overlay the defaults.
type fileConfig struct {
	MaxAttempts       *int     `json:"maxAttempts,omitempty"`
	InitialDelay      *int64   `json:"initialDelay,omitempty"`
	MaxDelay          *int64   `json:"maxDelay,omitempty"`
	BackoffMultiplier *float64 `json:"backoffMultiplier,omitempty"`
	Strategy          *string  `json:"strategy,omitempty"`
	Attempt           *int     `json:"attempt,omitempty"`
	AllowManualRetry  *bool    `json:"allowManualRetry,omitempty"`
	AllowCancel       *bool    `json:"allowCancel,omitempty"`
	ShowAttemptCount  *bool    `json:"showAttemptCount,omitempty"`
	ShowNextRetry     *bool    `json:"showNextRetry,omitempty"`
	ShowElapsedTime   *bool    `json:"showElapsedTime,omitempty"`
	ShowProgressBar   *bool    `json:"showProgressBar,omitempty"`
	Size              *string  `json:"size,omitempty"`
	Variant           *string  `json:"variant,omitempty"`
	Animation         *bool    `json:"animation,omitempty"`
	Debug             *bool    `json:"debug,omitempty"`
	Disabled          *bool    `json:"disabled,omitempty"`
	AriaLabel         *string  `json:"ariaLabel,omitempty"`
}

// parseConfig overlays a raw JSON config onto the defaults. Only malformed
// JSON is an error; individual out-of-range values fall back to defaults
// via normalize.
func parseConfig(raw json.RawMessage) (Config, error) {
	cfg := DefaultConfig()
	if len(raw) == 0 {
		return cfg, nil
	}

	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return cfg, errors.WrapInvalid(err, "retry", "parseConfig", "unmarshal config")
	}

	if fc.MaxAttempts != nil {
		cfg.MaxAttempts = *fc.MaxAttempts
	}
	if fc.InitialDelay != nil {
		cfg.InitialDelay = time.Duration(*fc.InitialDelay) * time.Millisecond
	}
	if fc.MaxDelay != nil {
		cfg.MaxDelay = time.Duration(*fc.MaxDelay) * time.Millisecond
	}
	if fc.BackoffMultiplier != nil {
		cfg.BackoffMultiplier = *fc.BackoffMultiplier
	}
	if fc.Strategy != nil {
		if s, ok := backoff.ParseStrategy(*fc.Strategy); ok {
			cfg.Strategy = s
		}
	}
	if fc.Attempt != nil {
		cfg.Attempt = *fc.Attempt
	}
	if fc.AllowManualRetry != nil {
		cfg.AllowManualRetry = *fc.AllowManualRetry
	}
	if fc.AllowCancel != nil {
		cfg.AllowCancel = *fc.AllowCancel
	}
	if fc.ShowAttemptCount != nil {
		cfg.ShowAttemptCount = *fc.ShowAttemptCount
	}
	if fc.ShowNextRetry != nil {
		cfg.ShowNextRetry = *fc.ShowNextRetry
	}
	if fc.ShowElapsedTime != nil {
		cfg.ShowElapsedTime = *fc.ShowElapsedTime
	}
	if fc.ShowProgressBar != nil {
		cfg.ShowProgressBar = *fc.ShowProgressBar
	}
	if fc.Size != nil {
		cfg.Size = *fc.Size
	}
	if fc.Variant != nil {
		cfg.Variant = *fc.Variant
	}
	if fc.Animation != nil {
		cfg.Animation = *fc.Animation
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

	cfg.normalize()
	return cfg, nil
}

// Schema describes the accepted configuration for registry discovery
func Schema() widget.ConfigSchema {
	return widget.ConfigSchema{
		Properties: map[string]widget.PropertySchema{
			"maxAttempts": {
				Type:        "integer",
				Description: "Attempt budget for a retry run (minimum 1)",
				Default:     3,
			},
			"initialDelay": {
				Type:        "integer",
				Description: "Initial backoff delay in milliseconds",
				Default:     1000,
			},
			"maxDelay": {
				Type:        "integer",
				Description: "Upper bound for any computed delay in milliseconds",
				Default:     30000,
			},
			"backoffMultiplier": {
				Type:        "number",
				Description: "Growth factor for exponential backoff",
				Default:     2.0,
			},
			"strategy": {
				Type:        "string",
				Description: "Delay progression: exponential, linear, fixed, or fibonacci",
				Default:     "exponential",
				Enum:        []string{"exponential", "linear", "fixed", "fibonacci"},
			},
			"attempt": {
				Type:        "integer",
				Description: "Initial attempt number",
				Default:     1,
			},
			"allowManualRetry": {
				Type:        "boolean",
				Description: "Show a retry button while waiting or failed",
				Default:     true,
			},
			"allowCancel": {
				Type:        "boolean",
				Description: "Show a cancel button until the run ends",
				Default:     true,
			},
			"showAttemptCount": {Type: "boolean", Default: true},
			"showNextRetry":    {Type: "boolean", Default: true},
			"showElapsedTime":  {Type: "boolean", Default: true},
			"showProgressBar":  {Type: "boolean", Default: true},
			"size": {
				Type:    "string",
				Default: "medium",
				Enum:    []string{"small", "medium", "large"},
			},
			"variant": {
				Type:    "string",
				Default: "default",
				Enum:    []string{"default", "minimal", "detailed"},
			},
			"animation": {Type: "boolean", Default: true},
			"debug":     {Type: "boolean", Default: false},
			"disabled":  {Type: "boolean", Default: false},
			"ariaLabel": {Type: "string", Default: ""},
		},
	}
}
