// Package widget defines the Widget interface and the shared runtime every
// concrete widget builds on
package widget

import (
	"time"
)

// Widget defines the interface for progress-visualization widgets managed
// by the runtime. A widget holds a plain state record, mutates it in
// response to public method calls, and re-renders a markup string onto its
// Surface after every mutation.
//
// Widgets implementing this interface can be:
// - Trackers: retry/backoff, batch items, model-load stages
// - Counters: streaming token counters
// - Indicators: queue position
// - Panels: parameter sliders
type Widget interface {
	// Meta returns basic widget information
	Meta() Metadata

	// ConfigSchema returns the configuration schema for this widget
	ConfigSchema() ConfigSchema

	// Health returns current health status
	Health() HealthStatus

	// Render writes the widget's current state to its mount surface.
	// It reads internal state only and never fails; with no surface
	// attached it is a no-op.
	Render()
}

// RoleProvider is implemented by widgets that declare a default
// accessibility role applied at mount when the host set none.
type RoleProvider interface {
	DefaultRole() string
}

// AttributeHandler is implemented by widgets that reflect host-attribute
// edits into internal state. Invalid values must be ignored, keeping the
// previous valid value.
type AttributeHandler interface {
	HandleAttributeChange(name, oldValue, newValue string)
}

// Cleaner is implemented by widgets that own timers or other resources
// needing cancellation at unmount.
type Cleaner interface {
	Cleanup()
}

// Metadata describes what a widget is
type Metadata struct {
	Name        string `json:"name"`
	Category    string `json:"category"` // "tracker", "counter", "indicator", "panel"
	Description string `json:"description"`
	Version     string `json:"version"`
}

// ConfigSchema describes the configuration parameters for a widget
type ConfigSchema struct {
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required"`
}

// PropertySchema describes a single configuration property
type PropertySchema struct {
	Type        string   `json:"type"` // "string", "int", "bool", "float", "enum"
	Description string   `json:"description"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`    // Valid string values
	Minimum     *int     `json:"minimum,omitempty"` // For numeric types
	Maximum     *int     `json:"maximum,omitempty"` // For numeric types
}

// HealthStatus describes the current health state of a widget
type HealthStatus struct {
	Healthy    bool          `json:"healthy"`
	LastCheck  time.Time     `json:"last_check"`
	ErrorCount int           `json:"error_count"`
	LastError  string        `json:"last_error,omitempty"`
	Uptime     time.Duration `json:"uptime"`
}
