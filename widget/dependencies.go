package widget

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/c360/widgetkit/metric"
)

// Dependencies provides all external collaborators needed by widgets.
// Factories receive this structure rather than individual fields so new
// collaborators can be added without touching every factory signature.
type Dependencies struct {
	Logger  *slog.Logger            // Structured logger (can be nil, defaults to slog.Default())
	Clock   clockwork.Clock         // Clock and timer scheduler (can be nil, defaults to the real clock)
	Metrics *metric.MetricsRegistry // Metrics registry for Prometheus (can be nil)
}

// GetLogger returns the configured logger or a default logger if none is provided
func (d *Dependencies) GetLogger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// GetLoggerWithWidget returns a logger configured with widget context
func (d *Dependencies) GetLoggerWithWidget(widgetName string) *slog.Logger {
	return d.GetLogger().With("widget", widgetName)
}

// GetClock returns the configured clock or the real clock if none is provided
func (d *Dependencies) GetClock() clockwork.Clock {
	if d.Clock != nil {
		return d.Clock
	}
	return clockwork.NewRealClock()
}

// CoreMetrics returns the core runtime metrics, or nil when metrics are disabled
func (d *Dependencies) CoreMetrics() *metric.Metrics {
	if d.Metrics == nil {
		return nil
	}
	return d.Metrics.CoreMetrics()
}
