package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all runtime-level widget metrics (not widget-specific)
type Metrics struct {
	// Lifecycle metrics
	WidgetStatus *prometheus.GaugeVec
	MountsTotal  *prometheus.CounterVec

	// Render metrics
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec

	// Event metrics
	EventsEmitted *prometheus.CounterVec
	ActionsFired  *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all runtime metrics
func NewMetrics() *Metrics {
	return &Metrics{
		WidgetStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "widgetkit",
				Subsystem: "widget",
				Name:      "status",
				Help:      "Widget lifecycle status (0=created, 1=mounted, 2=unmounted, 3=failed)",
			},
			[]string{"widget"},
		),

		MountsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "widgetkit",
				Subsystem: "widget",
				Name:      "mounts_total",
				Help:      "Total number of widget mounts",
			},
			[]string{"widget"},
		),

		RendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "widgetkit",
				Subsystem: "render",
				Name:      "total",
				Help:      "Total number of widget renders",
			},
			[]string{"widget"},
		),

		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "widgetkit",
				Subsystem: "render",
				Name:      "duration_seconds",
				Help:      "Widget render duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 10, 6),
			},
			[]string{"widget"},
		),

		EventsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "widgetkit",
				Subsystem: "events",
				Name:      "emitted_total",
				Help:      "Total number of notification events emitted",
			},
			[]string{"widget", "event"},
		),

		ActionsFired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "widgetkit",
				Subsystem: "actions",
				Name:      "fired_total",
				Help:      "Total number of interaction actions triggered",
			},
			[]string{"widget", "action"},
		),
	}
}
