// Package metric provides Prometheus-based metrics collection and an HTTP
// server for widgetkit observability.
//
// The package offers a centralized metrics registry managing both core
// runtime metrics (widget status, mounts, renders, emitted events) and
// custom widget-specific metrics. It includes an HTTP server exposing
// metrics in Prometheus format.
//
// # Architecture
//
//  1. Core Metrics: runtime-level metrics automatically registered (Metrics type)
//  2. Widget Registry: extensible registration for widget-specific metrics (Registrar interface)
//  3. HTTP Server: metrics endpoint with a health check (Server type)
//
// Metrics are optional throughout the runtime: widgets created without a
// MetricsRegistry simply skip instrumentation.
package metric
