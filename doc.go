// Package widgetkit provides a framework-agnostic library of
// progress-visualization widgets for AI-facing applications.
//
// # Philosophy: Runtime + Widgets
//
// widgetkit is split into a small widget runtime and a set of concrete
// widgets built on top of it:
//
// Runtime (widget package):
//   - Lifecycle: mount, render, unmount with cleanup hooks
//   - Surfaces: any markup sink can host a widget (terminal, memory, bridge)
//   - Events: named, payload-carrying notifications to external observers
//   - Registry: explicit factory registration and instance tracking
//   - Infrastructure: structured logging, Prometheus metrics, clock injection
//
// Widgets (one package per widget):
//   - tracker/retry: retry/backoff progress tracker with four delay strategies
//   - tracker/batch: batch-item tracker
//   - tracker/loadstage: model-load stage tracker
//   - counter/token: streaming token counter with throttled updates
//   - indicator/queue: queue position indicator with ETA estimation
//   - panel/parameter: parameter panel with optional persisted values
//
// widgetkit MUST NOT contain:
//   - Host-framework adapter logic (React/Next bridges live elsewhere)
//   - A rendering engine; widgets write markup strings to a Surface and
//     hosts decide how to present them
//   - Application business logic; widgets visualize progress driven by the
//     caller, they never perform the tracked operation themselves
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│         Host application            │  drives widgets via methods,
//	│   (TUI, test harness, bridge)       │  observes them via events
//	└─────────────────────────────────────┘
//	           ↓ method calls, ↑ events
//	┌─────────────────────────────────────┐
//	│           Widgets                   │  state record + render
//	│  (retry, token, batch, queue, ...)  │
//	└─────────────────────────────────────┘
//	           ↓ markup, attributes
//	┌─────────────────────────────────────┐
//	│           Surface                   │  terminal, memory, custom
//	└─────────────────────────────────────┘
//
// Every mutating widget method updates state, re-renders synchronously and
// emits a notification; no method blocks the caller. Timer-driven behavior
// (retry countdowns, elapsed tickers, throttled updates) goes through an
// injected clockwork.Clock so it is deterministic under test.
//
// # Getting Started
//
//	reg := widget.NewRegistry()
//	widgetregistry.Register(reg)
//
//	deps := widget.Dependencies{Logger: logger, Clock: clockwork.NewRealClock()}
//	w, err := reg.CreateWidget("retry-main", widget.InstanceConfig{
//	    Name:   "retry-tracker",
//	    Config: json.RawMessage(`{"maxAttempts": 5, "strategy": "exponential"}`),
//	}, deps)
package widgetkit
