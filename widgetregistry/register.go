// Package widgetregistry registers the built-in widget set. Registration
// is explicit: hosts call Register on a registry they own, so a process
// contains exactly the widgets it asked for and nothing registers itself
// at import time.
package widgetregistry

import (
	"errors"

	"github.com/c360/widgetkit/counter/token"
	pkgerrors "github.com/c360/widgetkit/errors"
	"github.com/c360/widgetkit/indicator/queue"
	"github.com/c360/widgetkit/panel/parameter"
	"github.com/c360/widgetkit/tracker/batch"
	"github.com/c360/widgetkit/tracker/loadstage"
	"github.com/c360/widgetkit/tracker/retry"
	"github.com/c360/widgetkit/widget"
)

// Register registers all built-in widgets with the provided registry:
//
// Trackers:
//   - retry-tracker (retry/backoff sequences)
//   - batch-tracker (per-item batch progress)
//   - loadstage-tracker (ordered loading stages)
//
// Counters:
//   - token-counter (streamed token counts)
//
// Indicators:
//   - queue-indicator (queue position with ETA)
//
// Panels:
//   - parameter-panel (adjustable numeric parameters)
func Register(registry *widget.Registry) error {
	if registry == nil {
		return pkgerrors.WrapFatal(
			errors.New("registry cannot be nil"),
			"WidgetRegistry", "Register", "registry validation")
	}

	if err := retry.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "WidgetRegistry", "Register", "retry tracker registration")
	}
	if err := batch.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "WidgetRegistry", "Register", "batch tracker registration")
	}
	if err := loadstage.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "WidgetRegistry", "Register", "load-stage tracker registration")
	}
	if err := token.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "WidgetRegistry", "Register", "token counter registration")
	}
	if err := queue.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "WidgetRegistry", "Register", "queue indicator registration")
	}
	if err := parameter.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "WidgetRegistry", "Register", "parameter panel registration")
	}

	return nil
}
