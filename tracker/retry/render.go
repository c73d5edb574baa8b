package retry

import (
	"fmt"
	"html"
	"strings"

	"github.com/c360/widgetkit/widget"
)

// Render writes the tracker's current state to its mount surface and
// rebinds the action handlers, since writing markup replaces prior
// bindings.
func (t *Tracker) Render() {
	t.mu.Lock()
	markup := t.markupLocked()
	cfg := t.config
	status := t.state.Status
	t.mu.Unlock()

	t.WriteMarkup(markup)
	t.bindActions(cfg, status)
}

func (t *Tracker) bindActions(cfg Config, status Status) {
	showRetry := cfg.AllowManualRetry &&
		(status == StatusWaiting || status == StatusFailed)
	showCancel := cfg.AllowCancel &&
		status != StatusCancelled && status != StatusFailed

	if showRetry {
		t.BindAction(actionManualRetry, func() {
			if t.Disabled() {
				return
			}
			t.ManualRetry()
		})
	} else {
		t.BindAction(actionManualRetry, nil)
	}

	if showCancel {
		t.BindAction(actionCancel, func() {
			if t.Disabled() {
				return
			}
			t.Cancel("cancelled by user")
		})
	} else {
		t.BindAction(actionCancel, nil)
	}
}

// markupLocked produces the full widget markup from current state.
// Requires t.mu held.
func (t *Tracker) markupLocked() string {
	var b strings.Builder
	st := t.state
	cfg := t.config

	classes := []string{
		"retry-tracker",
		"status-" + st.Status.String(),
		"size-" + cfg.Size,
		"variant-" + cfg.Variant,
	}
	if cfg.Animation {
		classes = append(classes, "animated")
	}
	if t.Disabled() {
		classes = append(classes, "disabled")
	}
	fmt.Fprintf(&b, `<div class="%s">`, strings.Join(classes, " "))

	b.WriteString(`<div class="status-badge">`)
	fmt.Fprintf(&b, `<span class="status-icon">%s</span>`, statusIcon(st.Status))
	fmt.Fprintf(&b, `<span class="status-text">%s</span>`, html.EscapeString(t.statusTextLocked()))
	b.WriteString(`</div>`)

	if cfg.ShowAttemptCount && st.Status != StatusIdle {
		fmt.Fprintf(&b, `<div class="attempt-count">Attempt %d of %d</div>`,
			st.Attempt, st.MaxAttempts)
	}

	t.writeMetricsLocked(&b)
	t.writeProgressLocked(&b)
	t.writePanelsLocked(&b)
	t.writeActionsLocked(&b)

	b.WriteString(`</div>`)
	return b.String()
}

// writeMetricsLocked renders the countdown / elapsed / strategy row
func (t *Tracker) writeMetricsLocked(b *strings.Builder) {
	st := t.state
	cfg := t.config

	var metrics []string
	if cfg.ShowNextRetry && st.Status == StatusWaiting {
		remaining := t.timeUntilRetryLocked()
		metrics = append(metrics, fmt.Sprintf(
			`<span class="metric next-retry">Next retry in %.1fs</span>`,
			remaining.Seconds()))
	}
	if cfg.ShowElapsedTime && !st.StartTime.IsZero() {
		metrics = append(metrics, fmt.Sprintf(
			`<span class="metric elapsed">Elapsed %s</span>`,
			widget.FormatDuration(st.ElapsedTime)))
	}
	if st.Status == StatusWaiting {
		metrics = append(metrics, fmt.Sprintf(
			`<span class="metric strategy">%s backoff</span>`, cfg.Strategy))
	}
	if len(metrics) == 0 {
		return
	}

	b.WriteString(`<div class="metrics">`)
	for _, m := range metrics {
		b.WriteString(m)
	}
	b.WriteString(`</div>`)
}

// writeProgressLocked renders the countdown progress bar while waiting
func (t *Tracker) writeProgressLocked(b *strings.Builder) {
	st := t.state
	if !t.config.ShowProgressBar || st.Status != StatusWaiting || st.CurrentDelay <= 0 {
		return
	}

	elapsed := st.CurrentDelay - t.timeUntilRetryLocked()
	pct := widget.FormatPercent(elapsed.Seconds(), st.CurrentDelay.Seconds())
	fmt.Fprintf(b,
		`<div class="progress"><div class="progress-bar" style="width: %.0f%%"></div></div>`,
		pct)
}

// writePanelsLocked renders the error and success detail panels
func (t *Tracker) writePanelsLocked(b *strings.Builder) {
	st := t.state

	showError := st.ErrorMessage != "" &&
		(st.Status == StatusWaiting || st.Status == StatusFailed)
	if showError {
		fmt.Fprintf(b, `<div class="error-panel">%s</div>`,
			html.EscapeString(st.ErrorMessage))
	}

	if st.Status == StatusSuccess {
		msg := st.Message
		if msg == "" {
			msg = "Operation completed"
		}
		fmt.Fprintf(b, `<div class="success-panel">%s</div>`,
			html.EscapeString(msg))
	}
}

// writeActionsLocked renders the manual-retry and cancel buttons matching
// the handlers bound after render
func (t *Tracker) writeActionsLocked(b *strings.Builder) {
	st := t.state
	cfg := t.config

	showRetry := cfg.AllowManualRetry &&
		(st.Status == StatusWaiting || st.Status == StatusFailed)
	showCancel := cfg.AllowCancel &&
		st.Status != StatusCancelled && st.Status != StatusFailed
	if !showRetry && !showCancel {
		return
	}

	b.WriteString(`<div class="actions">`)
	if showRetry {
		fmt.Fprintf(b, `<button class="retry-button" data-action="%s">Retry Now</button>`,
			actionManualRetry)
	}
	if showCancel {
		fmt.Fprintf(b, `<button class="cancel-button" data-action="%s">Cancel</button>`,
			actionCancel)
	}
	b.WriteString(`</div>`)
}

// statusTextLocked picks the badge text: the caller-supplied message when
// present, otherwise a default per status. Requires t.mu held.
func (t *Tracker) statusTextLocked() string {
	if t.state.Message != "" {
		return t.state.Message
	}
	switch t.state.Status {
	case StatusIdle:
		return "Ready"
	case StatusAttempting:
		return fmt.Sprintf("Attempting (%d/%d)...", t.state.Attempt, t.state.MaxAttempts)
	case StatusWaiting:
		return "Waiting to retry..."
	case StatusSuccess:
		return "Success"
	case StatusFailed:
		return "Failed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return ""
	}
}

func statusIcon(s Status) string {
	switch s {
	case StatusAttempting:
		return "&#8635;" // clockwise arrow
	case StatusWaiting:
		return "&#8987;" // hourglass
	case StatusSuccess:
		return "&#10003;" // check mark
	case StatusFailed:
		return "&#10007;" // ballot x
	case StatusCancelled:
		return "&#8856;" // circled slash
	default:
		return "&#9675;" // open circle
	}
}
