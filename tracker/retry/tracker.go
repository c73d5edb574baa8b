package retry

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/c360/widgetkit/errors"
	"github.com/c360/widgetkit/pkg/backoff"
	"github.com/c360/widgetkit/widget"
)

// Event names emitted by the tracker. Payload keys use the camelCase
// convention shared by the factory config and host attributes; all
// timestamps are epoch milliseconds.
const (
	// EventAttempt fires when an attempt starts
	EventAttempt = "retryattempt"
	// EventWaiting fires when a backoff countdown begins
	EventWaiting = "retrywaiting"
	// EventSuccess fires when the run completes successfully
	EventSuccess = "retrysuccess"
	// EventFailure fires when the attempt budget is exhausted or Failure is called
	EventFailure = "retryfailure"
	// EventCancel fires when the run is cancelled
	EventCancel = "retrycancel"
	// EventManualRetry fires when the user triggers the retry button
	EventManualRetry = "manualretry"
)

// Action names bound on the surface after each render
const (
	actionManualRetry = "manual-retry"
	actionCancel      = "cancel"
)

const (
	elapsedTickInterval   = time.Second
	countdownTickInterval = 100 * time.Millisecond
)

// WaitUpdate carries optional overrides for WaitForRetry. Zero fields are
// computed by the tracker: Attempt becomes the current attempt plus one,
// Delay comes from the configured backoff strategy.
type WaitUpdate struct {
	Attempt int
	Delay   time.Duration
	Message string
	Err     error
}

// Tracker visualizes a retry/backoff sequence driven by an external
// operation: the host reports attempt starts, waits, and outcomes, and the
// tracker keeps the countdown, elapsed-time display and auto-advance timer
// running on its own.
//
// Methods are callable from any goroutine; internal timer callbacks take
// the same mutex, so state transitions stay atomic. Event listeners run
// outside the lock and may call back into the tracker.
type Tracker struct {
	*widget.Base

	mu     sync.Mutex
	config Config
	state  State

	waitTimer      clockwork.Timer
	elapsedTimer   clockwork.Timer
	countdownTimer clockwork.Timer

	// Generation counters invalidate in-flight timer callbacks after a
	// timer is replaced or stopped; Timer.Stop alone cannot prevent a
	// callback that already fired from running.
	waitGen      uint64
	elapsedGen   uint64
	countdownGen uint64
}

// New creates a retry tracker. Invalid config values are replaced with
// defaults; construction never fails.
func New(cfg Config, deps widget.Dependencies) *Tracker {
	cfg.normalize()

	t := &Tracker{
		config: cfg,
		state: State{
			Status:      StatusIdle,
			Attempt:     cfg.Attempt,
			MaxAttempts: cfg.MaxAttempts,
		},
	}
	t.Base = widget.NewBase(t, WidgetName, cfg.Config, deps)
	return t
}

// Create is the registry factory for the retry tracker
func Create(raw json.RawMessage, deps widget.Dependencies) (widget.Widget, error) {
	cfg, err := parseConfig(raw)
	if err != nil {
		return nil, errors.Wrap(err, "retry", "Create", "parse config")
	}
	return New(cfg, deps), nil
}

// Register adds the retry tracker factory to the registry
func Register(r *widget.Registry) error {
	return r.RegisterWithConfig(widget.RegistrationConfig{
		Name:        WidgetName,
		Factory:     Create,
		Schema:      Schema(),
		Category:    "tracker",
		Description: "Visualizes retry attempts with configurable backoff, countdown and manual controls",
		Version:     "1.0.0",
	})
}

// Meta returns basic widget information
func (t *Tracker) Meta() widget.Metadata {
	return widget.Metadata{
		Name:        WidgetName,
		Category:    "tracker",
		Description: "Visualizes retry attempts with configurable backoff, countdown and manual controls",
		Version:     "1.0.0",
	}
}

// ConfigSchema returns the configuration schema for this widget
func (t *Tracker) ConfigSchema() widget.ConfigSchema { return Schema() }

// DefaultRole declares the accessibility role applied at mount
func (t *Tracker) DefaultRole() string { return "status" }

// State returns a snapshot of the tracker's current state
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// GetStatus returns the current machine state
func (t *Tracker) GetStatus() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Status
}

// GetAttempt returns the current attempt number
func (t *Tracker) GetAttempt() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Attempt
}

// GetTimeUntilRetry returns the remaining wait before the next attempt,
// or zero when the tracker is not waiting.
func (t *Tracker) GetTimeUntilRetry() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeUntilRetryLocked()
}

func (t *Tracker) timeUntilRetryLocked() time.Duration {
	if t.state.Status != StatusWaiting {
		return 0
	}
	remaining := t.state.NextRetryTime.Sub(t.Clock().Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CalculateDelay returns the wait before retry number n under the current
// configuration. Retry numbers are 1-indexed: n=1 is the wait between the
// first and second attempt.
func (t *Tracker) CalculateDelay(n int) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.config.backoffConfig().Delay(n)
}

// Attempt marks an attempt as in flight. The attempt number never changes
// here; only WaitForRetry advances it. An empty message keeps the default
// status text.
func (t *Tracker) Attempt(message string) {
	t.mu.Lock()
	detail := t.attemptLocked(message)
	t.mu.Unlock()

	t.Render()
	t.Emit(EventAttempt, detail)
}

func (t *Tracker) attemptLocked(message string) map[string]any {
	t.stopWaitLocked()
	t.stopCountdownLocked()

	now := t.Clock().Now()
	if t.state.StartTime.IsZero() {
		t.state.StartTime = now
	}
	t.state.Status = StatusAttempting
	t.state.Message = message
	t.state.NextRetryTime = time.Time{}
	t.state.ElapsedTime = now.Sub(t.state.StartTime)

	t.startElapsedLocked()

	return map[string]any{
		"attempt":     t.state.Attempt,
		"maxAttempts": t.state.MaxAttempts,
		"message":     message,
		"timestamp":   now.UnixMilli(),
	}
}

// WaitForRetry starts the backoff countdown before the next attempt. When
// the wait elapses without an intervening transition the tracker advances
// to attempting on its own. If the next attempt number would exceed the
// budget the tracker fails the run instead.
func (t *Tracker) WaitForRetry(update WaitUpdate) {
	t.mu.Lock()

	next := update.Attempt
	if next <= 0 {
		next = t.state.Attempt + 1
	}

	if next > t.state.MaxAttempts {
		detail := t.failLocked(update.Err)
		t.mu.Unlock()
		t.Render()
		t.Emit(EventFailure, detail)
		return
	}

	t.stopWaitLocked()
	t.stopCountdownLocked()

	delay := update.Delay
	if delay <= 0 {
		retryIndex := next - 1
		if retryIndex < 1 {
			retryIndex = 1
		}
		delay = t.config.backoffConfig().Delay(retryIndex)
	}

	now := t.Clock().Now()
	if t.state.StartTime.IsZero() {
		t.state.StartTime = now
	}
	t.state.Status = StatusWaiting
	t.state.Attempt = next
	t.state.CurrentDelay = delay
	t.state.NextRetryTime = now.Add(delay)
	t.state.ElapsedTime = now.Sub(t.state.StartTime)
	t.state.Message = update.Message
	if update.Err != nil {
		t.state.LastError = update.Err
		t.state.ErrorMessage = update.Err.Error()
	}

	t.waitGen++
	gen := t.waitGen
	t.waitTimer = t.Clock().AfterFunc(delay, func() { t.autoFire(gen) })

	t.startElapsedLocked()
	t.startCountdownLocked()

	detail := map[string]any{
		"attempt":       next,
		"delay":         delay.Milliseconds(),
		"nextRetryTime": t.state.NextRetryTime.UnixMilli(),
		"strategy":      string(t.config.Strategy),
		"timestamp":     now.UnixMilli(),
	}
	t.mu.Unlock()

	t.Render()
	t.Emit(EventWaiting, detail)
}

// autoFire runs when the wait timer elapses. A stale generation or a state
// change since scheduling means the wait was superseded; the fire is
// dropped.
func (t *Tracker) autoFire(gen uint64) {
	t.mu.Lock()
	if gen != t.waitGen || t.state.Status != StatusWaiting {
		t.mu.Unlock()
		return
	}
	detail := t.attemptLocked("")
	t.mu.Unlock()

	t.Render()
	t.Emit(EventAttempt, detail)
}

// Success ends the run successfully and freezes the elapsed time
func (t *Tracker) Success(message string) {
	t.mu.Lock()
	t.stopTimersLocked()

	now := t.Clock().Now()
	t.state.Status = StatusSuccess
	t.state.Message = message
	t.state.NextRetryTime = time.Time{}
	t.state.ErrorMessage = ""
	t.state.LastError = nil
	if !t.state.StartTime.IsZero() {
		t.state.ElapsedTime = now.Sub(t.state.StartTime)
	}

	detail := map[string]any{
		"attempt":       t.state.Attempt,
		"totalAttempts": t.state.Attempt,
		"elapsedTime":   t.state.ElapsedTime.Milliseconds(),
		"message":       message,
		"timestamp":     now.UnixMilli(),
	}
	t.mu.Unlock()

	t.Render()
	t.Emit(EventSuccess, detail)
}

// Failure ends the run as failed, recording the final error
func (t *Tracker) Failure(err error) {
	t.mu.Lock()
	detail := t.failLocked(err)
	t.mu.Unlock()

	t.Render()
	t.Emit(EventFailure, detail)
}

func (t *Tracker) failLocked(err error) map[string]any {
	t.stopTimersLocked()

	now := t.Clock().Now()
	t.state.Status = StatusFailed
	t.state.NextRetryTime = time.Time{}
	if err != nil {
		t.state.LastError = err
		t.state.ErrorMessage = err.Error()
	}
	if !t.state.StartTime.IsZero() {
		t.state.ElapsedTime = now.Sub(t.state.StartTime)
	}

	return map[string]any{
		"totalAttempts": t.state.Attempt,
		"lastError":     t.state.ErrorMessage,
		"elapsedTime":   t.state.ElapsedTime.Milliseconds(),
		"timestamp":     now.UnixMilli(),
	}
}

// Cancel ends the run as cancelled
func (t *Tracker) Cancel(reason string) {
	t.mu.Lock()
	t.stopTimersLocked()

	now := t.Clock().Now()
	t.state.Status = StatusCancelled
	t.state.Message = reason
	t.state.NextRetryTime = time.Time{}
	if !t.state.StartTime.IsZero() {
		t.state.ElapsedTime = now.Sub(t.state.StartTime)
	}

	detail := map[string]any{
		"attempt":   t.state.Attempt,
		"reason":    reason,
		"timestamp": now.UnixMilli(),
	}
	t.mu.Unlock()

	t.Render()
	t.Emit(EventCancel, detail)
}

// Reset returns the tracker to idle with the configured initial attempt.
// No event is emitted.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.stopTimersLocked()
	t.state = State{
		Status:      StatusIdle,
		Attempt:     t.config.Attempt,
		MaxAttempts: t.config.MaxAttempts,
	}
	t.mu.Unlock()

	t.Render()
}

// ManualRetry emits the manual-retry notification then starts an attempt.
// Bound to the retry button; hosts may also call it directly.
func (t *Tracker) ManualRetry() {
	t.mu.Lock()
	detail := map[string]any{
		"attempt":   t.state.Attempt,
		"timestamp": t.Clock().Now().UnixMilli(),
	}
	t.mu.Unlock()

	t.Emit(EventManualRetry, detail)
	t.Attempt("")
}

// Cleanup cancels all timers; invoked by the runtime at unmount
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	t.stopTimersLocked()
	t.mu.Unlock()
}

// HandleAttributeChange reflects host-attribute edits into the tracker
// configuration. Malformed values are ignored and the previous valid value
// kept.
func (t *Tracker) HandleAttributeChange(name, oldValue, newValue string) {
	t.mu.Lock()
	changed := t.applyAttributeLocked(name, newValue)
	t.mu.Unlock()

	if changed {
		t.Render()
	}
}

func (t *Tracker) applyAttributeLocked(name, value string) bool {
	switch name {
	case "max-attempts":
		if n, ok := widget.ParseIntAttribute(value); ok && n >= 1 {
			t.config.MaxAttempts = n
			t.state.MaxAttempts = n
			return true
		}
	case "initial-delay":
		if n, ok := widget.ParseIntAttribute(value); ok && n > 0 {
			t.config.InitialDelay = time.Duration(n) * time.Millisecond
			return true
		}
	case "max-delay":
		if n, ok := widget.ParseIntAttribute(value); ok && n > 0 {
			t.config.MaxDelay = time.Duration(n) * time.Millisecond
			return true
		}
	case "backoff-multiplier":
		if f, ok := widget.ParseFloatAttribute(value); ok && f > 0 {
			t.config.BackoffMultiplier = f
			return true
		}
	case "strategy":
		if s, ok := backoff.ParseStrategy(value); ok {
			t.config.Strategy = s
			return true
		}
	case "attempt":
		if n, ok := widget.ParseIntAttribute(value); ok && n >= 1 {
			t.config.Attempt = n
			return true
		}
	case "allow-manual-retry":
		if b, ok := widget.ParseBoolAttribute(value); ok {
			t.config.AllowManualRetry = b
			return true
		}
	case "allow-cancel":
		if b, ok := widget.ParseBoolAttribute(value); ok {
			t.config.AllowCancel = b
			return true
		}
	case "show-attempt-count":
		if b, ok := widget.ParseBoolAttribute(value); ok {
			t.config.ShowAttemptCount = b
			return true
		}
	case "show-next-retry":
		if b, ok := widget.ParseBoolAttribute(value); ok {
			t.config.ShowNextRetry = b
			return true
		}
	case "show-elapsed-time":
		if b, ok := widget.ParseBoolAttribute(value); ok {
			t.config.ShowElapsedTime = b
			return true
		}
	case "show-progress-bar":
		if b, ok := widget.ParseBoolAttribute(value); ok {
			t.config.ShowProgressBar = b
			return true
		}
	case "size":
		if validSize(value) {
			t.config.Size = value
			return true
		}
	case "variant":
		if validVariant(value) {
			t.config.Variant = value
			return true
		}
	case "animation":
		if b, ok := widget.ParseBoolAttribute(value); ok {
			t.config.Animation = b
			return true
		}
	}
	return false
}

// Timer plumbing. All start/stop helpers require t.mu held.

func (t *Tracker) startElapsedLocked() {
	if t.elapsedTimer != nil {
		return
	}
	t.elapsedGen++
	gen := t.elapsedGen
	t.elapsedTimer = t.Clock().AfterFunc(elapsedTickInterval, func() { t.elapsedTick(gen) })
}

func (t *Tracker) elapsedTick(gen uint64) {
	t.mu.Lock()
	if gen != t.elapsedGen {
		t.mu.Unlock()
		return
	}
	if t.state.Status != StatusAttempting && t.state.Status != StatusWaiting {
		t.elapsedTimer = nil
		t.mu.Unlock()
		return
	}
	t.state.ElapsedTime = t.Clock().Since(t.state.StartTime)
	t.elapsedTimer = t.Clock().AfterFunc(elapsedTickInterval, func() { t.elapsedTick(gen) })
	t.mu.Unlock()

	t.Render()
}

func (t *Tracker) stopElapsedLocked() {
	t.elapsedGen++
	if t.elapsedTimer != nil {
		t.elapsedTimer.Stop()
		t.elapsedTimer = nil
	}
}

func (t *Tracker) startCountdownLocked() {
	if t.countdownTimer != nil {
		return
	}
	t.countdownGen++
	gen := t.countdownGen
	t.countdownTimer = t.Clock().AfterFunc(countdownTickInterval, func() { t.countdownTick(gen) })
}

func (t *Tracker) countdownTick(gen uint64) {
	t.mu.Lock()
	if gen != t.countdownGen {
		t.mu.Unlock()
		return
	}
	if t.state.Status != StatusWaiting {
		t.countdownTimer = nil
		t.mu.Unlock()
		return
	}
	t.countdownTimer = t.Clock().AfterFunc(countdownTickInterval, func() { t.countdownTick(gen) })
	t.mu.Unlock()

	// Countdown ticks only refresh the remaining-time display
	t.Render()
}

func (t *Tracker) stopCountdownLocked() {
	t.countdownGen++
	if t.countdownTimer != nil {
		t.countdownTimer.Stop()
		t.countdownTimer = nil
	}
}

func (t *Tracker) stopWaitLocked() {
	t.waitGen++
	if t.waitTimer != nil {
		t.waitTimer.Stop()
		t.waitTimer = nil
	}
}

func (t *Tracker) stopTimersLocked() {
	t.stopWaitLocked()
	t.stopElapsedLocked()
	t.stopCountdownLocked()
}
