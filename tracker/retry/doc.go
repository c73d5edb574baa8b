// Package retry implements the retry/backoff tracker widget.
//
// The tracker visualizes an externally driven retry sequence. The host
// performs the operation and reports transitions; the tracker owns the
// countdown, the elapsed-time display and the automatic advance into the
// next attempt:
//
//	t := retry.New(retry.Config{MaxAttempts: 5}, deps)
//	t.Mount(surface)
//
//	t.Attempt("Connecting...")
//	t.WaitForRetry(retry.WaitUpdate{Err: err}) // countdown, then auto-attempt
//	t.Success("Connected")
//
// # State Machine
//
// idle -> attempting -> waiting -> attempting -> ... and from any active
// state into one of the terminal states success, failed or cancelled.
// WaitForRetry transitions directly to failed when the next attempt would
// exceed the budget. Reset returns to idle from anywhere.
//
// # Timers
//
// Three timers run against the injected clockwork.Clock: a one-shot wait
// timer that fires the automatic next attempt, a one-second ticker for the
// elapsed-time display and a 100ms ticker for the countdown while waiting.
// Terminal transitions and Reset cancel all three; generation counters
// drop callbacks from timers that were already in flight when cancelled.
//
// # Events
//
// The tracker emits retryattempt, retrywaiting, retrysuccess,
// retryfailure, retrycancel and manualretry with epoch-millisecond
// timestamps. Subscribe via On or OnAny on the embedded widget runtime.
package retry
