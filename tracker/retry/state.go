package retry

import (
	"time"
)

// Status represents the current machine state of a retry run
type Status int

const (
	// StatusIdle indicates no retry run has started
	StatusIdle Status = iota
	// StatusAttempting indicates an attempt is in flight
	StatusAttempting
	// StatusWaiting indicates the tracker is counting down to the next attempt
	StatusWaiting
	// StatusSuccess indicates the run finished successfully (terminal)
	StatusSuccess
	// StatusFailed indicates the run exhausted its attempts or was failed (terminal until Reset)
	StatusFailed
	// StatusCancelled indicates the run was cancelled (terminal until Reset)
	StatusCancelled
)

// String returns a string representation of the status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusAttempting:
		return "attempting"
	case StatusWaiting:
		return "waiting"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status ends a retry run
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// State is the tracker's mutable state record. The tracker itself is the
// single writer; callers read snapshots via Tracker.State().
//
// Invariant: NextRetryTime is non-zero exactly while Status == StatusWaiting.
// Invariant: Attempt never exceeds MaxAttempts+1 in steady operation;
// WaitForRetry transitions to StatusFailed instead of incrementing past it.
type State struct {
	Status        Status
	Attempt       int           // 1-indexed current/next attempt number
	MaxAttempts   int           // mirrors config, may be overridden via attribute
	CurrentDelay  time.Duration // delay computed for the upcoming retry
	NextRetryTime time.Time     // wall-clock time the wait ends; zero unless waiting
	StartTime     time.Time     // first Attempt of the run
	ElapsedTime   time.Duration // run duration bookkeeping
	Message       string
	ErrorMessage  string
	LastError     error
}
