// Package errors provides standardized error handling patterns for widgetkit.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable), and
// Fatal (unrecoverable, stop processing).
//
// Widget operations themselves never return errors: a malformed call is a
// no-op and the previous valid state is kept. Errors exist for the plumbing
// around widgets: registry registration and lookup, manager lifecycle, and
// the parameter store.
//
// # Error Classification
//
//   - Transient: store temporarily unavailable (retry recommended)
//   - Invalid: malformed configuration, duplicate or unknown registrations
//   - Fatal: unrecoverable states (stop processing)
//
// The classification system integrates with Go's standard error handling,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if reg.Widget(name) == nil {
//	    return errors.ErrNotMounted
//	}
//
// Wrap errors with component context:
//
//	if err := store.Load(path); err != nil {
//	    return errors.Wrap(err, "ParameterPanel", "Mount", "value load")
//	}
//
// Classify at decision points:
//
//	if errors.IsTransient(err) {
//	    // retry the store operation
//	}
package errors
