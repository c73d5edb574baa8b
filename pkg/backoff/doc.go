// Package backoff provides multi-strategy delay calculation for retry
// visualization.
//
// # Overview
//
// This package computes the delay before a given retry attempt. Unlike a
// retry executor, it performs no sleeping and no function invocation: the
// retry tracker widget visualizes attempts driven by the caller, so all
// this package needs to answer is "how long until attempt n".
//
// # Strategies
//
//   - exponential: InitialDelay * Multiplier^(attempt-1)
//   - linear:      InitialDelay * attempt
//   - fibonacci:   InitialDelay * fib(attempt), fib(1) = fib(2) = 1
//   - fixed:       InitialDelay
//
// Every computed delay is capped at MaxDelay.
//
// # Usage
//
//	cfg := backoff.Config{
//	    Strategy:     backoff.StrategyExponential,
//	    InitialDelay: 100 * time.Millisecond,
//	    MaxDelay:     time.Second,
//	    Multiplier:   2.0,
//	}
//	delay := cfg.Delay(3) // 400ms
//
// # Design Philosophy
//
// Invalid configuration never produces an error: out-of-range values fall
// back to defaults so a widget fed a malformed attribute keeps working
// with its previous valid behavior.
package backoff
