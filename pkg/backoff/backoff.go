// Package backoff provides multi-strategy retry delay calculation for the framework
package backoff

import (
	"math"
	"time"
)

// Strategy selects the delay formula family used between retry attempts.
type Strategy string

const (
	// StrategyExponential grows the delay by a multiplier each attempt.
	StrategyExponential Strategy = "exponential"
	// StrategyLinear grows the delay proportionally to the attempt number.
	StrategyLinear Strategy = "linear"
	// StrategyFixed uses the initial delay for every attempt.
	StrategyFixed Strategy = "fixed"
	// StrategyFibonacci grows the delay along the Fibonacci sequence.
	StrategyFibonacci Strategy = "fibonacci"
)

// IsValid reports whether s is a recognized strategy.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyExponential, StrategyLinear, StrategyFixed, StrategyFibonacci:
		return true
	}
	return false
}

// ParseStrategy converts a string into a Strategy. Unrecognized values
// return false so callers can keep their previous valid strategy.
func ParseStrategy(s string) (Strategy, bool) {
	st := Strategy(s)
	return st, st.IsValid()
}

// Config provides backoff calculation parameters
type Config struct {
	Strategy     Strategy      // Delay formula family
	InitialDelay time.Duration // Base delay for the first retry
	MaxDelay     time.Duration // Upper bound applied to every computed delay
	Multiplier   float64       // Growth factor (exponential strategy only)
}

// DefaultConfig returns sensible defaults for backoff calculation
func DefaultConfig() Config {
	return Config{
		Strategy:     StrategyExponential,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// Delay computes the delay before the given 1-indexed attempt, capped at
// MaxDelay. Attempts below 1 are treated as 1. Invalid configuration
// falls back to defaults rather than failing: widgets favor resilience
// over strict validation.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	initial := c.InitialDelay
	if initial < 0 {
		initial = 0
	}
	maxDelay := c.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultConfig().MaxDelay
	}
	multiplier := c.Multiplier
	if multiplier <= 0 || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		multiplier = 2.0
	}
	// Prevent overflow with extremely large multipliers
	if multiplier > 1000 {
		multiplier = 1000
	}

	var delay float64
	switch c.Strategy {
	case StrategyLinear:
		delay = float64(initial) * float64(attempt)
	case StrategyFixed:
		delay = float64(initial)
	case StrategyFibonacci:
		delay = float64(initial) * float64(fibonacci(attempt))
	default: // exponential
		delay = float64(initial) * math.Pow(multiplier, float64(attempt-1))
	}

	// Cap before converting back: large exponents overflow time.Duration
	if delay > float64(maxDelay) || delay > float64(math.MaxInt64) {
		return maxDelay
	}
	if delay < 0 {
		return 0
	}
	return time.Duration(delay)
}

// fibonacci returns the nth Fibonacci number with fib(1) == fib(2) == 1.
// Iterative with an early cap so huge attempt numbers cannot overflow;
// by attempt 92 the value already exceeds any practical delay.
func fibonacci(n int) int64 {
	if n <= 2 {
		return 1
	}
	if n > 92 {
		n = 92
	}
	var a, b int64 = 1, 1
	for i := 3; i <= n; i++ {
		a, b = b, a+b
	}
	return b
}
