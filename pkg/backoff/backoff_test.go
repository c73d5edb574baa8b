package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelay_Exponential(t *testing.T) {
	cfg := Config{
		Strategy:     StrategyExponential,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
	}

	assert.Equal(t, 100*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 200*time.Millisecond, cfg.Delay(2))
	assert.Equal(t, 400*time.Millisecond, cfg.Delay(3))
	assert.Equal(t, 800*time.Millisecond, cfg.Delay(4))
	// Capped at MaxDelay from attempt 5 onward
	assert.Equal(t, 1*time.Second, cfg.Delay(5))
	assert.Equal(t, 1*time.Second, cfg.Delay(10))
}

func TestDelay_ExponentialRatio(t *testing.T) {
	cfg := Config{
		Strategy:     StrategyExponential,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     time.Hour,
		Multiplier:   3.0,
	}

	// delay(n+1)/delay(n) == Multiplier before hitting the cap
	for n := 1; n < 8; n++ {
		ratio := float64(cfg.Delay(n+1)) / float64(cfg.Delay(n))
		assert.InDelta(t, 3.0, ratio, 0.001, "attempt %d", n)
	}
}

func TestDelay_Linear(t *testing.T) {
	cfg := Config{
		Strategy:     StrategyLinear,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     10 * time.Second,
	}

	for n := 1; n <= 5; n++ {
		assert.Equal(t, time.Duration(n)*100*time.Millisecond, cfg.Delay(n))
	}
}

func TestDelay_Fixed(t *testing.T) {
	cfg := Config{
		Strategy:     StrategyFixed,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     10 * time.Second,
	}

	for n := 1; n <= 10; n++ {
		assert.Equal(t, 250*time.Millisecond, cfg.Delay(n))
	}
}

func TestDelay_Fibonacci(t *testing.T) {
	cfg := Config{
		Strategy:     StrategyFibonacci,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     time.Minute,
	}

	expected := []int64{1, 1, 2, 3, 5, 8, 13}
	for i, fib := range expected {
		assert.Equal(t, time.Duration(fib)*10*time.Millisecond, cfg.Delay(i+1))
	}
}

func TestDelay_CapAppliesToAllStrategies(t *testing.T) {
	strategies := []Strategy{StrategyExponential, StrategyLinear, StrategyFixed, StrategyFibonacci}

	for _, s := range strategies {
		cfg := Config{
			Strategy:     s,
			InitialDelay: time.Second,
			MaxDelay:     2 * time.Second,
			Multiplier:   10,
		}
		for n := 1; n <= 50; n++ {
			assert.LessOrEqual(t, cfg.Delay(n), 2*time.Second, "strategy %s attempt %d", s, n)
		}
	}
}

func TestDelay_InvalidInputs(t *testing.T) {
	cfg := Config{
		Strategy:     StrategyExponential,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}

	// Attempts below 1 behave like attempt 1
	assert.Equal(t, cfg.Delay(1), cfg.Delay(0))
	assert.Equal(t, cfg.Delay(1), cfg.Delay(-5))

	// Non-positive multiplier falls back to the default without panicking
	bad := cfg
	bad.Multiplier = -1
	assert.Equal(t, 200*time.Millisecond, bad.Delay(2))
}

func TestDelay_OverflowProtection(t *testing.T) {
	cfg := Config{
		Strategy:     StrategyExponential,
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
		Multiplier:   1000,
	}

	// Huge exponents must cap, never wrap negative
	assert.Equal(t, time.Minute, cfg.Delay(500))

	fib := Config{
		Strategy:     StrategyFibonacci,
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
	}
	assert.Equal(t, time.Minute, fib.Delay(1000))
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input string
		want  Strategy
		ok    bool
	}{
		{"exponential", StrategyExponential, true},
		{"linear", StrategyLinear, true},
		{"fixed", StrategyFixed, true},
		{"fibonacci", StrategyFibonacci, true},
		{"quadratic", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseStrategy(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, StrategyExponential, cfg.Strategy)
	assert.Equal(t, 1*time.Second, cfg.InitialDelay)
	assert.Equal(t, 30*time.Second, cfg.MaxDelay)
	assert.Equal(t, 2.0, cfg.Multiplier)
}
