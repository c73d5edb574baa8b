// Package format provides pure formatting helpers shared by all widgets:
// percentage clamping, byte counts, durations and currency amounts.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Percent returns current/total as a percentage clamped to [0, 100].
// A zero or negative total yields 0 so callers never divide by zero.
func Percent(current, total float64) float64 {
	if total <= 0 {
		return 0
	}
	pct := current / total * 100
	return math.Min(100, math.Max(0, pct))
}

// Bytes formats a byte count in a compact human-readable form:
// "512B", "1.5K", "2.0M", "3.1G".
func Bytes(n int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)

	switch {
	case n < 0:
		return "0B"
	case n < kb:
		return fmt.Sprintf("%dB", n)
	case n < mb:
		return fmt.Sprintf("%.1fK", float64(n)/float64(kb))
	case n < gb:
		return fmt.Sprintf("%.1fM", float64(n)/float64(mb))
	default:
		return fmt.Sprintf("%.1fG", float64(n)/float64(gb))
	}
}

// Duration formats a duration as the two most significant units:
// "2h 5m", "3m 20s" or "45s". Sub-second durations render as "0s".
func Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	totalSeconds := int64(d / time.Second)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Currency formats an amount in dollars with two decimal places and
// thousands grouping: Currency(1234.5) == "$1,234.50".
func Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$0.00"
	}

	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	grouped := groupThousands(whole)
	s := fmt.Sprintf("$%s.%02d", grouped, cents)
	if negative {
		return "-" + s
	}
	return s
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
