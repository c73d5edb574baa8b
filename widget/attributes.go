package widget

import (
	"math"
	"strconv"
	"strings"
)

// Attribute parsing helpers for widgets reflecting host-attribute edits
// into config fields. All of them report ok=false for malformed input so
// the widget keeps its previous valid value instead of failing.

// ParseIntAttribute parses a non-negative integer attribute value
func ParseIntAttribute(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ParseFloatAttribute parses a finite float attribute value
func ParseFloatAttribute(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseBoolAttribute parses a boolean attribute value. Attribute presence
// with an empty value counts as true, matching host-attribute conventions.
func ParseBoolAttribute(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "true", "1":
		return true, true
	case "false", "0":
		return false, true
	default:
		return false, false
	}
}
