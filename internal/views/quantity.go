package views

import (
	"strconv"
	"strings"
)

// ClampQuantity keeps a stepper value at or above 1
func ClampQuantity(q int) int {
	return max(1, q)
}

// StepQuantity applies delta to the current stepper value, clamped to 1
func StepQuantity(current, delta int) int {
	return ClampQuantity(current + delta)
}

// ParseQuantity reads a typed quantity. Input that is not a positive
// integer yields fallback.
func ParseQuantity(s string, fallback int) int {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || q <= 0 {
		return fallback
	}
	return q
}
