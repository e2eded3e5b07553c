package errors

import (
	"math"
	"slices"
	"strings"
)

// ValidateChoice checks that value is one of allowed.
// The comparison is case-sensitive; option values are lower-case keywords.
func ValidateChoice(name, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(ErrCodeInvalidOption, "invalid %s: %q (must be one of: %s)",
		name, value, strings.Join(allowed, ", "))
}

// ValidateFraction checks that value is a finite number in [0, 1].
func ValidateFraction(name string, value float64) error {
	if math.IsNaN(value) || value < 0 || value > 1 {
		return New(ErrCodeInvalidOption, "%s must be between 0 and 1, got %v", name, value)
	}
	return nil
}

// ValidateNonNegative checks that value is a finite number >= 0.
func ValidateNonNegative(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return New(ErrCodeInvalidOption, "%s must be non-negative, got %v", name, value)
	}
	return nil
}

// ValidatePositive checks that value is a finite number > 0.
func ValidatePositive(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return New(ErrCodeInvalidOption, "%s must be positive, got %v", name, value)
	}
	return nil
}
