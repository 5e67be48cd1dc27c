// Package thresholds classifies metric vectors against configurable limits.
package thresholds

import (
	"strings"

	"github.com/corvidae/augur/pkg/metrics"
)

// Flag marks one way a class breaches the configured limits.
type Flag string

const (
	// FlagHighCoupling fires when CBO exceeds the coupling limit.
	FlagHighCoupling Flag = "HighCoupling"
	// FlagLowCohesion fires when LCOM exceeds the cohesion limit.
	FlagLowCohesion Flag = "LowCohesion"
	// FlagTooManyMethods fires when the declared method count exceeds the
	// method limit.
	FlagTooManyMethods Flag = "TooManyMethods"
)

// String implements fmt.Stringer.
func (f Flag) String() string { return string(f) }

// Limits carries the quality thresholds. Every comparison is strictly
// greater-than: a value equal to its limit does not flag.
type Limits struct {
	// CBOHighCoupling is the coupling limit for FlagHighCoupling.
	CBOHighCoupling int `koanf:"cbo_high_coupling" toml:"cbo_high_coupling" json:"cbo_high_coupling"`
	// LCOMLowCohesion is the cohesion limit for FlagLowCohesion.
	LCOMLowCohesion int `koanf:"lcom_low_cohesion" toml:"lcom_low_cohesion" json:"lcom_low_cohesion"`
	// MaxMethodCount is the method-count limit for FlagTooManyMethods.
	MaxMethodCount int `koanf:"max_method_count" toml:"max_method_count" json:"max_method_count"`
	// ComplexityCeiling drives the issue note in the per-method complexity
	// table. It never produces a class flag.
	ComplexityCeiling int `koanf:"complexity_ceiling" toml:"complexity_ceiling" json:"complexity_ceiling"`
}

// DefaultLimits returns the documented default thresholds.
func DefaultLimits() Limits {
	return Limits{
		CBOHighCoupling:   3,
		LCOMLowCohesion:   5,
		MaxMethodCount:    7,
		ComplexityCeiling: 10,
	}
}

// ComplexityExceeded reports whether a method's complexity is above the
// ceiling.
func (l Limits) ComplexityExceeded(cc int) bool {
	return cc > l.ComplexityCeiling
}

// Evaluate returns every flag the vector triggers, always in the order
// HighCoupling, LowCohesion, TooManyMethods. An empty result means the
// class is within all limits.
func Evaluate(v metrics.Vector, l Limits) []Flag {
	var flags []Flag
	if v.CBO > l.CBOHighCoupling {
		flags = append(flags, FlagHighCoupling)
	}
	if v.LCOM > l.LCOMLowCohesion {
		flags = append(flags, FlagLowCohesion)
	}
	if v.MethodCount > l.MaxMethodCount {
		flags = append(flags, FlagTooManyMethods)
	}
	return flags
}

// Join renders a flag set for display: comma-joined in evaluation order, or
// "OK" when no flag fired.
func Join(flags []Flag) string {
	if len(flags) == 0 {
		return "OK"
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
