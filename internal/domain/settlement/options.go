// Package settlement computes the transfers that equalize a shared pool.
package settlement

import (
	"math"
	"strings"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTolerance sets the amount below which a balance counts as settled.
// Non-positive or non-finite values are ignored.
func WithTolerance(tolerance float64) Option {
	return func(e *Engine) {
		if tolerance > 0 && !math.IsInf(tolerance, 0) {
			e.tolerance = tolerance
		}
	}
}

// WithPrecision sets the number of decimal places settlement amounts are rounded to.
func WithPrecision(places int32) Option {
	return func(e *Engine) {
		if places >= 0 {
			e.precision = places
		}
	}
}

// WithUnknownLabel sets the name used for participants without one.
func WithUnknownLabel(label string) Option {
	return func(e *Engine) {
		if strings.TrimSpace(label) != "" {
			e.unknownLabel = label
		}
	}
}
