package money

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		places   int32
		expected float64
	}{
		{"Round up at midpoint", 1.235, 2, 1.24},
		{"Round down below midpoint", 1.234, 2, 1.23},
		{"No rounding needed", 1.23, 2, 1.23},
		{"Large number", 12345.678, 2, 12345.68},
		{"Negative number round away from zero", -1.235, 2, -1.24},
		{"Zero", 0.0, 2, 0.0},
		{"Very small positive", 0.001, 2, 0.0},
		{"Exactly one cent", 0.01, 2, 0.01},
		{"Nearly two cents", 0.019, 2, 0.02},
		{"Whole units", 12.5, 0, 13},
		{"Repeating fraction", 100.0 / 3.0, 2, 33.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input, tt.places)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Round(%v, %d) = %v, expected %v", tt.input, tt.places, result, tt.expected)
			}
		})
	}
}

func TestRoundNonFinite(t *testing.T) {
	if !math.IsNaN(Round(math.NaN(), 2)) {
		t.Error("Round(NaN) should stay NaN")
	}
	if !math.IsInf(Round(math.Inf(1), 2), 1) {
		t.Error("Round(+Inf) should stay +Inf")
	}
}

func TestCents(t *testing.T) {
	if got := Cents(39.999999); got != 40 {
		t.Errorf("Cents(39.999999) = %v, expected 40", got)
	}
}

func TestIsSettled(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Zero", 0, true},
		{"Below tolerance", 0.0099, true},
		{"Negative below tolerance", -0.0066, true},
		{"Exactly tolerance", 0.01, false},
		{"Above tolerance", 0.5, false},
		{"Negative above tolerance", -10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSettled(tt.input, DefaultTolerance); got != tt.expected {
				t.Errorf("IsSettled(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(1.0, 1.005, DefaultTolerance) {
		t.Error("1.0 and 1.005 should be within a cent")
	}
	if WithinTolerance(1.0, 1.02, DefaultTolerance) {
		t.Error("1.0 and 1.02 should not be within a cent")
	}
}

func TestSum(t *testing.T) {
	values := make([]float64, 0, 10)
	for i := 0; i < 10; i++ {
		values = append(values, 0.1)
	}
	if got := Sum(values); got != 1.0 {
		t.Errorf("Sum(10 x 0.1) = %v, expected 1.0", got)
	}
	if got := Sum(nil); got != 0 {
		t.Errorf("Sum(nil) = %v, expected 0", got)
	}
	if got := Sum([]float64{1, math.NaN()}); !math.IsNaN(got) {
		t.Errorf("Sum with NaN = %v, expected NaN", got)
	}
}
