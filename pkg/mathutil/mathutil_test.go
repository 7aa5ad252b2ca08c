package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Very small negative", -0.001, 0.00},
		{"Nearly two cents", 0.019, 0.02},
		{"Large negative", -12345.678, -12345.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		places   int
		expected float64
	}{
		{"one place", 1.666, 1, 1.7},
		{"zero places", 2.5, 0, 3},
		{"years from months", 20.0 / 12.0, 1, 1.7},
		{"three places", 0.12345, 3, 0.123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundTo(tt.input, tt.places)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("RoundTo(%v, %d) = %v, expected %v", tt.input, tt.places, result, tt.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(42) {
		t.Error("expected 42 to be finite")
	}
	if IsFinite(math.Inf(1)) {
		t.Error("expected +Inf to be non-finite")
	}
	if IsFinite(math.NaN()) {
		t.Error("expected NaN to be non-finite")
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		val1      float64
		val2      float64
		tolerance float64
		expected  bool
	}{
		{"Equal values", 100.0, 100.0, 0.01, true},
		{"Within a cent", 100.0, 100.005, 0.01, true},
		{"On the boundary", 100.0, 100.5, 0.5, true},
		{"Outside tolerance", 100.0, 100.02, 0.01, false},
		{"Order does not matter", 100.02, 100.0, 0.01, false},
		{"Negative values", -50.0, -50.004, 0.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinTolerance(tt.val1, tt.val2, tt.tolerance)
			if result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v",
					tt.val1, tt.val2, tt.tolerance, result, tt.expected)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"50% of 100", 50.0, 100.0, 50.0},
		{"25% of 200", 50.0, 200.0, 25.0},
		{"More than 100%", 150.0, 100.0, 150.0},
		{"Zero total", 50.0, 0.0, 0.0},
		{"Negative value", -50.0, 100.0, -50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePercentage(tt.value, tt.total)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v",
					tt.value, tt.total, result, tt.expected)
			}
		})
	}
}

func TestMonthlyRate(t *testing.T) {
	tests := []struct {
		annual   float64
		expected float64
	}{
		{12, 0.01},
		{6, 0.005},
		{0, 0},
		{-6, -0.005},
	}

	for _, tt := range tests {
		if got := MonthlyRate(tt.annual); math.Abs(got-tt.expected) > 1e-15 {
			t.Errorf("MonthlyRate(%v) = %v, expected %v", tt.annual, got, tt.expected)
		}
	}
}
