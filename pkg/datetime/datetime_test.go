package datetime

import (
	"testing"
	"time"
)

func TestMustParseTime(t *testing.T) {
	result := MustParseTime(DateLayout, "2025-01-15")
	if result.Format(DateLayout) != "2025-01-15" {
		t.Errorf("MustParseTime() = %s, expected 2025-01-15", result.Format(DateLayout))
	}
}

func TestMustParseTimePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseTime to panic with invalid date")
		}
	}()

	MustParseTime(DateLayout, "invalid-date")
}

func TestParseDateOr(t *testing.T) {
	fallback := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	got, err := ParseDateOr("  ", fallback)
	if err != nil {
		t.Fatalf("ParseDateOr(blank) error = %v", err)
	}
	if !got.Equal(fallback) {
		t.Errorf("ParseDateOr(blank) = %v, expected fallback %v", got, fallback)
	}

	got, err = ParseDateOr(" 2023-02-28 ", fallback)
	if err != nil {
		t.Fatalf("ParseDateOr() error = %v", err)
	}
	if got.Format(DateLayout) != "2023-02-28" {
		t.Errorf("ParseDateOr() = %s, expected 2023-02-28", got.Format(DateLayout))
	}

	if _, err := ParseDateOr("28/02/2023", fallback); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestProjectMonths(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		months   int
		expected string
	}{
		{"zero months", "2025-01-01", 0, "2025-01-01"},
		{"one month is thirty days", "2025-01-01", 1, "2025-01-31"},
		{"twelve months drift", "2025-01-01", 12, "2025-12-27"},
		{"twenty months", "2025-01-01", 20, "2026-08-24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectMonths(MustParseTime(DateLayout, tt.from), tt.months)
			if got.Format(DateLayout) != tt.expected {
				t.Errorf("ProjectMonths(%s, %d) = %s, expected %s", tt.from, tt.months, got.Format(DateLayout), tt.expected)
			}
		})
	}
}

func TestFormatMonthYear(t *testing.T) {
	got := FormatMonthYear(MustParseTime(DateLayout, "2026-08-24"))
	if got != "August 2026" {
		t.Errorf("FormatMonthYear() = %q, expected %q", got, "August 2026")
	}
}
