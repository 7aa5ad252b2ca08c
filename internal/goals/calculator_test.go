package goals

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/iwvelando/investment-tracker/pkg/constants"
	"github.com/iwvelando/investment-tracker/pkg/datetime"
	"github.com/iwvelando/investment-tracker/pkg/mathutil"
	"go.uber.org/zap"
)

var asOf = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestProjectScenarios(t *testing.T) {
	tests := []struct {
		name          string
		input         Input
		months        int
		status        Status
		message       string
		points        int
		finalAmount   float64
		interest      float64
		contributions float64
		required      float64
		targetDate    string
		years         float64
	}{
		{
			name:          "zero rate closed form",
			input:         Input{TargetAmount: 100000, CurrentSavings: 0, MonthlyContribution: 5000, ExpectedReturn: 0, GoalType: "mid"},
			months:        20,
			status:        StatusOnTrack,
			message:       MessageOnTrack,
			points:        21,
			finalAmount:   100000,
			interest:      0,
			contributions: 100000,
			required:      5000,
			targetDate:    "August 2026",
			years:         1.7,
		},
		{
			name:          "compounding long-term goal",
			input:         Input{TargetAmount: 1000000, CurrentSavings: 100000, MonthlyContribution: 10000, ExpectedReturn: 8, GoalType: "long"},
			months:        68,
			status:        StatusOnTrack,
			message:       MessageOnTrack,
			points:        69,
			finalAmount:   1013892.97,
			interest:      233892.97,
			contributions: 680000,
			required:      10000,
			targetDate:    "August 2030",
			years:         5.7,
		},
		{
			name:          "growth only without contributions",
			input:         Input{TargetAmount: 100, CurrentSavings: 50, MonthlyContribution: 0, ExpectedReturn: 12, GoalType: "short"},
			months:        70,
			status:        StatusBehind,
			message:       MessageBehind,
			points:        71,
			finalAmount:   100.34,
			interest:      50.34,
			contributions: 0,
			required:      3.44,
			targetDate:    "October 2030",
			years:         5.8,
		},
		{
			name:          "behind typical horizon",
			input:         Input{TargetAmount: 50000, CurrentSavings: 0, MonthlyContribution: 1000, ExpectedReturn: 6, GoalType: "mid"},
			months:        45,
			status:        StatusBehind,
			message:       MessageBehind,
			points:        46,
			contributions: 45000,
			required:      1271.1,
			targetDate:    "September 2028",
			years:         3.8,
		},
		{
			name:        "no contribution and no growth",
			input:       Input{TargetAmount: 1000, CurrentSavings: 100, MonthlyContribution: 0, ExpectedReturn: 0, GoalType: "mid"},
			months:      Unreachable,
			status:      StatusNotAchievable,
			message:     MessageNotAchievable,
			points:      constants.DefaultChartMonths + 1,
			finalAmount: 100,
			interest:    0,
			required:    25,
		},
		{
			name:        "already reached",
			input:       Input{TargetAmount: 1000, CurrentSavings: 1500, MonthlyContribution: 100, ExpectedReturn: 0, GoalType: "short"},
			months:      0,
			status:      StatusOnTrack,
			message:     MessageReached,
			points:      constants.DefaultChartMonths + 1,
			finalAmount: 7500,
			interest:    0,
			required:    100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			in.AsOf = asOf
			result := Project(zap.NewNop(), in)

			if result.Months != tt.months {
				t.Fatalf("Months = %d, want %d", result.Months, tt.months)
			}
			if result.Status != tt.status {
				t.Errorf("Status = %s, want %s", result.Status, tt.status)
			}
			if result.StatusMessage != tt.message {
				t.Errorf("StatusMessage = %q, want %q", result.StatusMessage, tt.message)
			}
			if len(result.Trajectory) != tt.points {
				t.Errorf("len(Trajectory) = %d, want %d", len(result.Trajectory), tt.points)
			}
			if tt.finalAmount != 0 && !mathutil.WithinTolerance(result.FinalAmount, tt.finalAmount, 0.011) {
				t.Errorf("FinalAmount = %.2f, want %.2f", result.FinalAmount, tt.finalAmount)
			}
			if tt.finalAmount != 0 && !mathutil.WithinTolerance(result.InterestEarned, tt.interest, 0.011) {
				t.Errorf("InterestEarned = %.2f, want %.2f", result.InterestEarned, tt.interest)
			}
			if !mathutil.WithinTolerance(result.TotalContributions, tt.contributions, 0.001) {
				t.Errorf("TotalContributions = %.2f, want %.2f", result.TotalContributions, tt.contributions)
			}
			if !mathutil.WithinTolerance(result.RequiredContribution, tt.required, 0.001) {
				t.Errorf("RequiredContribution = %.2f, want %.2f", result.RequiredContribution, tt.required)
			}
			if tt.targetDate != "" {
				if got := datetime.FormatMonthYear(result.TargetDate); got != tt.targetDate {
					t.Errorf("TargetDate = %s, want %s", got, tt.targetDate)
				}
				if result.Years != tt.years {
					t.Errorf("Years = %v, want %v", result.Years, tt.years)
				}
			} else if !result.TargetDate.IsZero() {
				t.Errorf("TargetDate = %v, want zero", result.TargetDate)
			}
		})
	}
}

func TestMonthsToGoal(t *testing.T) {
	tests := []struct {
		name         string
		target       float64
		current      float64
		contribution float64
		annual       float64
		expected     int
	}{
		{name: "already at target", target: 1000, current: 1000, contribution: 0, annual: 0, expected: 0},
		{name: "zero target", target: 0, current: 0, contribution: 0, annual: 8, expected: 0},
		{name: "negative target", target: -5, current: 0, contribution: 10, annual: 8, expected: 0},
		{name: "zero rate rounds up", target: 1000, current: 150, contribution: 100, annual: 0, expected: 9},
		{name: "growth from nothing", target: 1000, current: 0, contribution: 0, annual: 10, expected: Unreachable},
		{name: "negative savings without contribution", target: 100, current: -50, contribution: 0, annual: 12, expected: Unreachable},
		{name: "log formula", target: 100, current: 50, contribution: 0, annual: 12, expected: 70},
		{name: "beyond horizon", target: 1e9, current: 0, contribution: 100, annual: 1, expected: Unreachable},
		{name: "zero rate beyond horizon", target: 1e6, current: 0, contribution: 1, annual: 0, expected: Unreachable},
		{name: "NaN target", target: math.NaN(), current: 0, contribution: 100, annual: 5, expected: Unreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthsToGoal(tt.target, tt.current, tt.contribution, mathutil.MonthlyRate(tt.annual))
			if got != tt.expected {
				t.Errorf("MonthsToGoal() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestMonthsToGoalIsFirstCrossing(t *testing.T) {
	rate := mathutil.MonthlyRate(7)
	target, current, contribution := 250000.0, 12000.0, 1800.0

	months := MonthsToGoal(target, current, contribution, rate)
	if months <= 0 {
		t.Fatalf("expected a positive month count, got %d", months)
	}

	balance := current
	for m := 1; m <= months; m++ {
		balance = balance*(1+rate) + contribution
		if m < months && balance >= target {
			t.Fatalf("balance reached target at month %d before reported %d", m, months)
		}
	}
	if balance < target {
		t.Fatalf("balance %.2f below target after %d months", balance, months)
	}
}

func TestTrajectoryInvariants(t *testing.T) {
	result := Project(zap.NewNop(), Input{
		TargetAmount:        1000000,
		CurrentSavings:      100000,
		MonthlyContribution: 10000,
		ExpectedReturn:      8,
		GoalType:            "long",
		AsOf:                asOf,
	})

	if len(result.Trajectory) > constants.MaxChartMonths+1 {
		t.Fatalf("trajectory has %d points, limit is %d", len(result.Trajectory), constants.MaxChartMonths+1)
	}
	if result.Trajectory[0].Amount != 100000 {
		t.Errorf("first point amount = %.2f, want 100000", result.Trajectory[0].Amount)
	}
	if result.Trajectory[0].Interest != 0 {
		t.Errorf("first point interest = %.2f, want 0", result.Trajectory[0].Interest)
	}
	if result.Trajectory[0].Contributions != 100000 {
		t.Errorf("first point contributions = %.2f, want 100000", result.Trajectory[0].Contributions)
	}

	for i, p := range result.Trajectory {
		if p.Month != i {
			t.Fatalf("point %d has month %d", i, p.Month)
		}
		if !mathutil.WithinTolerance(p.Contributions+p.Interest, p.Amount, 0.011) {
			t.Errorf("month %d: contributions %.2f + interest %.2f != amount %.2f", i, p.Contributions, p.Interest, p.Amount)
		}
		if i > 0 && p.Amount < result.Trajectory[i-1].Amount {
			t.Errorf("month %d: amount decreased from %.2f to %.2f", i, result.Trajectory[i-1].Amount, p.Amount)
		}
	}
}

func TestTrajectoryCappedForLongGoals(t *testing.T) {
	result := Project(zap.NewNop(), Input{
		TargetAmount:        1000000,
		CurrentSavings:      0,
		MonthlyContribution: 1000,
		ExpectedReturn:      10,
		GoalType:            "long",
		AsOf:                asOf,
	})

	if result.Months != 270 {
		t.Fatalf("Months = %d, want 270", result.Months)
	}
	if len(result.Trajectory) != constants.MaxChartMonths+1 {
		t.Errorf("len(Trajectory) = %d, want %d", len(result.Trajectory), constants.MaxChartMonths+1)
	}
	if result.Status != StatusBehind {
		t.Errorf("Status = %s, want %s", result.Status, StatusBehind)
	}
	if !mathutil.WithinTolerance(result.RequiredContribution, 4881.74, 0.011) {
		t.Errorf("RequiredContribution = %.2f, want 4881.74", result.RequiredContribution)
	}
	if !mathutil.WithinTolerance(result.FinalAmount, 204844.98, 0.011) {
		t.Errorf("FinalAmount = %.2f, want 204844.98", result.FinalAmount)
	}
}

func TestProjectUnreachableBeyondHorizon(t *testing.T) {
	result := Project(zap.NewNop(), Input{
		TargetAmount:        1e9,
		CurrentSavings:      0,
		MonthlyContribution: 100,
		ExpectedReturn:      1,
		GoalType:            "long",
		AsOf:                asOf,
	})

	if result.Reachable() {
		t.Fatalf("expected unreachable goal, got %d months", result.Months)
	}
	if !errors.Is(result.Err(), ErrUnreachable) {
		t.Errorf("Err() = %v, want ErrUnreachable", result.Err())
	}
	if result.Status != StatusNotAchievable {
		t.Errorf("Status = %s, want %s", result.Status, StatusNotAchievable)
	}
	if !mathutil.WithinTolerance(result.RequiredContribution, 7927078.8, 0.011) {
		t.Errorf("RequiredContribution = %.2f, want 7927078.80", result.RequiredContribution)
	}
	if result.TotalContributions != 0 {
		t.Errorf("TotalContributions = %.2f, want 0", result.TotalContributions)
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	in := Input{
		TargetAmount:        500000,
		CurrentSavings:      25000,
		MonthlyContribution: 4000,
		ExpectedReturn:      9.5,
		GoalType:            "long",
		AsOf:                asOf,
	}
	first := Project(nil, in)
	second := Project(nil, in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated projections differ:\n%+v\n%+v", first, second)
	}
}

func TestProjectUnknownGoalTypeUsesMid(t *testing.T) {
	result := Project(zap.NewNop(), Input{
		TargetAmount:        1000,
		MonthlyContribution: 100,
		GoalType:            "vacation",
		AsOf:                asOf,
	})
	if result.Profile.Type != TypeMid {
		t.Errorf("Profile.Type = %s, want %s", result.Profile.Type, TypeMid)
	}
	if result.Profile.TypicalMonths != 36 {
		t.Errorf("TypicalMonths = %d, want 36", result.Profile.TypicalMonths)
	}
}

func TestRequiredContribution(t *testing.T) {
	rate := mathutil.MonthlyRate(12)

	tests := []struct {
		name     string
		target   float64
		current  float64
		rate     float64
		months   int
		expected float64
	}{
		{name: "zero rate", target: 1000, current: 100, rate: 0, months: 36, expected: 25},
		{name: "zero rate overfunded", target: 1000, current: 2000, rate: 0, months: 12, expected: 0},
		{name: "growth covers target", target: 100, current: 99, rate: rate, months: 12, expected: 0},
		{name: "annuity", target: 100, current: 50, rate: rate, months: 12, expected: 3.44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mathutil.Round(RequiredContribution(tt.target, tt.current, tt.rate, tt.months))
			if got != tt.expected {
				t.Errorf("RequiredContribution() = %.2f, want %.2f", got, tt.expected)
			}
		})
	}

	if !math.IsInf(RequiredContribution(100, 0, rate, 0), 1) {
		t.Error("expected +Inf for a zero-month horizon")
	}
}

func TestResultMarshalJSON(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		result := Project(zap.NewNop(), Input{TargetAmount: 100000, MonthlyContribution: 5000, GoalType: "mid", AsOf: asOf})
		data, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}

		var decoded map[string]interface{}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if decoded["months_needed"] != float64(20) {
			t.Errorf("months_needed = %v, want 20", decoded["months_needed"])
		}
		if decoded["target_date"] != "August 2026" {
			t.Errorf("target_date = %v, want August 2026", decoded["target_date"])
		}
		info, ok := decoded["goal_type_info"].(map[string]interface{})
		if !ok {
			t.Fatalf("goal_type_info missing: %s", data)
		}
		if info["name"] != "Mid-term Goal" || info["risk_level"] != "Moderate" {
			t.Errorf("unexpected goal_type_info: %v", info)
		}
		projection, ok := decoded["projection"].([]interface{})
		if !ok || len(projection) != 21 {
			t.Fatalf("projection has unexpected shape: %v", decoded["projection"])
		}
		first := projection[0].(map[string]interface{})
		for _, key := range []string{"month", "amount", "contributions", "interest"} {
			if _, ok := first[key]; !ok {
				t.Errorf("projection point missing %q", key)
			}
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		result := Project(zap.NewNop(), Input{TargetAmount: 1000, CurrentSavings: 100, GoalType: "mid", AsOf: asOf})
		data, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}

		var decoded map[string]interface{}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		for _, key := range []string{"months_needed", "years_needed", "target_date"} {
			value, ok := decoded[key]
			if !ok {
				t.Errorf("%s missing from output", key)
			}
			if value != nil {
				t.Errorf("%s = %v, want null", key, value)
			}
		}
		if decoded["status"] != string(StatusNotAchievable) {
			t.Errorf("status = %v, want %s", decoded["status"], StatusNotAchievable)
		}
	})

	t.Run("already reached", func(t *testing.T) {
		result := Project(zap.NewNop(), Input{TargetAmount: 1000, CurrentSavings: 5000, GoalType: "short", AsOf: asOf})
		data, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}

		var decoded map[string]interface{}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if decoded["months_needed"] != float64(0) {
			t.Errorf("months_needed = %v, want 0", decoded["months_needed"])
		}
		if decoded["years_needed"] != float64(0) {
			t.Errorf("years_needed = %v, want 0", decoded["years_needed"])
		}
		if decoded["target_date"] != nil {
			t.Errorf("target_date = %v, want null", decoded["target_date"])
		}
		if decoded["status"] != string(StatusOnTrack) {
			t.Errorf("status = %v, want %s", decoded["status"], StatusOnTrack)
		}
		if decoded["status_message"] != MessageReached {
			t.Errorf("status_message = %v, want %q", decoded["status_message"], MessageReached)
		}
	})
}

func TestLookupProfile(t *testing.T) {
	tests := []struct {
		input    string
		expected Type
		months   int
		rate     float64
	}{
		{input: "short", expected: TypeShort, months: 12, rate: 4},
		{input: " LONG ", expected: TypeLong, months: 120, rate: 10},
		{input: "mid", expected: TypeMid, months: 36, rate: 6},
		{input: "", expected: TypeMid, months: 36, rate: 6},
		{input: "retirement", expected: TypeMid, months: 36, rate: 6},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := LookupProfile(tt.input)
			if p.Type != tt.expected || p.TypicalMonths != tt.months || p.RecommendedReturn != tt.rate {
				t.Errorf("LookupProfile(%q) = %+v", tt.input, p)
			}
			if len(p.SuggestedInvestments) != 3 {
				t.Errorf("expected 3 suggested investments, got %d", len(p.SuggestedInvestments))
			}
		})
	}

	p := LookupProfile("short")
	p.SuggestedInvestments[0] = "changed"
	if LookupProfile("short").SuggestedInvestments[0] != "High-yield savings account" {
		t.Error("LookupProfile returned a shared slice")
	}

	if got := Profiles(); len(got) != 3 || got[0].Type != TypeShort || got[2].Type != TypeLong {
		t.Errorf("Profiles() = %+v", got)
	}
}
