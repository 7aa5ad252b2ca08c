// Package goals projects how long it takes to reach a savings target with a
// fixed monthly contribution and a constant expected return, and produces the
// month-by-month trajectory used for charting.
package goals

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/investment-tracker/pkg/constants"
	"github.com/iwvelando/investment-tracker/pkg/datetime"
	"github.com/iwvelando/investment-tracker/pkg/mathutil"
	"go.uber.org/zap"
)

// Unreachable is the month count reported when a goal cannot be met within
// constants.MaxProjectionMonths.
const Unreachable = -1

// ErrUnreachable is returned by Result.Err for goals that cannot be met.
var ErrUnreachable = errors.New("goal cannot be reached within the projection horizon")

// Status classifies a projection against the goal type's typical horizon.
type Status string

// Projection statuses.
const (
	StatusOnTrack       Status = "on_track"
	StatusBehind        Status = "behind"
	StatusNotAchievable Status = "not_achievable"
)

// Status messages shown next to a projection.
const (
	MessageReached       = "You have already reached your goal!"
	MessageOnTrack       = "You are on track to meet your goal!"
	MessageBehind        = "Consider increasing monthly contribution to reach goal faster."
	MessageNotAchievable = "Goal may not be achievable with current parameters."
)

// Input holds the parameters of a single projection. ExpectedReturn is an
// annual percentage, so 8 means 8%. AsOf anchors the projected target date;
// the zero value means now.
type Input struct {
	TargetAmount        float64   `json:"target_amount" yaml:"target_amount"`
	CurrentSavings      float64   `json:"current_savings" yaml:"current_savings"`
	MonthlyContribution float64   `json:"monthly_contribution" yaml:"monthly_contribution"`
	ExpectedReturn      float64   `json:"expected_return" yaml:"expected_return"`
	GoalType            string    `json:"goal_type" yaml:"goal_type"`
	AsOf                time.Time `json:"-" yaml:"-"`
}

// Point is one month of the projected trajectory. Contributions includes the
// starting principal; Interest is the growth on top of it.
type Point struct {
	Month         int     `json:"month"`
	Amount        float64 `json:"amount"`
	Contributions float64 `json:"contributions"`
	Interest      float64 `json:"interest"`
}

// Result is the outcome of a projection.
type Result struct {
	// Months is the whole number of months until the balance first reaches the
	// target, 0 when it already has, or Unreachable.
	Months               int
	Years                float64
	TargetDate           time.Time
	Trajectory           []Point
	FinalAmount          float64
	TotalContributions   float64
	InterestEarned       float64
	Status               Status
	StatusMessage        string
	RequiredContribution float64
	Profile              Profile
}

// Reachable reports whether the goal is met within the projection horizon.
func (r Result) Reachable() bool {
	return r.Months != Unreachable
}

// Err returns ErrUnreachable for unreachable goals and nil otherwise.
func (r Result) Err() error {
	if r.Reachable() {
		return nil
	}
	return ErrUnreachable
}

type resultJSON struct {
	MonthsNeeded         *int     `json:"months_needed"`
	YearsNeeded          *float64 `json:"years_needed"`
	TargetDate           *string  `json:"target_date"`
	Projection           []Point  `json:"projection"`
	FinalAmount          float64  `json:"final_amount"`
	TotalContributions   float64  `json:"total_contributions"`
	InterestEarned       float64  `json:"interest_earned"`
	Status               Status   `json:"status"`
	StatusMessage        string   `json:"status_message"`
	RequiredContribution float64  `json:"required_contribution"`
	GoalTypeInfo         Profile  `json:"goal_type_info"`
}

// MarshalJSON encodes the result for API consumers. Month and year fields
// are null only for unreachable goals; a goal already met reports zero.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Projection:           r.Trajectory,
		FinalAmount:          r.FinalAmount,
		TotalContributions:   r.TotalContributions,
		InterestEarned:       r.InterestEarned,
		Status:               r.Status,
		StatusMessage:        r.StatusMessage,
		RequiredContribution: r.RequiredContribution,
		GoalTypeInfo:         r.Profile,
	}
	if r.Months == 0 {
		months, years := 0, 0.0
		out.MonthsNeeded = &months
		out.YearsNeeded = &years
	}
	if r.Months > 0 {
		months := r.Months
		years := r.Years
		date := datetime.FormatMonthYear(r.TargetDate)
		out.MonthsNeeded = &months
		out.YearsNeeded = &years
		out.TargetDate = &date
	}
	return json.Marshal(out)
}

// Project runs the full goal projection for the given input.
func Project(logger *zap.Logger, in Input) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	profile := LookupProfile(in.GoalType)
	rate := mathutil.MonthlyRate(in.ExpectedReturn)
	months := MonthsToGoal(in.TargetAmount, in.CurrentSavings, in.MonthlyContribution, rate)

	horizon := constants.DefaultChartMonths
	if months > 0 {
		horizon = min(months, constants.MaxChartMonths)
	}
	trajectory := Trajectory(in.CurrentSavings, in.MonthlyContribution, rate, horizon)
	last := trajectory[len(trajectory)-1]

	result := Result{
		Months:         months,
		Trajectory:     trajectory,
		FinalAmount:    last.Amount,
		InterestEarned: last.Interest,
		Profile:        profile,
	}

	if months > 0 {
		asOf := in.AsOf
		if asOf.IsZero() {
			asOf = time.Now()
		}
		result.Years = mathutil.RoundTo(float64(months)/constants.MonthsPerYear, 1)
		result.TargetDate = datetime.ProjectMonths(asOf, months)
		result.TotalContributions = mathutil.Round(in.MonthlyContribution * float64(months))
	}

	result.Status, result.StatusMessage = classify(months, profile.TypicalMonths)

	required := in.MonthlyContribution
	// Unreachable goals also report what reaches the target within the typical horizon.
	if months == Unreachable || months > profile.TypicalMonths {
		required = RequiredContribution(in.TargetAmount, in.CurrentSavings, rate, profile.TypicalMonths)
	}
	if !mathutil.IsFinite(required) {
		required = 0
	}
	result.RequiredContribution = mathutil.Round(required)

	logger.Debug(fmt.Sprintf("projected %s goal of %.2f: months=%d status=%s", profile.Type, in.TargetAmount, months, result.Status),
		zap.String("op", "goals.Project"),
	)

	return result
}

// MonthsToGoal returns the smallest whole number of months after which the
// balance reaches target, compounding monthly at monthlyRate and adding
// contribution at the end of each month. It returns 0 when current already
// meets target and Unreachable when the target is not met within
// constants.MaxProjectionMonths.
func MonthsToGoal(target, current, contribution, monthlyRate float64) int {
	if current >= target {
		return 0
	}

	if contribution <= 0 {
		if monthlyRate > 0 && current > 0 {
			return capMonths(math.Ceil(math.Log(target/current) / math.Log(1+monthlyRate)))
		}
		return Unreachable
	}

	if monthlyRate == 0 {
		return capMonths(math.Ceil((target - current) / contribution))
	}

	balance := current
	months := 0
	for balance < target && months < constants.MaxProjectionMonths {
		balance = balance*(1+monthlyRate) + contribution
		months++
	}
	if balance >= target {
		return months
	}
	return Unreachable
}

func capMonths(m float64) int {
	if !mathutil.IsFinite(m) || m < 0 || m > constants.MaxProjectionMonths {
		return Unreachable
	}
	return int(m)
}

// Trajectory simulates months+1 points starting at month 0 with the current
// balance. Values are rounded to cents after the unrounded balance is updated.
func Trajectory(current, contribution, monthlyRate float64, months int) []Point {
	if months < 0 {
		months = 0
	}
	points := make([]Point, 0, months+1)
	balance := current
	for m := 0; m <= months; m++ {
		contributed := current + contribution*float64(m)
		points = append(points, Point{
			Month:         m,
			Amount:        mathutil.Round(balance),
			Contributions: mathutil.Round(contributed),
			Interest:      mathutil.Round(balance - contributed),
		})
		balance = balance*(1+monthlyRate) + contribution
	}
	return points
}

// RequiredContribution back-solves the monthly contribution that reaches
// target in exactly months months. The result is never negative.
func RequiredContribution(target, current, monthlyRate float64, months int) float64 {
	if months <= 0 {
		return math.Inf(1)
	}
	n := float64(months)
	if monthlyRate == 0 {
		return math.Max((target-current)/n, 0)
	}
	growth := math.Pow(1+monthlyRate, n)
	needed := target - current*growth
	if needed <= 0 {
		return 0
	}
	return math.Max(needed*monthlyRate/(growth-1), 0)
}

func classify(months, typicalMonths int) (Status, string) {
	switch {
	case months == 0:
		return StatusOnTrack, MessageReached
	case months > 0 && float64(months) <= float64(typicalMonths)*constants.OnTrackTolerance:
		return StatusOnTrack, MessageOnTrack
	case months > 0:
		return StatusBehind, MessageBehind
	default:
		return StatusNotAchievable, MessageNotAchievable
	}
}
