package goals

import (
	"errors"
	"strings"
	"time"

	"github.com/iwvelando/investment-tracker/pkg/mathutil"
)

// Goal is a saved savings target.
type Goal struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	GoalType            Type       `json:"goal_type"`
	TargetAmount        float64    `json:"target_amount"`
	CurrentSavings      float64    `json:"current_savings"`
	MonthlyContribution float64    `json:"monthly_contribution"`
	ExpectedReturn      float64    `json:"expected_return"`
	TargetDate          *time.Time `json:"target_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Input converts the goal into projection parameters anchored at asOf.
func (g Goal) Input(asOf time.Time) Input {
	return Input{
		TargetAmount:        g.TargetAmount,
		CurrentSavings:      g.CurrentSavings,
		MonthlyContribution: g.MonthlyContribution,
		ExpectedReturn:      g.ExpectedReturn,
		GoalType:            string(g.GoalType),
		AsOf:                asOf,
	}
}

// Validation errors returned by ValidateGoal.
var (
	ErrNameRequired  = errors.New("goal name is required")
	ErrInvalidTarget = errors.New("target amount must be greater than zero")
	ErrNegativeInput = errors.New("savings, contribution and return must be finite and not negative")
)

// ValidateGoal checks a goal before it is saved.
func ValidateGoal(g Goal) error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrNameRequired
	}
	return ValidateInput(g.Input(time.Time{}))
}

// ValidateInput checks the numeric parameters of a projection.
func ValidateInput(in Input) error {
	if !mathutil.IsFinite(in.TargetAmount) || in.TargetAmount <= 0 {
		return ErrInvalidTarget
	}
	for _, v := range []float64{in.CurrentSavings, in.MonthlyContribution, in.ExpectedReturn} {
		if !mathutil.IsFinite(v) || v < 0 {
			return ErrNegativeInput
		}
	}
	return nil
}

// Grouped holds saved goals with their projections, by horizon.
type Grouped struct {
	ShortTerm []Projected `json:"short_term"`
	MidTerm   []Projected `json:"mid_term"`
	LongTerm  []Projected `json:"long_term"`
}

// Projected pairs a saved goal with its projection.
type Projected struct {
	Goal       Goal   `json:"goal"`
	Projection Result `json:"projection"`
}

// GroupByType projects every goal at asOf and groups them by goal type.
// Unknown types are grouped with mid-term goals.
func GroupByType(list []Goal, asOf time.Time) Grouped {
	grouped := Grouped{
		ShortTerm: []Projected{},
		MidTerm:   []Projected{},
		LongTerm:  []Projected{},
	}
	for _, g := range list {
		p := Projected{Goal: g, Projection: Project(nil, g.Input(asOf))}
		switch ParseType(string(g.GoalType)) {
		case TypeShort:
			grouped.ShortTerm = append(grouped.ShortTerm, p)
		case TypeLong:
			grouped.LongTerm = append(grouped.LongTerm, p)
		default:
			grouped.MidTerm = append(grouped.MidTerm, p)
		}
	}
	return grouped
}
