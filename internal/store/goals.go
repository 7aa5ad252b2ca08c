package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/investment-tracker/internal/goals"
	"github.com/iwvelando/investment-tracker/pkg/constants"
)

const goalColumns = `id, name, goal_type, target_amount, current_savings, monthly_contribution, expected_return, target_date, created_at`

func scanGoal(row rowScanner) (goals.Goal, error) {
	var g goals.Goal
	var goalType, createdAt string
	var targetDate sql.NullString
	err := row.Scan(&g.ID, &g.Name, &goalType, &g.TargetAmount, &g.CurrentSavings,
		&g.MonthlyContribution, &g.ExpectedReturn, &targetDate, &createdAt)
	if err != nil {
		return goals.Goal{}, err
	}
	g.GoalType = goals.Type(goalType)
	if targetDate.Valid && targetDate.String != "" {
		d := parseDate(targetDate.String)
		g.TargetDate = &d
	}
	g.CreatedAt = parseTimestamp(createdAt)
	return g, nil
}

// ListGoals returns every saved goal in insertion order.
func (s *Store) ListGoals(ctx context.Context) ([]goals.Goal, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+goalColumns+" FROM goals ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list := []goals.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// GetGoal returns the goal with the given id.
func (s *Store) GetGoal(ctx context.Context, id int64) (goals.Goal, error) {
	g, err := scanGoal(s.db.QueryRowContext(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return goals.Goal{}, fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return goals.Goal{}, fmt.Errorf("reading goal %d: %w", id, err)
	}
	return g, nil
}

// CreateGoal validates and stores a new goal, returning it with its id.
func (s *Store) CreateGoal(ctx context.Context, g goals.Goal) (goals.Goal, error) {
	g.Name = strings.TrimSpace(g.Name)
	g.GoalType = goals.ParseType(string(g.GoalType))
	if err := goals.ValidateGoal(g); err != nil {
		return goals.Goal{}, err
	}

	var targetDate sql.NullString
	if g.TargetDate != nil && !g.TargetDate.IsZero() {
		targetDate = sql.NullString{String: g.TargetDate.Format(constants.DateLayout), Valid: true}
	}
	createdAt := s.timestamp()

	res, err := s.db.ExecContext(ctx, `INSERT INTO goals
		(name, goal_type, target_amount, current_savings, monthly_contribution, expected_return, target_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Name, string(g.GoalType), g.TargetAmount, g.CurrentSavings, g.MonthlyContribution, g.ExpectedReturn, targetDate, createdAt,
	)
	if err != nil {
		return goals.Goal{}, fmt.Errorf("inserting goal %q: %w", g.Name, err)
	}
	if g.ID, err = res.LastInsertId(); err != nil {
		return goals.Goal{}, err
	}
	g.CreatedAt = parseTimestamp(createdAt)
	return g, nil
}

// DeleteGoal removes a goal.
func (s *Store) DeleteGoal(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting goal %d: %w", id, err)
	}
	return checkAffected(res, "goal", id)
}
