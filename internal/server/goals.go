package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/iwvelando/investment-tracker/internal/goals"
	"github.com/iwvelando/investment-tracker/pkg/constants"
	"go.uber.org/zap"
)

// goalInput reads the projection parameters shared by calculate and create.
// target_amount is required; the rest default to 0, 0 and
// constants.DefaultExpectedReturn.
func goalInput(f fields) (goals.Input, error) {
	target, err := f.requiredNumber("target_amount")
	if err != nil {
		return goals.Input{}, err
	}
	current, err := f.number("current_savings", 0)
	if err != nil {
		return goals.Input{}, err
	}
	contribution, err := f.number("monthly_contribution", 0)
	if err != nil {
		return goals.Input{}, err
	}
	expected, err := f.number("expected_return", constants.DefaultExpectedReturn)
	if err != nil {
		return goals.Input{}, err
	}
	return goals.Input{
		TargetAmount:        target,
		CurrentSavings:      current,
		MonthlyContribution: contribution,
		ExpectedReturn:      expected,
		GoalType:            f.text("goal_type"),
	}, nil
}

func (h *handler) handleGoalCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGoalCalculate"

	f, err := readFields(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	in, err := goalInput(f)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	in.AsOf = h.now()

	h.writeJSON(w, http.StatusOK, goals.Project(h.logger, in))
}

func (h *handler) handleGoalList(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListGoals(r.Context())
	if err != nil {
		h.respondErr(w, err, "server.handleGoalList")
		return
	}
	h.writeJSON(w, http.StatusOK, goals.GroupByType(list, h.now()))
}

func (h *handler) handleGoalCreate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGoalCreate"

	f, err := readFields(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	in, err := goalInput(f)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if !f.has("goal_type") {
		h.respondErrorWithOp(w, http.StatusBadRequest, "goal_type is required", op)
		return
	}

	goal := goals.Goal{
		Name:                f.text("name"),
		GoalType:            goals.Type(in.GoalType),
		TargetAmount:        in.TargetAmount,
		CurrentSavings:      in.CurrentSavings,
		MonthlyContribution: in.MonthlyContribution,
		ExpectedReturn:      in.ExpectedReturn,
	}
	if f.has("target_date") {
		d, err := time.Parse(constants.DateLayout, f.text("target_date"))
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("target_date must be YYYY-MM-DD, got %q", f.text("target_date")), op)
			return
		}
		goal.TargetDate = &d
	}
	if err := goals.ValidateGoal(goal); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	created, err := h.store.CreateGoal(r.Context(), goal)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	h.logger.Info(fmt.Sprintf("goal %q created", created.Name),
		zap.String("op", op),
		zap.Int64("id", created.ID),
	)
	h.writeJSON(w, http.StatusCreated, goals.Projected{
		Goal:       created,
		Projection: goals.Project(h.logger, created.Input(h.now())),
	})
}

func (h *handler) handleGoalDelete(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGoalDelete"

	id, err := pathID(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := h.store.DeleteGoal(r.Context(), id); err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("goal %d deleted", id),
	})
}
