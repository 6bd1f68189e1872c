package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/goals"
	"github.com/heritagehub/heritage-hub/internal/core/ports"
)

type GoalPlannerUseCase struct {
	cases ports.CaseRepository
}

func NewGoalPlannerUseCase(cases ports.CaseRepository) *GoalPlannerUseCase {
	return &GoalPlannerUseCase{cases: cases}
}

// PlanForCase allocates a budget for the case. The request total wins over
// the stored portfolio value.
func (uc *GoalPlannerUseCase) PlanForCase(ctx context.Context, caseID string, req domain.BudgetRequest) (domain.BudgetPlan, error) {
	for _, g := range req.SelectedGoals {
		if !g.Valid() {
			return domain.BudgetPlan{}, domain.WrapError(domain.ErrInvalidInput, "plan goals", fmt.Errorf("unknown goal type %q", g))
		}
	}

	total, err := uc.budgetFor(ctx, caseID, req)
	if err != nil {
		return domain.BudgetPlan{}, err
	}
	return goals.Plan(total, req.SelectedGoals, req.QuizAnswers), nil
}

func (uc *GoalPlannerUseCase) budgetFor(ctx context.Context, caseID string, req domain.BudgetRequest) (float64, error) {
	if req.TotalAccountValue != nil {
		if *req.TotalAccountValue < 0 {
			return 0, domain.WrapError(domain.ErrInvalidInput, "plan goals", errors.New("total_account_value must not be negative"))
		}
		return *req.TotalAccountValue, nil
	}
	if uc.cases == nil {
		return 0, domain.WrapError(domain.ErrInvalidInput, "plan goals", errors.New("total_account_value is required"))
	}

	c, err := uc.cases.GetCase(ctx, caseID)
	if err != nil {
		if domain.IsKind(err, domain.ErrCaseNotFound) {
			return 0, domain.WrapError(domain.ErrInvalidInput, "plan goals", fmt.Errorf("no total_account_value and no stored case: %w", err))
		}
		return 0, fmt.Errorf("fetch case by id: %w", err)
	}
	return c.Portfolio.TotalValue, nil
}

func (uc *GoalPlannerUseCase) SubmitQuiz(_ context.Context, answers []domain.QuizAnswer, riskTolerance string) (domain.QuizResult, error) {
	return domain.QuizResult{
		SelectedGoals: goals.SelectGoals(answers),
		Goals:         goals.PersonalizedCatalog(riskTolerance),
	}, nil
}
