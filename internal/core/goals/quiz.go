package goals

import (
	"slices"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

const (
	questionPrimaryGoal = 1
	questionEstateTasks = 4
)

var defaultGoals = []domain.GoalType{domain.GoalEmergencyFund, domain.GoalRetirement}

// SelectGoals infers goal types from onboarding quiz answers. The primary
// goal question maps b to retirement, c to loans plus an emergency fund and
// a to an emergency fund; choosing e on the estate question adds an
// emergency fund. Without any match it returns emergency fund and retirement.
func SelectGoals(answers []domain.QuizAnswer) []domain.GoalType {
	var selected []domain.GoalType
	for _, answer := range answers {
		switch answer.QuestionID {
		case questionPrimaryGoal:
			switch {
			case slices.Contains(answer.Selected, "b"):
				selected = append(selected, domain.GoalRetirement)
			case slices.Contains(answer.Selected, "c"):
				selected = append(selected, domain.GoalPayOffLoans, domain.GoalEmergencyFund)
			case slices.Contains(answer.Selected, "a"):
				selected = append(selected, domain.GoalEmergencyFund)
			}
		case questionEstateTasks:
			if slices.Contains(answer.Selected, "e") {
				selected = append(selected, domain.GoalEmergencyFund)
			}
		}
	}
	if len(selected) == 0 {
		return slices.Clone(defaultGoals)
	}
	return selected
}

// Plan allocates total across explicitly selected goals, or across the goals
// inferred from the quiz when none were selected.
func Plan(total float64, selected []domain.GoalType, answers []domain.QuizAnswer) domain.BudgetPlan {
	if len(selected) == 0 {
		selected = SelectGoals(answers)
	}
	return Allocate(total, selected)
}
