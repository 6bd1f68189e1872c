package goals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

func allocatedOf(plan domain.BudgetPlan) []float64 {
	out := make([]float64, 0, len(plan.GoalCards))
	for _, c := range plan.GoalCards {
		out = append(out, c.Allocated())
	}
	return out
}

func TestAllocateLoansThenHome(t *testing.T) {
	plan := Allocate(100000, []domain.GoalType{domain.GoalPayOffLoans, domain.GoalHomeDownPayment})

	require.Len(t, plan.GoalCards, 2)
	loans, home := plan.GoalCards[0], plan.GoalCards[1]

	assert.Equal(t, "goal_loan_payoff", loans.ID)
	assert.InDelta(t, 60000, loans.Allocated(), 0.001)
	assert.InDelta(t, 60000, *loans.TargetAmount, 0.001)
	assert.Equal(t, "Plan: We found $100,000.00. We can pay your loans and have $40,000.00 left over.", loans.Description)

	assert.Equal(t, "goal_home_down_payment", home.ID)
	assert.InDelta(t, 20000, home.Allocated(), 0.001)
	assert.Equal(t, "Plan: We found $100,000.00. We suggest allocating $20,000.00 (20%) for your home down payment fund.", home.Description)

	assert.InDelta(t, 80000, plan.BudgetUsed, 0.001)
	assert.InDelta(t, 20000, plan.BudgetRemaining, 0.001)
	assert.InDelta(t, 100000, plan.TotalAccountValue, 0.001)
}

func TestAllocateRetirementAlone(t *testing.T) {
	plan := Allocate(100000, []domain.GoalType{domain.GoalRetirement})

	require.Len(t, plan.GoalCards, 1)
	card := plan.GoalCards[0]
	assert.InDelta(t, 50000, card.Allocated(), 0.001)
	assert.InDelta(t, 100000, *card.TargetAmount, 0.001)
	assert.Equal(t, "Retirement Savings", card.Title)
	assert.Equal(t, "not_started", card.Status)
	assert.Equal(t, 150, card.PointsReward)
	assert.Len(t, card.Steps, 4)
}

func TestAllocateIsOrderSensitive(t *testing.T) {
	forward := Allocate(100000, []domain.GoalType{domain.GoalPayOffLoans, domain.GoalRetirement})
	reverse := Allocate(100000, []domain.GoalType{domain.GoalRetirement, domain.GoalPayOffLoans})

	assert.Equal(t, []float64{60000, 20000}, allocatedOf(forward))
	assert.Equal(t, []float64{50000, 50000}, allocatedOf(reverse))

	education := Allocate(100000, []domain.GoalType{domain.GoalEmergencyFund, domain.GoalEducation})
	assert.Equal(t, []float64{10000, 13500}, allocatedOf(education))
	assert.InDelta(t, 20250, *education.GoalCards[1].TargetAmount, 0.001)
}

func TestAllocateNeverExceedsRemaining(t *testing.T) {
	all := []domain.GoalType{
		domain.GoalPayOffLoans, domain.GoalHomeDownPayment, domain.GoalHomeDownPayment,
		domain.GoalEmergencyFund, domain.GoalRetirement, domain.GoalEducation,
	}
	plan := Allocate(50000, all)

	remaining := 50000.0
	for _, card := range plan.GoalCards {
		assert.LessOrEqual(t, card.Allocated(), remaining+0.0001, card.ID)
		remaining -= card.Allocated()
	}
	assert.GreaterOrEqual(t, plan.BudgetRemaining, -0.0001)
	assert.Equal(t, []float64{30000, 10000, 10000, 0, 0, 0}, allocatedOf(plan))
}

func TestAllocateSkipsUnknownGoals(t *testing.T) {
	plan := Allocate(1000, []domain.GoalType{"vacation", domain.GoalEmergencyFund})
	require.Len(t, plan.GoalCards, 1)
	assert.Equal(t, "goal_emergency_fund", plan.GoalCards[0].ID)
	assert.InDelta(t, 100, plan.BudgetUsed, 0.001)
}

func TestSelectGoals(t *testing.T) {
	tests := []struct {
		name    string
		answers []domain.QuizAnswer
		want    []domain.GoalType
	}{
		{name: "no answers", want: []domain.GoalType{domain.GoalEmergencyFund, domain.GoalRetirement}},
		{name: "grow wins over other picks", answers: []domain.QuizAnswer{{QuestionID: 1, Selected: []string{"c", "b"}}}, want: []domain.GoalType{domain.GoalRetirement}},
		{name: "immediate needs", answers: []domain.QuizAnswer{{QuestionID: 1, Selected: []string{"c"}}}, want: []domain.GoalType{domain.GoalPayOffLoans, domain.GoalEmergencyFund}},
		{name: "preserve plus documents", answers: []domain.QuizAnswer{
			{QuestionID: 1, Selected: []string{"a"}},
			{QuestionID: 4, Selected: []string{"e"}},
		}, want: []domain.GoalType{domain.GoalEmergencyFund, domain.GoalEmergencyFund}},
		{name: "unrelated questions", answers: []domain.QuizAnswer{{QuestionID: 2, Selected: []string{"b"}}}, want: []domain.GoalType{domain.GoalEmergencyFund, domain.GoalRetirement}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectGoals(tt.answers))
		})
	}
}

func TestPlanPrefersExplicitGoals(t *testing.T) {
	answers := []domain.QuizAnswer{{QuestionID: 1, Selected: []string{"b"}}}

	explicit := Plan(1000, []domain.GoalType{domain.GoalEducation}, answers)
	require.Len(t, explicit.GoalCards, 1)
	assert.Equal(t, "goal_education", explicit.GoalCards[0].ID)

	inferred := Plan(1000, nil, answers)
	require.Len(t, inferred.GoalCards, 1)
	assert.Equal(t, "goal_retirement", inferred.GoalCards[0].ID)
}

func TestPersonalizedCatalog(t *testing.T) {
	titles := func(cards []domain.PlannedGoal) []string {
		out := make([]string, 0, len(cards))
		for _, c := range cards {
			out = append(out, c.Title)
		}
		return out
	}

	conservative := PersonalizedCatalog("conservative")
	require.Len(t, conservative, 5)
	assert.Equal(t, "🛡️ Preserve Capital Strategy", conservative[2].Title)

	aggressive := PersonalizedCatalog("Aggressive")
	require.Len(t, aggressive, 5)
	assert.Equal(t, "📈 Growth Strategy Development", aggressive[2].Title)

	moderate := PersonalizedCatalog("moderate")
	assert.Equal(t, []string{
		"📁 Organize Important Documents",
		"💼 Meet with Financial Advisor",
		"💰 Tax Optimization Review",
		"📜 Update Estate Plan",
	}, titles(moderate))
	for _, c := range moderate {
		assert.Nil(t, c.AllocatedAmount)
		assert.Equal(t, "not_started", c.Status)
	}

	moderate[0].Steps[0] = "mutated"
	assert.NotEqual(t, "mutated", PersonalizedCatalog("moderate")[0].Steps[0])
}
