package domain

// GoalCard translates one holding into a plain-language goal.
type GoalCard struct {
	Title              string  `json:"title"`
	HoldingDescription string  `json:"holding_description"`
	Purpose            string  `json:"purpose"`
	CurrentValue       float64 `json:"current_value"`
	Timeline           string  `json:"timeline"`
	NextSteps          string  `json:"next_steps"`
}

type GoalType string

const (
	GoalPayOffLoans     GoalType = "pay_off_loans"
	GoalHomeDownPayment GoalType = "home_down_payment"
	GoalRetirement      GoalType = "retirement"
	GoalEmergencyFund   GoalType = "emergency_fund"
	GoalEducation       GoalType = "education"
)

func (g GoalType) Valid() bool {
	switch g {
	case GoalPayOffLoans, GoalHomeDownPayment, GoalRetirement, GoalEmergencyFund, GoalEducation:
		return true
	default:
		return false
	}
}

// PlannedGoal is a goal card produced by the budget allocator or the fixed
// planning catalog. Amounts are nil on catalog cards.
type PlannedGoal struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Priority        string   `json:"priority"`
	PointsReward    int      `json:"points_reward"`
	EstimatedTime   string   `json:"estimated_time"`
	Status          string   `json:"status"`
	TargetAmount    *float64 `json:"target_amount,omitempty"`
	AllocatedAmount *float64 `json:"allocated_amount,omitempty"`
	CurrentProgress int      `json:"current_progress"`
	Steps           []string `json:"steps"`
}

// Allocated returns the allocated amount, zero for catalog cards.
func (g PlannedGoal) Allocated() float64 {
	if g.AllocatedAmount == nil {
		return 0
	}
	return *g.AllocatedAmount
}

type BudgetPlan struct {
	TotalAccountValue float64       `json:"total_account_value"`
	GoalCards         []PlannedGoal `json:"goal_cards"`
	BudgetUsed        float64       `json:"budget_used"`
	BudgetRemaining   float64       `json:"budget_remaining"`
}

type QuizAnswer struct {
	QuestionID int      `json:"question_id"`
	Selected   []string `json:"selected"`
}
