package domain

// File is an uploaded document held in memory.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// PortfolioSummary is the plain-language narrative of a portfolio together
// with its goal cards.
type PortfolioSummary struct {
	Summary         string         `json:"summary"`
	GoalCards       []GoalCard     `json:"goal_cards"`
	ConfidenceLevel ConfidenceTier `json:"confidence_level"`
	Review          ReviewMode     `json:"review"`
	TotalValue      float64        `json:"total_value"`
	Generated       bool           `json:"generated"`
}

// BudgetRequest asks the allocator to plan a budget. A nil total means the
// caller wants the value of the stored case.
type BudgetRequest struct {
	TotalAccountValue *float64     `json:"total_account_value,omitempty"`
	SelectedGoals     []GoalType   `json:"selected_goals,omitempty"`
	QuizAnswers       []QuizAnswer `json:"quiz_answers,omitempty"`
}

type QuizResult struct {
	SelectedGoals []GoalType    `json:"selected_goals"`
	Goals         []PlannedGoal `json:"goals"`
}

type Explanation struct {
	Concept     string `json:"concept"`
	Explanation string `json:"explanation"`
	Generated   bool   `json:"generated"`
}
