package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/money"
)

func goalsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Plan budgets and personalize goals",
	}
	cmd.AddCommand(goalsPlanCmd(st))
	cmd.AddCommand(goalsQuizCmd(st))
	return cmd
}

func goalsPlanCmd(st *state) *cobra.Command {
	var (
		budget   float64
		selected []string
		quiz     []string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Allocate an account value across goals",
		Long: `Allocates the budget across the selected goals in the order given. Without
--goal the goals are chosen from the quiz answers.

  heritagectl goals plan --budget 250000 --goal emergency_fund --goal retirement
  heritagectl goals plan --budget 80000 --quiz 1:c --quiz 4:e`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			answers, err := parseQuizAnswers(quiz)
			if err != nil {
				return err
			}
			req := domain.BudgetRequest{
				TotalAccountValue: &budget,
				QuizAnswers:       answers,
			}
			for _, g := range selected {
				req.SelectedGoals = append(req.SelectedGoals, domain.GoalType(strings.TrimSpace(g)))
			}

			plan, err := st.toolkit.Goals.PlanForCase(cmd.Context(), "", req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if st.jsonOut {
				return writeJSON(out, plan)
			}
			renderPlan(out, plan)
			return nil
		},
	}

	cmd.Flags().Float64Var(&budget, "budget", 0, "total account value to allocate")
	cmd.Flags().StringArrayVar(&selected, "goal", nil, "goal type, repeatable (pay_off_loans, home_down_payment, retirement, emergency_fund, education)")
	cmd.Flags().StringArrayVar(&quiz, "quiz", nil, "quiz answer as QUESTION:CHOICE[,CHOICE], repeatable")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}

func goalsQuizCmd(st *state) *cobra.Command {
	var (
		quiz []string
		risk string
	)

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Select goals from quiz answers and list the personalized catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			answers, err := parseQuizAnswers(quiz)
			if err != nil {
				return err
			}
			result, err := st.toolkit.Goals.SubmitQuiz(cmd.Context(), answers, risk)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if st.jsonOut {
				return writeJSON(out, result)
			}
			selected := make([]string, 0, len(result.SelectedGoals))
			for _, g := range result.SelectedGoals {
				selected = append(selected, string(g))
			}
			_, _ = fmt.Fprintln(out, TitleStyle.Render("Selected goals: "+strings.Join(selected, ", ")))
			for _, g := range result.Goals {
				_, _ = fmt.Fprintf(out, "  %-4s %-40s %s\n", g.Priority, g.Title, SubtleStyle.Render(g.EstimatedTime))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&quiz, "quiz", nil, "quiz answer as QUESTION:CHOICE[,CHOICE], repeatable")
	cmd.Flags().StringVar(&risk, "risk", "", "risk tolerance (conservative, moderate, aggressive)")
	return cmd
}

// parseQuizAnswers reads answers written as "4:a,e".
func parseQuizAnswers(raw []string) ([]domain.QuizAnswer, error) {
	answers := make([]domain.QuizAnswer, 0, len(raw))
	for _, item := range raw {
		id, choices, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("quiz answer %q: expected QUESTION:CHOICE", item)
		}
		questionID, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			return nil, fmt.Errorf("quiz answer %q: question must be a number", item)
		}
		answer := domain.QuizAnswer{QuestionID: questionID}
		for _, c := range strings.Split(choices, ",") {
			if c = strings.TrimSpace(c); c != "" {
				answer.Selected = append(answer.Selected, c)
			}
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

func renderPlan(w io.Writer, plan domain.BudgetPlan) {
	_, _ = fmt.Fprintln(w, TitleStyle.Render("Budget "+money.Format(plan.TotalAccountValue)))
	for _, card := range plan.GoalCards {
		allocated, target := 0.0, 0.0
		if card.AllocatedAmount != nil {
			allocated = *card.AllocatedAmount
		}
		if card.TargetAmount != nil {
			target = *card.TargetAmount
		}
		body := BoldStyle.Render(card.Title) + "\n" +
			fmt.Sprintf("allocated %s of %s", money.Format(allocated), money.Format(target)) + "\n" +
			SubtleStyle.Render(card.Description)
		_, _ = fmt.Fprintln(w, CardStyle.Render(body))
	}
	_, _ = fmt.Fprintf(w, "used %s, remaining %s\n", money.Format(plan.BudgetUsed), money.Format(plan.BudgetRemaining))
}
