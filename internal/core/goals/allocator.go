package goals

import (
	"github.com/shopspring/decimal"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/money"
)

var (
	loanShare      = decimal.RequireFromString("0.6")
	downShare      = decimal.RequireFromString("0.2")
	retireShare    = decimal.RequireFromString("0.5")
	emergencyShare = decimal.RequireFromString("0.1")
	educationShare = decimal.RequireFromString("0.15")
	two            = decimal.NewFromInt(2)
	oneAndHalf     = decimal.RequireFromString("1.5")
)

// allocation is the outcome of one goal's share computation.
type allocation struct {
	target    decimal.Decimal
	allocated decimal.Decimal
	describe  string
}

// allocators compute each goal from the whole budget and what is still
// unallocated. Some goals take a share of the total clamped to the
// remainder, others a share of the remainder itself.
var allocators = map[domain.GoalType]func(total, remaining decimal.Decimal) allocation{
	domain.GoalPayOffLoans: func(total, remaining decimal.Decimal) allocation {
		target := total.Mul(loanShare)
		allocated := decimal.Min(remaining, target)
		return allocation{
			target:    target,
			allocated: allocated,
			describe: "Plan: We found " + usd(total) + ". We can pay your loans and have " +
				usd(remaining.Sub(allocated)) + " left over.",
		}
	},
	domain.GoalHomeDownPayment: func(total, remaining decimal.Decimal) allocation {
		target := total.Mul(downShare)
		return allocation{
			target:    target,
			allocated: decimal.Min(remaining, target),
			describe: "Plan: We found " + usd(total) + ". We suggest allocating " + usd(target) +
				" (20%) for your home down payment fund.",
		}
	},
	domain.GoalRetirement: func(total, remaining decimal.Decimal) allocation {
		allocated := remaining.Mul(retireShare)
		return allocation{
			target:    allocated.Mul(two),
			allocated: allocated,
			describe:  "Plan: We found " + usd(total) + ". Allocating " + usd(allocated) + " for long-term retirement planning.",
		}
	},
	domain.GoalEmergencyFund: func(total, remaining decimal.Decimal) allocation {
		target := total.Mul(emergencyShare)
		allocated := decimal.Min(remaining, target)
		return allocation{
			target:    target,
			allocated: allocated,
			describe: "Plan: We found " + usd(total) + ". Setting aside " + usd(allocated) +
				" for emergency expenses (3-6 months expenses).",
		}
	},
	domain.GoalEducation: func(total, remaining decimal.Decimal) allocation {
		allocated := remaining.Mul(educationShare)
		return allocation{
			target:    allocated.Mul(oneAndHalf),
			allocated: allocated,
			describe: "Plan: We found " + usd(total) + ". Allocating " + usd(allocated) +
				" for education expenses (529 plan or similar).",
		}
	},
}

// Allocate partitions total across the requested goals in the order given.
// Each goal sees the budget left by the goals before it, so reordering the
// same goals changes the amounts. Unknown goal types are skipped.
func Allocate(total float64, selected []domain.GoalType) domain.BudgetPlan {
	budget := decimal.NewFromFloat(total)
	used := decimal.Zero
	templates := loadTemplates().Allocation

	cards := make([]domain.PlannedGoal, 0, len(selected))
	for _, goal := range selected {
		compute, ok := allocators[goal]
		if !ok {
			continue
		}
		result := compute(budget, budget.Sub(used))
		used = used.Add(result.allocated)

		card := templates[goal].card()
		card.Description = result.describe
		target := result.target.InexactFloat64()
		allocated := result.allocated.InexactFloat64()
		card.TargetAmount = &target
		card.AllocatedAmount = &allocated
		cards = append(cards, card)
	}

	return domain.BudgetPlan{
		TotalAccountValue: total,
		GoalCards:         cards,
		BudgetUsed:        used.InexactFloat64(),
		BudgetRemaining:   budget.Sub(used).InexactFloat64(),
	}
}

func usd(d decimal.Decimal) string {
	return money.Format(d.InexactFloat64())
}
