package goal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Day counts used to convert the remaining duration into the recommended
// contribution denominations. A single convention keeps the three amounts
// consistent with each other: weekly ≈ monthly / (30.44/7).
const (
	daysPerWeek  = 7
	daysPerMonth = 30.44 // 365.25 / 12
)

// amountEpsilon is the tolerance below which a projected amount counts as
// exactly on target, so float noise does not produce phantom shortfalls.
var amountEpsilon = decimal.NewFromFloat(0.01)

// ProjectionInput is a ProgressInput plus an assumed steady future
// contribution.
type ProjectionInput struct {
	ProgressInput
	MonthlyContribution *decimal.Decimal // Assumed contribution per month, optional
}

// ProjectionResult is the forward estimate for a goal.
//
// All fields are optional: projections need a target date as horizon, and
// the projected amount additionally needs an assumed contribution. Fields
// that cannot be computed from the input are nil, never guessed.
type ProjectionResult struct {
	ProjectedAmount          *decimal.Decimal `json:"projectedAmount,omitempty" example:"950"`          // Estimated balance at the target date
	RecommendedMonthlyAmount *decimal.Decimal `json:"recommendedMonthlyAmount,omitempty" example:"125"` // Contribution per month needed to reach the target in time
	RecommendedWeeklyAmount  *decimal.Decimal `json:"recommendedWeeklyAmount,omitempty" example:"28.75"` // Contribution per week needed to reach the target in time
	RecommendedDailyAmount   *decimal.Decimal `json:"recommendedDailyAmount,omitempty" example:"4.11"`  // Contribution per day needed to reach the target in time
	Shortfall                *decimal.Decimal `json:"shortfall,omitempty" example:"50"`                 // Amount the projection falls short of the target
	Surplus                  *decimal.Decimal `json:"surplus,omitempty" example:"50"`                   // Amount the projection exceeds the target
}

// CalculateProjection computes the forward projection for a savings goal.
//
// A goal without a target date yields an empty result since there is no
// horizon to project against. That is not an error.
func CalculateProjection(input ProjectionInput, now time.Time) (ProjectionResult, error) {
	progress, err := CalculateProgress(input.ProgressInput, now)
	if err != nil {
		return ProjectionResult{}, err
	}

	var result ProjectionResult
	if progress.DaysRemaining == nil {
		return result, nil
	}

	days := *progress.DaysRemaining

	// Recommendations spread the remaining amount evenly over the remaining
	// duration. With no duration left there is nothing to recommend.
	if days > 0 && !progress.IsCompleted {
		perDay := progress.RemainingAmount.Div(decimal.NewFromInt(int64(days)))

		daily := perDay.Round(2)
		weekly := perDay.Mul(decimal.NewFromInt(daysPerWeek)).Round(2)
		monthly := perDay.Mul(decimal.NewFromFloat(daysPerMonth)).Round(2)

		result.RecommendedDailyAmount = &daily
		result.RecommendedWeeklyAmount = &weekly
		result.RecommendedMonthlyAmount = &monthly
	}

	if input.MonthlyContribution == nil {
		return result, nil
	}

	monthsRemaining := float64(0)
	if days > 0 {
		monthsRemaining = float64(days) / daysPerMonth
	}

	projected := input.CurrentAmount.Add(
		input.MonthlyContribution.Mul(decimal.NewFromFloat(monthsRemaining))).Round(2)
	result.ProjectedAmount = &projected

	// Exactly one of shortfall and surplus is set, neither when the
	// projection lands on the target within the epsilon
	diff := input.TargetAmount.Sub(projected)
	switch {
	case diff.GreaterThan(amountEpsilon):
		result.Shortfall = &diff
	case diff.LessThan(amountEpsilon.Neg()):
		surplus := diff.Neg()
		result.Surplus = &surplus
	}

	return result, nil
}
