// Package goal implements the savings goal progress engine.
//
// All functions are pure: they compute over the values passed in and the
// explicitly supplied reference time, hold no state between calls and
// perform no I/O. Persisting snapshots and rendering results is up to the
// caller.
package goal

import (
	"errors"
	"time"

	"github.com/budgetnest/backend/internal/types"
	"github.com/shopspring/decimal"
)

var (
	ErrTargetAmountNotPositive = errors.New("goal target amounts must be larger than zero")
	ErrInvalidDate             = errors.New("the date could not be parsed")
)

// ProgressInput is the state of a savings goal at a point in time.
type ProgressInput struct {
	CurrentAmount decimal.Decimal // Balance saved towards the goal, may be negative
	TargetAmount  decimal.Decimal // Amount to be saved, must be positive
	TargetDate    *types.Date     // Day the goal should be reached, optional
	StartDate     *types.Date     // Day saving started, optional
}

// ProgressResult describes how far along a goal is.
//
// The time based fields are nil when the input does not carry the dates
// needed to compute them. A nil field means "not applicable", which callers
// must not conflate with a zero value.
type ProgressResult struct {
	ProgressPercentage     float64         `json:"progressPercentage" example:"50"`            // Saved amount as a percentage of the target, always in [0,100]
	RemainingAmount        decimal.Decimal `json:"remainingAmount" example:"500"`              // Amount still to be saved, never negative
	IsCompleted            bool            `json:"isCompleted" example:"false"`                // Whether the target has been reached
	DaysRemaining          *int            `json:"daysRemaining,omitempty" example:"30"`       // Days until the target date, negative when overdue
	TimeProgressPercentage *float64        `json:"timeProgressPercentage,omitempty" example:"50"` // Elapsed share of the saving window in [0,100]
	IsOnTrack              *bool           `json:"isOnTrack,omitempty" example:"false"`        // Whether saving keeps pace with the elapsed time
}

var oneHundred = decimal.NewFromInt(100)

// CalculateProgress computes the progress of a savings goal.
//
// now is only used for the time based fields, so two calls with identical
// inputs on the same calendar day return identical results.
func CalculateProgress(input ProgressInput, now time.Time) (ProgressResult, error) {
	if !input.TargetAmount.IsPositive() {
		return ProgressResult{}, ErrTargetAmountNotPositive
	}

	// Only the percentage is clamped. The raw amount stays untouched so
	// that negative balances and over-funding keep their meaning.
	percentage := clamp(input.CurrentAmount.Div(input.TargetAmount).Mul(oneHundred).InexactFloat64())

	remaining := input.TargetAmount.Sub(input.CurrentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	result := ProgressResult{
		ProgressPercentage: percentage,
		RemainingAmount:    remaining,
		// Reaching exactly the target counts as complete
		IsCompleted: input.CurrentAmount.GreaterThanOrEqual(input.TargetAmount),
	}

	if input.TargetDate == nil {
		return result, nil
	}

	today := types.DateOf(now)

	// Negative values are preserved, the sign tells callers that the goal
	// is overdue. "Today" counts as zero days remaining.
	days := today.DaysUntil(*input.TargetDate)
	result.DaysRemaining = &days

	if input.StartDate == nil {
		return result, nil
	}

	total := input.StartDate.DaysUntil(*input.TargetDate)
	elapsed := input.StartDate.DaysUntil(today)

	// A window that has no length or already ended counts as fully elapsed
	timeProgress := float64(100)
	if total > 0 {
		timeProgress = clamp(float64(elapsed) / float64(total) * 100)
	}
	result.TimeProgressPercentage = &timeProgress

	// An overdue, incomplete goal is never on track. This follows from the
	// comparison since an elapsed window has 100% time progress.
	onTrack := percentage >= timeProgress
	result.IsOnTrack = &onTrack

	return result, nil
}

// Milestone is one of the standard completion thresholds of a goal.
type Milestone struct {
	Threshold int  `json:"threshold" example:"25"` // The percentage threshold
	Achieved  bool `json:"achieved" example:"true"` // Whether progress has reached the threshold
}

// milestoneThresholds are the percentages at which a milestone is reached.
// 25, 50 and 75 produce milestone notifications, 100 produces the
// achievement notification.
var milestoneThresholds = []int{25, 50, 75, 100}

// Milestones returns the milestones for a progress result. Each threshold
// is evaluated independently, so full progress achieves all four.
func Milestones(result ProgressResult) []Milestone {
	milestones := make([]Milestone, 0, len(milestoneThresholds))
	for _, threshold := range milestoneThresholds {
		milestones = append(milestones, Milestone{
			Threshold: threshold,
			Achieved:  result.ProgressPercentage >= float64(threshold),
		})
	}

	return milestones
}

func clamp(percentage float64) float64 {
	if percentage < 0 {
		return 0
	}
	if percentage > 100 {
		return 100
	}
	return percentage
}
