package goal

// Display hints for a progress result. These functions derive presentation
// tags from a ProgressResult, they never compute anything new.

const (
	StatusColorGreen  = "green"
	StatusColorYellow = "yellow"
	StatusColorRed    = "red"
)

// statusBehindMargin is the gap in percentage points between time progress
// and value progress above which a goal counts as significantly behind.
const statusBehindMargin = 25

// StatusColor maps a progress result to a display color tag.
func StatusColor(result ProgressResult) string {
	if result.IsCompleted {
		return StatusColorGreen
	}

	if result.DaysRemaining != nil && *result.DaysRemaining < 0 {
		return StatusColorRed
	}

	// Without time data there is no schedule to be behind of
	if result.IsOnTrack == nil || *result.IsOnTrack {
		return StatusColorGreen
	}

	if *result.TimeProgressPercentage-result.ProgressPercentage > statusBehindMargin {
		return StatusColorRed
	}

	return StatusColorYellow
}

// StatusPhrase maps a progress result to a short status phrase.
func StatusPhrase(result ProgressResult) string {
	if result.IsCompleted {
		return "completed"
	}

	if result.DaysRemaining != nil && *result.DaysRemaining < 0 {
		return "overdue"
	}

	if result.IsOnTrack == nil {
		return "in progress"
	}

	if *result.IsOnTrack {
		return "on track"
	}

	if *result.TimeProgressPercentage-result.ProgressPercentage > statusBehindMargin {
		return "behind schedule"
	}

	return "slightly behind"
}
