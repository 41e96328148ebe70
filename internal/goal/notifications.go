package goal

import "fmt"

// EventType classifies a notification event.
type EventType string

const (
	EventTypeAchievement EventType = "achievement" // The goal has been completed
	EventTypeMilestone   EventType = "milestone"   // A 25/50/75% threshold has been crossed
	EventTypeWarning     EventType = "warning"     // The goal is falling behind schedule
)

// NotificationEvent describes a single notification for a goal. Icon and
// Color are presentation hints, only Type, GoalID and the triggering
// condition carry meaning.
type NotificationEvent struct {
	Type                EventType `json:"type" example:"milestone"`
	GoalID              string    `json:"goalId" example:"d1b4b6a3-aabf-4bfe-97e0-861c14aee3ed"` // Identifier of the goal, opaque to the engine
	GoalName            string    `json:"goalName" example:"New TV"`
	Title               string    `json:"title" example:"Halfway there!"`
	Message             string    `json:"message" example:"'New TV' has reached 50% of its target."`
	Icon                string    `json:"icon" example:"flag"`
	Color               string    `json:"color" example:"blue"`
	MilestonePercentage *int      `json:"milestonePercentage,omitempty" example:"50"` // Set for milestone events only
}

// NotificationPreferences gates the notification categories independently.
// A disabled category is never generated, not generated and filtered.
type NotificationPreferences struct {
	EnableAchievementNotifications bool `json:"enableAchievementNotifications" example:"true"`
	EnableMilestoneNotifications   bool `json:"enableMilestoneNotifications" example:"true"`
	EnableWarningNotifications     bool `json:"enableWarningNotifications" example:"true"`
}

// DefaultNotificationPreferences enables all categories.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		EnableAchievementNotifications: true,
		EnableMilestoneNotifications:   true,
		EnableWarningNotifications:     true,
	}
}

// WarningThresholds configures when a goal that is not on track produces a
// warning. The exact margins are a policy decision, not a property of the
// calculation, so callers can tune them.
type WarningThresholds struct {
	// BehindMargin is the number of percentage points time progress must
	// exceed value progress by before a warning is produced.
	BehindMargin float64 `json:"behindMargin" example:"10"`
	// DaysRemaining produces a warning for incomplete goals once no more
	// than this many days are left.
	DaysRemaining int `json:"daysRemaining" example:"30"`
}

// DefaultWarningThresholds returns the default warning policy.
func DefaultWarningThresholds() WarningThresholds {
	return WarningThresholds{
		BehindMargin:  10,
		DaysRemaining: 30,
	}
}

// CheckConfig configures a CheckAchievements call.
type CheckConfig struct {
	Preferences NotificationPreferences
	Warnings    WarningThresholds

	// PickTemplate selects one of n message templates for an event. It
	// exists so message variety can come from an RNG in production while
	// tests pass a constant index. nil always selects the first template.
	PickTemplate func(n int) int
}

// DefaultCheckConfig returns a config with all notifications enabled and
// the default warning policy.
func DefaultCheckConfig() CheckConfig {
	return CheckConfig{
		Preferences: DefaultNotificationPreferences(),
		Warnings:    DefaultWarningThresholds(),
	}
}

type messageTemplate struct {
	title   string
	message string // format string receiving the goal name and, for milestones, the threshold
}

// Message templates per event type. Milestone templates receive the goal
// name and the threshold, the others only the goal name.
var messageTemplates = map[EventType][]messageTemplate{
	EventTypeAchievement: {
		{"Goal achieved!", "Congratulations, %q is fully funded!"},
		{"You did it!", "%q has reached its target. Time to celebrate!"},
		{"Target reached", "The savings target for %q has been reached."},
	},
	EventTypeMilestone: {
		{"Milestone reached", "%q has passed %d%% of its target."},
		{"Keep it up!", "%q is now %d%% funded."},
		{"Progress update", "Saving for %q is %d%% done."},
	},
	EventTypeWarning: {
		{"Falling behind", "%q is behind schedule. Consider increasing your contributions."},
		{"Goal at risk", "At the current pace, %q will not reach its target in time."},
	},
}

var eventIcons = map[EventType]string{
	EventTypeAchievement: "trophy",
	EventTypeMilestone:   "flag",
	EventTypeWarning:     "alert-triangle",
}

var eventColors = map[EventType]string{
	EventTypeAchievement: "green",
	EventTypeMilestone:   "blue",
	EventTypeWarning:     "yellow",
}

// CheckAchievements diffs two progress snapshots of the same goal and
// returns the notification events the transition triggers.
//
// The function holds no state: callers persist the previous snapshot and
// supply it on the next call. Milestones are emitted once per crossed
// threshold, so a jump across several thresholds emits one event each and
// none is skipped. At most one warning is emitted per call.
func CheckAchievements(current, previous ProgressResult, goalName, goalID string, config CheckConfig) []NotificationEvent {
	var events []NotificationEvent

	if config.Preferences.EnableAchievementNotifications &&
		current.IsCompleted && !previous.IsCompleted {
		event := newEvent(EventTypeAchievement, goalName, goalID, config.PickTemplate)
		events = append(events, event)
	}

	if config.Preferences.EnableMilestoneNotifications {
		for _, threshold := range milestoneThresholds {
			// 100% is covered by the achievement event
			if threshold == 100 {
				continue
			}

			if previous.ProgressPercentage < float64(threshold) &&
				current.ProgressPercentage >= float64(threshold) {
				event := newMilestoneEvent(threshold, goalName, goalID, config.PickTemplate)
				events = append(events, event)
			}
		}
	}

	if config.Preferences.EnableWarningNotifications && warrantsWarning(current, config.Warnings) {
		event := newEvent(EventTypeWarning, goalName, goalID, config.PickTemplate)
		events = append(events, event)
	}

	return events
}

// warrantsWarning reports whether the current snapshot is far enough behind
// to warn about.
func warrantsWarning(current ProgressResult, thresholds WarningThresholds) bool {
	if current.IsCompleted || current.IsOnTrack == nil || *current.IsOnTrack {
		return false
	}

	if *current.TimeProgressPercentage-current.ProgressPercentage >= thresholds.BehindMargin {
		return true
	}

	return current.DaysRemaining != nil && *current.DaysRemaining <= thresholds.DaysRemaining
}

func newEvent(eventType EventType, goalName, goalID string, pick func(n int) int) NotificationEvent {
	template := pickTemplate(messageTemplates[eventType], pick)

	return NotificationEvent{
		Type:     eventType,
		GoalID:   goalID,
		GoalName: goalName,
		Title:    template.title,
		Message:  fmt.Sprintf(template.message, goalName),
		Icon:     eventIcons[eventType],
		Color:    eventColors[eventType],
	}
}

func newMilestoneEvent(threshold int, goalName, goalID string, pick func(n int) int) NotificationEvent {
	template := pickTemplate(messageTemplates[EventTypeMilestone], pick)

	return NotificationEvent{
		Type:                EventTypeMilestone,
		GoalID:              goalID,
		GoalName:            goalName,
		Title:               template.title,
		Message:             fmt.Sprintf(template.message, goalName, threshold),
		Icon:                eventIcons[EventTypeMilestone],
		Color:               eventColors[EventTypeMilestone],
		MilestonePercentage: &threshold,
	}
}

func pickTemplate(templates []messageTemplate, pick func(n int) int) messageTemplate {
	if pick == nil {
		return templates[0]
	}

	return templates[pick(len(templates))%len(templates)]
}
