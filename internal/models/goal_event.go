package models

import (
	"errors"
	"time"

	"github.com/budgetnest/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GoalEvent is one entry in the history log of a goal.
//
// Events snapshot the goal at the time they happen so that the history
// stays meaningful when the goal is edited later. The previous_* fields
// carry the snapshot the event was diffed against.
type GoalEvent struct {
	DefaultModel
	GoalID              uuid.UUID `gorm:"index"`
	Goal                Goal      `json:"-"`
	EventType           string    // One of the notification event types, or "progress" for plain checks
	EventDate           time.Time
	BalanceAtEvent      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TargetAmountAtEvent decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TargetDateAtEvent   *types.Date
	ProgressPercentage  float64
	PreviousBalance     *decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	PreviousPercentage  *float64
	MilestonePercentage *int // Set for milestone events only
	Note                string
}

func (e *GoalEvent) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*GoalEvent)
	return tx.First(&Goal{}, toSave.GoalID).Error
}

func (e *GoalEvent) BeforeSave(_ *gorm.DB) error {
	if e.EventDate.IsZero() {
		e.EventDate = time.Now().In(time.UTC)
	} else {
		e.EventDate = e.EventDate.In(time.UTC)
	}

	return nil
}

// LatestGoalEvent returns the most recent history entry for a goal. The
// returned boolean reports whether there is one.
func LatestGoalEvent(db *gorm.DB, goalID uuid.UUID) (GoalEvent, bool, error) {
	var event GoalEvent
	err := db.
		Where(&GoalEvent{GoalID: goalID}).
		Order("event_date DESC, created_at DESC").
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrResourceNotFound) {
			return GoalEvent{}, false, nil
		}
		return GoalEvent{}, false, err
	}

	return event, true, nil
}
