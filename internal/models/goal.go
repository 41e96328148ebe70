package models

import (
	"strings"
	"time"

	"github.com/budgetnest/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Goal is a savings target for an envelope.
type Goal struct {
	DefaultModel
	Name       string `gorm:"uniqueIndex:goal_name_envelope"`
	Note       string
	Envelope   Envelope        `json:"-"`
	EnvelopeID uuid.UUID       `gorm:"uniqueIndex:goal_name_envelope"`
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // The target for the goal
	TargetDate *types.Date     // The day the goal should be reached, optional
	StartDate  *types.Date     // The day saving started, defaults to goal creation
	Archived   bool
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	_ = g.DefaultModel.BeforeCreate(tx)

	// The saving window defaults to starting when the goal is created
	if g.StartDate == nil {
		start := types.DateOf(time.Now())
		g.StartDate = &start
	}

	toSave := tx.Statement.Dest.(*Goal)
	return g.checkIntegrity(tx, *toSave)
}

func (g *Goal) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(Goal)

	if tx.Statement.Changed("EnvelopeID") {
		err := g.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies that the envelope the goal references exists
func (g *Goal) checkIntegrity(tx *gorm.DB, toSave Goal) error {
	return tx.First(&Envelope{}, toSave.EnvelopeID).Error
}

func (g *Goal) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Note = strings.TrimSpace(g.Note)

	return nil
}

func (g *Goal) AfterSave(_ *gorm.DB) error {
	if !decimal.Decimal.IsPositive(g.Amount) {
		return ErrGoalAmountNotPositive
	}

	if g.TargetDate != nil && g.StartDate != nil && g.TargetDate.Before(*g.StartDate) {
		return ErrGoalDatesInvalid
	}

	return nil
}
