package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Envelope represents an envelope in your budget.
type Envelope struct {
	DefaultModel
	Name     string `gorm:"uniqueIndex:envelope_name_budget"`
	Note     string
	Budget   Budget    `json:"-"`
	BudgetID uuid.UUID `gorm:"uniqueIndex:envelope_name_budget"`
	Archived bool
}

func (e *Envelope) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Envelope)
	return e.checkIntegrity(tx, *toSave)
}

func (e *Envelope) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(Envelope)

	if tx.Statement.Changed("BudgetID") {
		err := e.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies that the budget the envelope references exists
func (e *Envelope) checkIntegrity(tx *gorm.DB, toSave Envelope) error {
	return tx.First(&Budget{}, toSave.BudgetID).Error
}

func (e *Envelope) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Note = strings.TrimSpace(e.Note)

	return nil
}

// Balance returns the balance of the envelope at the end of a day.
//
// Money flows into an envelope with income, allocation and transfer
// transactions that have it as their destination and out with expense and
// transfer transactions that have it as their source.
func (e Envelope) Balance(db *gorm.DB, t time.Time) (decimal.Decimal, error) {
	var incoming []Transaction
	err := db.
		Where("destination_envelope_id = ?", e.ID).
		Where("date <= ?", t).
		Find(&incoming).Error
	if err != nil {
		return decimal.Zero, err
	}

	var outgoing []Transaction
	err = db.
		Where("source_envelope_id = ?", e.ID).
		Where("date <= ?", t).
		Find(&outgoing).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, transaction := range incoming {
		balance = balance.Add(transaction.Amount)
	}
	for _, transaction := range outgoing {
		balance = balance.Sub(transaction.Amount)
	}

	return balance, nil
}
