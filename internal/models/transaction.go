package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType describes which way money moves.
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"     // Money coming into the budget or directly into an envelope
	TransactionTypeExpense    TransactionType = "expense"    // Money leaving an envelope
	TransactionTypeTransfer   TransactionType = "transfer"   // Money moving between two envelopes
	TransactionTypeAllocation TransactionType = "allocation" // Money moving from the budget pool into an envelope
)

// Transaction represents a movement of money.
//
// The transaction type determines which envelope references must be set:
// expenses need a source, allocations need a destination, transfers need
// both. Income may name a destination envelope or stay unallocated.
type Transaction struct {
	DefaultModel
	BudgetID              uuid.UUID
	Budget                Budget `json:"-"`
	Type                  TransactionType
	SourceEnvelopeID      *uuid.UUID `gorm:"check:source_destination_different,source_envelope_id != destination_envelope_id"`
	SourceEnvelope        Envelope   `json:"-"`
	DestinationEnvelopeID *uuid.UUID
	DestinationEnvelope   Envelope        `json:"-"`
	Date                  time.Time       // Time of day is currently only used for sorting
	Amount                decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Payee                 string
	Note                  string
	ImportHash            string // The SHA256 hash of a unique combination of values to use in duplicate detection when importing transactions
}

// BeforeSave
//   - sets the timezone for the Date to UTC
//   - verifies that the envelope references fit the transaction type
//   - trims whitespace from string fields
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Payee = strings.TrimSpace(t.Payee)
	t.Note = strings.TrimSpace(t.Note)
	t.ImportHash = strings.TrimSpace(t.ImportHash)

	// Ensure that envelope IDs are nil and not pointers to nil UUIDs
	if t.SourceEnvelopeID != nil && *t.SourceEnvelopeID == uuid.Nil {
		t.SourceEnvelopeID = nil
	}
	if t.DestinationEnvelopeID != nil && *t.DestinationEnvelopeID == uuid.Nil {
		t.DestinationEnvelopeID = nil
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if !t.Amount.IsPositive() {
		return ErrTransactionAmountNotPositive
	}

	switch t.Type {
	case TransactionTypeIncome:
		t.SourceEnvelopeID = nil
	case TransactionTypeExpense:
		if t.SourceEnvelopeID == nil {
			return ErrTransactionNoEnvelope
		}
		t.DestinationEnvelopeID = nil
	case TransactionTypeAllocation:
		if t.DestinationEnvelopeID == nil {
			return ErrTransactionNoEnvelope
		}
		t.SourceEnvelopeID = nil
	case TransactionTypeTransfer:
		if t.SourceEnvelopeID == nil || t.DestinationEnvelopeID == nil {
			return ErrTransactionNoEnvelope
		}
	default:
		return ErrTransactionTypeInvalid
	}

	return nil
}

// AfterFind enforces dates to be in UTC
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return
}
