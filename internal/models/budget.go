package models

import (
	"strings"

	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// Budget represents a budget
//
// A budget is the highest level of organization in Budgetnest, all other
// resources reference it directly or transitively.
type Budget struct {
	DefaultModel
	Name     string
	Note     string
	Currency string // ISO 4217 currency code
}

func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)
	b.Currency = strings.ToUpper(strings.TrimSpace(b.Currency))

	if b.Name == "" {
		return ErrBudgetNameNotSet
	}

	if b.Currency == "" {
		b.Currency = "EUR"
		return nil
	}

	// Canonicalize the currency code so "eur" and "EUR" mean the same thing
	unit, err := currency.ParseISO(b.Currency)
	if err != nil {
		return ErrBudgetCurrencyInvalid
	}
	b.Currency = unit.String()

	return nil
}
