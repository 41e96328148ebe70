package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	ErrBudgetNameNotSet      = errors.New("budget names must be set")
	ErrBudgetCurrencyInvalid = errors.New("the budget currency must be a valid ISO 4217 code")
	ErrEnvelopeNameNotUnique = errors.New("the envelope name must be unique for the budget")
	ErrMatchRuleMatchNotSet  = errors.New("match rule patterns must be set")

	ErrTransactionTypeInvalid       = errors.New("the transaction type is invalid")
	ErrTransactionNoEnvelope        = errors.New("expense, transfer and allocation transactions must reference an envelope")
	ErrTransactionAmountNotPositive = errors.New("transaction amounts must be larger than zero")

	ErrGoalAmountNotPositive = errors.New("goal target amounts must be larger than zero")
	ErrGoalDatesInvalid      = errors.New("the goal target date must not be before the start date")
	ErrGoalNameNotUnique     = errors.New("the goal name must be unique for the envelope")
)
