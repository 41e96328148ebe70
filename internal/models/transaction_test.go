package models_test

import (
	"testing"
	"time"

	"github.com/budgetnest/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestTransactionTypes() {
	budget := suite.createTestBudget(models.Budget{})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID, Name: "Rent"})
	other := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID, Name: "Utilities"})

	tests := []struct {
		name        string
		txType      models.TransactionType
		source      *uuid.UUID
		destination *uuid.UUID
		err         error
	}{
		{"income without envelope", models.TransactionTypeIncome, nil, nil, nil},
		{"income to envelope", models.TransactionTypeIncome, nil, &envelope.ID, nil},
		{"expense", models.TransactionTypeExpense, &envelope.ID, nil, nil},
		{"expense without envelope", models.TransactionTypeExpense, nil, nil, models.ErrTransactionNoEnvelope},
		{"allocation", models.TransactionTypeAllocation, nil, &envelope.ID, nil},
		{"allocation without envelope", models.TransactionTypeAllocation, nil, nil, models.ErrTransactionNoEnvelope},
		{"transfer", models.TransactionTypeTransfer, &envelope.ID, &other.ID, nil},
		{"transfer without destination", models.TransactionTypeTransfer, &envelope.ID, nil, models.ErrTransactionNoEnvelope},
		{"unknown type", models.TransactionType("donation"), nil, nil, models.ErrTransactionTypeInvalid},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			transaction := models.Transaction{
				BudgetID:              budget.ID,
				Type:                  tt.txType,
				SourceEnvelopeID:      tt.source,
				DestinationEnvelopeID: tt.destination,
				Amount:                decimal.NewFromFloat(10),
			}

			err := models.DB.Create(&transaction).Error
			assert.ErrorIs(t, err, tt.err, "Error is: %v", err)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionAmountMustBePositive() {
	budget := suite.createTestBudget(models.Budget{})

	for _, amount := range []float64{0, -10} {
		err := models.DB.Create(&models.Transaction{
			BudgetID: budget.ID,
			Type:     models.TransactionTypeIncome,
			Amount:   decimal.NewFromFloat(amount),
		}).Error

		assert.ErrorIs(suite.T(), err, models.ErrTransactionAmountNotPositive, "amount %v", amount)
	}
}

func (suite *TestSuiteStandard) TestTransactionDateDefaultsToNow() {
	budget := suite.createTestBudget(models.Budget{})

	transaction := suite.createTestTransaction(models.Transaction{
		BudgetID: budget.ID,
		Type:     models.TransactionTypeIncome,
		Amount:   decimal.NewFromFloat(10),
	})

	assert.False(suite.T(), transaction.Date.IsZero())
	assert.WithinDuration(suite.T(), time.Now(), transaction.Date, time.Minute)
}
