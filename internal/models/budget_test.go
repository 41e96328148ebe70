package models_test

import (
	"strings"

	"github.com/budgetnest/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestBudgetCurrency() {
	tests := []struct {
		currency string
		saved    string
		err      error
	}{
		{"EUR", "EUR", nil},
		{"usd", "USD", nil},
		{" CHF ", "CHF", nil},
		{"", "EUR", nil},
		{"EURO", "", models.ErrBudgetCurrencyInvalid},
		{"money", "", models.ErrBudgetCurrencyInvalid},
	}

	for _, tt := range tests {
		budget := models.Budget{
			Name:     "Currency " + tt.currency,
			Currency: tt.currency,
		}

		err := models.DB.Create(&budget).Error
		if tt.err != nil {
			assert.ErrorIs(suite.T(), err, tt.err, "currency %q", tt.currency)
			continue
		}

		assert.Nil(suite.T(), err, "currency %q: %v", tt.currency, err)
		assert.Equal(suite.T(), tt.saved, budget.Currency)
	}
}

func (suite *TestSuiteStandard) TestBudgetNameRequired() {
	err := models.DB.Create(&models.Budget{Name: "  \t "}).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetNameNotSet)
}

func (suite *TestSuiteStandard) TestBudgetTrimWhitespace() {
	name := "  There is whitespace here  \t"
	note := " Whitespace    "

	budget := suite.createTestBudget(models.Budget{Name: name, Note: note})

	assert.Equal(suite.T(), strings.TrimSpace(name), budget.Name)
	assert.Equal(suite.T(), strings.TrimSpace(note), budget.Note)
}
