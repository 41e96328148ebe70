package models_test

import (
	"strings"

	"github.com/budgetnest/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestMatchRuleMatchRequired() {
	budget := suite.createTestBudget(models.Budget{})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID, Name: "TestMatchRuleMatchRequired"})

	err := models.DB.Create(&models.MatchRule{
		EnvelopeID: envelope.ID,
		Match:      "   ",
	}).Error

	assert.ErrorIs(suite.T(), err, models.ErrMatchRuleMatchNotSet)
}

func (suite *TestSuiteStandard) TestMatchRuleTrimWhitespace() {
	budget := suite.createTestBudget(models.Budget{})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID, Name: "TestMatchRuleTrimWhitespace"})

	match := "  Some Payee*  "

	rule := suite.createTestMatchRule(models.MatchRule{
		EnvelopeID: envelope.ID,
		Match:      match,
	})

	assert.Equal(suite.T(), strings.TrimSpace(match), rule.Match)
}
