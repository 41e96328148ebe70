package models_test

import (
	"time"

	"github.com/budgetnest/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestGoalEventNonExistingGoal() {
	err := models.DB.Create(&models.GoalEvent{
		GoalID:    uuid.New(),
		EventType: "progress",
	}).Error

	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestLatestGoalEvent() {
	budget := suite.createTestBudget(models.Budget{})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID, Name: "TestLatestGoalEvent"})
	goal := suite.createTestGoal(models.Goal{
		EnvelopeID: envelope.ID,
		Amount:     decimal.NewFromFloat(1000),
	})

	// No history yet
	_, found, err := models.LatestGoalEvent(models.DB, goal.ID)
	require.Nil(suite.T(), err)
	assert.False(suite.T(), found)

	date := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	_ = suite.createTestGoalEvent(models.GoalEvent{
		GoalID:             goal.ID,
		EventType:          "progress",
		EventDate:          date,
		BalanceAtEvent:     decimal.NewFromFloat(250),
		ProgressPercentage: 25,
	})
	_ = suite.createTestGoalEvent(models.GoalEvent{
		GoalID:             goal.ID,
		EventType:          "milestone",
		EventDate:          date.AddDate(0, 1, 0),
		BalanceAtEvent:     decimal.NewFromFloat(500),
		ProgressPercentage: 50,
	})

	event, found, err := models.LatestGoalEvent(models.DB, goal.ID)
	require.Nil(suite.T(), err)
	require.True(suite.T(), found)
	assert.Equal(suite.T(), "milestone", event.EventType)
	assert.Equal(suite.T(), float64(50), event.ProgressPercentage)
}
