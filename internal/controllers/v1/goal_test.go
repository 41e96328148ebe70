package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/budgetnest/backend/internal/controllers/v1"
	"github.com/budgetnest/backend/internal/goal"
	"github.com/budgetnest/backend/internal/models"
	"github.com/budgetnest/backend/internal/types"
	"github.com/budgetnest/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestGoal creates a test goal via the v1 API.
func createTestGoal(t *testing.T, g v1.GoalEditable, expectedStatus ...int) v1.GoalResponse {
	if g.EnvelopeID == uuid.Nil {
		g.EnvelopeID = createTestEnvelope(t, v1.EnvelopeEditable{}).Data.ID
	}

	if g.Name == "" {
		g.Name = fmt.Sprintf("Goal %s", uuid.NewString())
	}

	if g.Amount.IsZero() {
		g.Amount = decimal.NewFromFloat(1000)
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	reqBody := []v1.GoalEditable{g}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/goals", reqBody)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var gr v1.GoalCreateResponse
	test.DecodeResponse(t, &r, &gr)

	return gr.Data[0]
}

// fundTestEnvelope allocates the amount to the envelope so that goal
// calculations have a balance to work with.
func fundTestEnvelope(t *testing.T, budgetID, envelopeID uuid.UUID, amount float64) {
	_ = createTestTransaction(t, v1.TransactionEditable{
		BudgetID:              budgetID,
		Type:                  models.TransactionTypeAllocation,
		DestinationEnvelopeID: &envelopeID,
		Amount:                decimal.NewFromFloat(amount),
	})
}

// TestGoalsOptions verifies that the HTTP OPTIONS response for /goals/{id} is correct.
func (suite *TestSuiteStandard) TestGoalsOptions() {
	tests := []struct {
		name     string        // Name for the test
		status   int           // Expected HTTP status
		id       string        // String to use as ID. Ignored when pathFunc is non-nil
		pathFunc func() string // Function returning the path
	}{
		{
			"Does not exist",
			http.StatusNotFound,
			uuid.New().String(),
			nil,
		},
		{
			"Invalid UUID",
			http.StatusBadRequest,
			"NotParseableAsUUID",
			nil,
		},
		{
			"Success",
			http.StatusNoContent,
			"",
			func() string {
				return createTestGoal(suite.T(), v1.GoalEditable{}).Data.Links.Self
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var p string
			if tt.pathFunc != nil {
				p = tt.pathFunc()
			} else {
				p = fmt.Sprintf("%s/%s", "http://example.com/v1/goals", tt.id)
			}

			r := test.Request(t, http.MethodOptions, p, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestGoalsEngineOptions verifies the HTTP OPTIONS responses for the
// calculated goal endpoints.
func (suite *TestSuiteStandard) TestGoalsEngineOptions() {
	g := createTestGoal(suite.T(), v1.GoalEditable{})

	tests := []struct {
		path  string
		allow string
	}{
		{g.Data.Links.Progress, "GET"},
		{g.Data.Links.Projection, "GET"},
		{fmt.Sprintf("http://example.com/v1/goals/%s/check", g.Data.ID), "POST"},
		{g.Data.Links.History, "GET"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.allow, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, tt.path, "")
			test.AssertHTTPStatus(t, &r, http.StatusNoContent)
			assert.Equal(t, tt.allow, r.Header().Get("allow"))
		})
	}
}

// TestGoalsCreate verifies goal creation and its error handling.
func (suite *TestSuiteStandard) TestGoalsCreate() {
	envelope := createTestEnvelope(suite.T(), v1.EnvelopeEditable{})

	tests := []struct {
		name           string
		goals          []v1.GoalEditable
		expectedStatus int
		expectedErrors []string // Errors expected for the individual goals
	}{
		{
			"One success, one fail",
			[]v1.GoalEditable{
				{Name: "Non-existing envelope", EnvelopeID: uuid.New(), Amount: decimal.NewFromFloat(100)},
				{Name: "New TV", EnvelopeID: envelope.Data.ID, Amount: decimal.NewFromFloat(750)},
			},
			http.StatusNotFound,
			[]string{
				"there is no envelope matching your query",
				"",
			},
		},
		{
			"Non-positive amount",
			[]v1.GoalEditable{
				{Name: "For nothing", EnvelopeID: envelope.Data.ID, Amount: decimal.NewFromFloat(-10)},
			},
			http.StatusBadRequest,
			[]string{
				models.ErrGoalAmountNotPositive.Error(),
			},
		},
		{
			"Duplicate name for envelope",
			[]v1.GoalEditable{
				{Name: "New TV", EnvelopeID: envelope.Data.ID, Amount: decimal.NewFromFloat(800)},
			},
			http.StatusBadRequest,
			[]string{
				models.ErrGoalNameNotUnique.Error(),
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/goals", tt.goals)
			test.AssertHTTPStatus(t, &r, tt.expectedStatus)

			var gr v1.GoalCreateResponse
			test.DecodeResponse(t, &r, &gr)

			for i, g := range gr.Data {
				if tt.expectedErrors[i] == "" {
					assert.Equal(t, fmt.Sprintf("http://example.com/v1/goals/%s", g.Data.ID), g.Data.Links.Self)
				} else {
					assert.Equal(t, tt.expectedErrors[i], *g.Error)
				}
			}
		})
	}
}

// TestGoalsCreateStartDateDefault verifies that the start date of a goal
// defaults to its creation day.
func (suite *TestSuiteStandard) TestGoalsCreateStartDateDefault() {
	g := createTestGoal(suite.T(), v1.GoalEditable{})

	require.NotNil(suite.T(), g.Data.StartDate)
	assert.True(suite.T(), g.Data.StartDate.Equal(types.DateOf(time.Now())))
}

// TestGoalsGetFilter verifies that filtering goals works as expected.
func (suite *TestSuiteStandard) TestGoalsGetFilter() {
	b1 := createTestBudget(suite.T(), v1.BudgetEditable{})
	b2 := createTestBudget(suite.T(), v1.BudgetEditable{})

	e1 := createTestEnvelope(suite.T(), v1.EnvelopeEditable{BudgetID: b1.Data.ID})
	e2 := createTestEnvelope(suite.T(), v1.EnvelopeEditable{BudgetID: b2.Data.ID})

	_ = createTestGoal(suite.T(), v1.GoalEditable{Name: "New TV", EnvelopeID: e1.Data.ID, Amount: decimal.NewFromFloat(750)})
	_ = createTestGoal(suite.T(), v1.GoalEditable{Name: "Vacation", Note: "Go somewhere sunny", EnvelopeID: e1.Data.ID, Amount: decimal.NewFromFloat(2000), Archived: true})
	_ = createTestGoal(suite.T(), v1.GoalEditable{Name: "Vacation", EnvelopeID: e2.Data.ID, Amount: decimal.NewFromFloat(3000)})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Budget", fmt.Sprintf("budget=%s", b1.Data.ID), 2},
		{"Budget and name", fmt.Sprintf("budget=%s&name=Vacation", b2.Data.ID), 1},
		{"Envelope", fmt.Sprintf("envelope=%s", e1.Data.ID), 2},
		{"Fuzzy name", "name=Vacation", 2},
		{"Search in note", "search=sunny", 1},
		{"Archived", "archived=true", 1},
		{"Exact amount", "amount=750", 1},
		{"Amount less or equal", "amountLessOrEqual=2000", 2},
		{"Amount more or equal", "amountMoreOrEqual=2000", 2},
		{"Limit", "limit=1", 1},
		{"Offset", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.GoalListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/goals?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

// TestGoalsUpdate verifies goal updates.
func (suite *TestSuiteStandard) TestGoalsUpdate() {
	g := createTestGoal(suite.T(), v1.GoalEditable{Name: "Old name", Note: "Keep this"})

	tests := []struct {
		name   string // Name for the test
		status int    // Expected HTTP status
		body   any    // Body to send to the PATCH endpoint
	}{
		{
			"Rename",
			http.StatusOK,
			map[string]any{"name": "New name"},
		},
		{
			"Archive",
			http.StatusOK,
			map[string]any{"archived": true},
		},
		{
			"Change amount",
			http.StatusOK,
			map[string]any{"amount": decimal.NewFromFloat(130)},
		},
		{
			"Non-existing envelope",
			http.StatusNotFound,
			map[string]any{"envelopeId": uuid.New()},
		},
		{
			"Invalid body",
			http.StatusBadRequest,
			`{ "name": 2" }`,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, g.Data.Links.Self, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestGoalsDelete verifies the correct success and error responses
// for DELETE requests.
func (suite *TestSuiteStandard) TestGoalsDelete() {
	tests := []struct {
		name   string // Name for the test
		status int    // Expected HTTP status
		id     string // String to use as ID.
	}{
		{
			"Standard deletion",
			http.StatusNoContent,
			createTestGoal(suite.T(), v1.GoalEditable{}).Data.ID.String(),
		},
		{
			"Does not exist",
			http.StatusNotFound,
			"4bcb6d09-ced1-41e8-a3fe-bf4f16c5e501",
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			p := fmt.Sprintf("%s/%s", "http://example.com/v1/goals", tt.id)

			r := test.Request(t, http.MethodDelete, p, "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestGoalsGetProgress verifies the progress calculation for a goal from
// the balance of its envelope.
func (suite *TestSuiteStandard) TestGoalsGetProgress() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	envelope := createTestEnvelope(suite.T(), v1.EnvelopeEditable{BudgetID: budget.Data.ID})
	g := createTestGoal(suite.T(), v1.GoalEditable{EnvelopeID: envelope.Data.ID, Amount: decimal.NewFromFloat(1000)})

	fundTestEnvelope(suite.T(), budget.Data.ID, envelope.Data.ID, 500)

	r := test.Request(suite.T(), http.MethodGet, g.Data.Links.Progress, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.GoalProgressResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), float64(50), response.Data.ProgressPercentage)
	assert.True(suite.T(), response.Data.RemainingAmount.Equal(decimal.NewFromFloat(500)), "RemainingAmount is %s, expected 500", response.Data.RemainingAmount)
	assert.False(suite.T(), response.Data.IsCompleted)

	// The goal has no target date, so there is no schedule to be behind of
	assert.Nil(suite.T(), response.Data.DaysRemaining)
	assert.Equal(suite.T(), goal.StatusColorGreen, response.Data.StatusColor)
	assert.Equal(suite.T(), "in progress", response.Data.StatusPhrase)

	require.Len(suite.T(), response.Data.Milestones, 4)
	assert.True(suite.T(), response.Data.Milestones[0].Achieved)  // 25%
	assert.True(suite.T(), response.Data.Milestones[1].Achieved)  // 50%
	assert.False(suite.T(), response.Data.Milestones[2].Achieved) // 75%
	assert.False(suite.T(), response.Data.Milestones[3].Achieved) // 100%
}

// TestGoalsGetProgressNotFound verifies the error response for the
// progress of a non-existing goal.
func (suite *TestSuiteStandard) TestGoalsGetProgressNotFound() {
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/goals/%s/progress", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestGoalsGetProjection verifies the projection calculation for a goal.
func (suite *TestSuiteStandard) TestGoalsGetProjection() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	envelope := createTestEnvelope(suite.T(), v1.EnvelopeEditable{BudgetID: budget.Data.ID})

	target := types.DateOf(time.Now().AddDate(0, 0, 100))
	g := createTestGoal(suite.T(), v1.GoalEditable{
		EnvelopeID: envelope.Data.ID,
		Amount:     decimal.NewFromFloat(1000),
		TargetDate: &target,
	})

	fundTestEnvelope(suite.T(), budget.Data.ID, envelope.Data.ID, 500)

	r := test.Request(suite.T(), http.MethodGet, g.Data.Links.Projection, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.GoalProjectionResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	require.NotNil(suite.T(), response.Data.RecommendedDailyAmount)
	assert.True(suite.T(), response.Data.RecommendedDailyAmount.Equal(decimal.NewFromFloat(5)), "RecommendedDailyAmount is %s, expected 5", response.Data.RecommendedDailyAmount)
	require.NotNil(suite.T(), response.Data.RecommendedWeeklyAmount)
	require.NotNil(suite.T(), response.Data.RecommendedMonthlyAmount)

	// Without an assumed contribution there is no projected amount
	assert.Nil(suite.T(), response.Data.ProjectedAmount)

	// With an assumed contribution the projection is calculated
	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?monthlyContribution=100", g.Data.Links.Projection), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data.ProjectedAmount)
	require.NotNil(suite.T(), response.Data.Shortfall)
	assert.Nil(suite.T(), response.Data.Surplus)
}

// TestGoalsGetProjectionInvalidContribution verifies that an unparseable
// contribution returns a HTTP Bad Request.
func (suite *TestSuiteStandard) TestGoalsGetProjectionInvalidContribution() {
	g := createTestGoal(suite.T(), v1.GoalEditable{})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?monthlyContribution=aLot", g.Data.Links.Projection), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestGoalsCheck verifies the notification check endpoint and the history
// it writes.
func (suite *TestSuiteStandard) TestGoalsCheck() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	envelope := createTestEnvelope(suite.T(), v1.EnvelopeEditable{BudgetID: budget.Data.ID})
	g := createTestGoal(suite.T(), v1.GoalEditable{Name: "New TV", EnvelopeID: envelope.Data.ID, Amount: decimal.NewFromFloat(1000)})

	checkPath := fmt.Sprintf("http://example.com/v1/goals/%s/check", g.Data.ID)

	fundTestEnvelope(suite.T(), budget.Data.ID, envelope.Data.ID, 500)

	// The first check diffs against an empty goal: 0% -> 50% crosses the
	// 25% and 50% milestones
	r := test.Request(suite.T(), http.MethodPost, checkPath, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.GoalCheckResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), goal.EventTypeMilestone, response.Data[0].Type)
	require.NotNil(suite.T(), response.Data[0].MilestonePercentage)
	assert.Equal(suite.T(), 25, *response.Data[0].MilestonePercentage)
	require.NotNil(suite.T(), response.Data[1].MilestonePercentage)
	assert.Equal(suite.T(), 50, *response.Data[1].MilestonePercentage)
	assert.Equal(suite.T(), "New TV", response.Data[0].GoalName)

	// A check without changes triggers nothing, but records a snapshot
	r = test.Request(suite.T(), http.MethodPost, checkPath, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 0)

	// Full funding triggers the achievement and the missed milestone
	fundTestEnvelope(suite.T(), budget.Data.ID, envelope.Data.ID, 600)

	r = test.Request(suite.T(), http.MethodPost, checkPath, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), goal.EventTypeAchievement, response.Data[0].Type)
	assert.Equal(suite.T(), goal.EventTypeMilestone, response.Data[1].Type)
	require.NotNil(suite.T(), response.Data[1].MilestonePercentage)
	assert.Equal(suite.T(), 75, *response.Data[1].MilestonePercentage)

	// All checks are recorded in the history: two milestones, one
	// snapshot, the achievement and the 75% milestone
	r = test.Request(suite.T(), http.MethodGet, g.Data.Links.History, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var history v1.GoalHistoryResponse
	test.DecodeResponse(suite.T(), &r, &history)
	assert.Len(suite.T(), history.Data, 5)
}

// TestGoalsCheckPreferences verifies that disabled notification categories
// are not generated.
func (suite *TestSuiteStandard) TestGoalsCheckPreferences() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	envelope := createTestEnvelope(suite.T(), v1.EnvelopeEditable{BudgetID: budget.Data.ID})
	g := createTestGoal(suite.T(), v1.GoalEditable{EnvelopeID: envelope.Data.ID, Amount: decimal.NewFromFloat(1000)})

	fundTestEnvelope(suite.T(), budget.Data.ID, envelope.Data.ID, 500)

	body := v1.GoalCheckRequest{
		Preferences: &goal.NotificationPreferences{
			EnableAchievementNotifications: true,
			EnableMilestoneNotifications:   false,
			EnableWarningNotifications:     true,
		},
	}

	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/goals/%s/check", g.Data.ID), body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.GoalCheckResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 0)
}

// TestGoalsGetHistory verifies the history endpoint for goals without
// any recorded events.
func (suite *TestSuiteStandard) TestGoalsGetHistory() {
	g := createTestGoal(suite.T(), v1.GoalEditable{})

	r := test.Request(suite.T(), http.MethodGet, g.Data.Links.History, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var history v1.GoalHistoryResponse
	test.DecodeResponse(suite.T(), &r, &history)
	assert.Len(suite.T(), history.Data, 0)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/goals/%s/history", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
