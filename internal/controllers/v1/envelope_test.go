package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budgetnest/backend/internal/controllers/v1"
	"github.com/budgetnest/backend/internal/models"
	"github.com/budgetnest/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// createTestEnvelope creates a test envelope via the v1 API.
func createTestEnvelope(t *testing.T, envelope v1.EnvelopeEditable, expectedStatus ...int) v1.EnvelopeResponse {
	if envelope.BudgetID == uuid.Nil {
		envelope.BudgetID = createTestBudget(t, v1.BudgetEditable{}).Data.ID
	}

	if envelope.Name == "" {
		envelope.Name = fmt.Sprintf("Envelope %s", uuid.NewString())
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	reqBody := []v1.EnvelopeEditable{envelope}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/envelopes", reqBody)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var er v1.EnvelopeCreateResponse
	test.DecodeResponse(t, &r, &er)

	return er.Data[0]
}

// TestEnvelopesOptions verifies that the HTTP OPTIONS response for /envelopes/{id} is correct.
func (suite *TestSuiteStandard) TestEnvelopesOptions() {
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
				return createTestEnvelope(suite.T(), v1.EnvelopeEditable{}).Data.Links.Self
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var p string
			if tt.pathFunc != nil {
				p = tt.pathFunc()
			} else {
				p = fmt.Sprintf("%s/%s", "http://example.com/v1/envelopes", tt.id)
			}

			r := test.Request(t, http.MethodOptions, p, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestEnvelopesCreate verifies envelope creation and its error handling.
func (suite *TestSuiteStandard) TestEnvelopesCreate() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})

	tests := []struct {
		name           string
		envelopes      []v1.EnvelopeEditable
		expectedStatus int
		expectedErrors []string // Errors expected for the individual envelopes
	}{
		{
			"One success, one fail",
			[]v1.EnvelopeEditable{
				{Name: "Non-existing budget", BudgetID: uuid.New()},
				{Name: "Groceries", BudgetID: budget.Data.ID},
			},
			http.StatusNotFound,
			[]string{
				"there is no budget matching your query",
				"",
			},
		},
		{
			"Duplicate name",
			[]v1.EnvelopeEditable{
				{Name: "Groceries", BudgetID: budget.Data.ID},
			},
			http.StatusBadRequest,
			[]string{
				models.ErrEnvelopeNameNotUnique.Error(),
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/envelopes", tt.envelopes)
			test.AssertHTTPStatus(t, &r, tt.expectedStatus)

			var er v1.EnvelopeCreateResponse
			test.DecodeResponse(t, &r, &er)

			for i, envelope := range er.Data {
				if tt.expectedErrors[i] == "" {
					assert.Equal(t, fmt.Sprintf("http://example.com/v1/envelopes/%s", envelope.Data.ID), envelope.Data.Links.Self)
				} else {
					assert.Equal(t, tt.expectedErrors[i], *envelope.Error)
				}
			}
		})
	}
}

// TestEnvelopesBalance verifies that the balance of an envelope is
// calculated from its transactions.
func (suite *TestSuiteStandard) TestEnvelopesBalance() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	envelope := createTestEnvelope(suite.T(), v1.EnvelopeEditable{BudgetID: budget.Data.ID})

	// A new envelope has no money in it
	assert.True(suite.T(), envelope.Data.Balance.IsZero(), "Balance is %s, expected 0", envelope.Data.Balance)

	eID := envelope.Data.ID
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		BudgetID:              budget.Data.ID,
		Type:                  models.TransactionTypeAllocation,
		DestinationEnvelopeID: &eID,
		Amount:                decimal.NewFromFloat(100),
	})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		BudgetID:         budget.Data.ID,
		Type:             models.TransactionTypeExpense,
		SourceEnvelopeID: &eID,
		Amount:           decimal.NewFromFloat(33.5),
	})

	r := test.Request(suite.T(), http.MethodGet, envelope.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.EnvelopeResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.Balance.Equal(decimal.NewFromFloat(66.5)), "Balance is %s, expected 66.5", response.Data.Balance)
}

// TestEnvelopesGetFilter verifies that filtering envelopes works as expected.
func (suite *TestSuiteStandard) TestEnvelopesGetFilter() {
	b1 := createTestBudget(suite.T(), v1.BudgetEditable{})
	b2 := createTestBudget(suite.T(), v1.BudgetEditable{})

	_ = createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Groceries", BudgetID: b1.Data.ID})
	_ = createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Rainy days", Note: "For the gutter", BudgetID: b1.Data.ID, Archived: true})
	_ = createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Groceries", BudgetID: b2.Data.ID})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Budget", fmt.Sprintf("budget=%s", b1.Data.ID), 2},
		{"Budget and name", fmt.Sprintf("budget=%s&name=Groceries", b2.Data.ID), 1},
		{"Fuzzy name", "name=Groceries", 2},
		{"Archived", "archived=true", 1},
		{"Not archived", "archived=false", 2},
		{"Search", "search=gutter", 1},
		{"Limit", "limit=1", 1},
		{"Offset", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.EnvelopeListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/envelopes?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

// TestEnvelopesUpdate verifies envelope updates.
func (suite *TestSuiteStandard) TestEnvelopesUpdate() {
	envelope := createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Old name"})

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
			"Non-existing budget",
			http.StatusNotFound,
			map[string]any{"budgetId": uuid.New()},
		},
		{
			"Invalid body",
			http.StatusBadRequest,
			`{ "name": 2" }`,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, envelope.Data.Links.Self, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestEnvelopesDelete verifies the correct success and error responses
// for DELETE requests.
func (suite *TestSuiteStandard) TestEnvelopesDelete() {
	tests := []struct {
		name   string // Name for the test
		status int    // Expected HTTP status
		id     string // String to use as ID.
	}{
		{
			"Standard deletion",
			http.StatusNoContent,
			createTestEnvelope(suite.T(), v1.EnvelopeEditable{}).Data.ID.String(),
		},
		{
			"Does not exist",
			http.StatusNotFound,
			"4bcb6d09-ced1-41e8-a3fe-bf4f16c5e501",
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			p := fmt.Sprintf("%s/%s", "http://example.com/v1/envelopes", tt.id)

			r := test.Request(t, http.MethodDelete, p, "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}
