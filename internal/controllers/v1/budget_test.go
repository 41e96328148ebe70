package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budgetnest/backend/internal/controllers/v1"
	"github.com/budgetnest/backend/internal/models"
	"github.com/budgetnest/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// createTestBudget creates a test budget via the v1 API.
func createTestBudget(t *testing.T, budget v1.BudgetEditable, expectedStatus ...int) v1.BudgetResponse {
	if budget.Name == "" {
		budget.Name = fmt.Sprintf("Budget %s", uuid.NewString())
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	reqBody := []v1.BudgetEditable{budget}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/budgets", reqBody)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var br v1.BudgetCreateResponse
	test.DecodeResponse(t, &r, &br)

	return br.Data[0]
}

// TestBudgetsOptions verifies that the HTTP OPTIONS response for /budgets/{id} is correct.
func (suite *TestSuiteStandard) TestBudgetsOptions() {
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
				return createTestBudget(suite.T(), v1.BudgetEditable{}).Data.Links.Self
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var p string
			if tt.pathFunc != nil {
				p = tt.pathFunc()
			} else {
				p = fmt.Sprintf("%s/%s", "http://example.com/v1/budgets", tt.id)
			}

			r := test.Request(t, http.MethodOptions, p, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestBudgetsDatabaseError verifies that the endpoints return the appropriate
// error when the database is disconnected.
func (suite *TestSuiteStandard) TestBudgetsDatabaseError() {
	tests := []struct {
		name   string // Name of the test
		path   string // Path to send request to
		method string // HTTP method to use
		body   string // The request body
	}{
		{"GET Collection", "", http.MethodGet, ""},
		{"OPTIONS Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodOptions, ""},
		{"GET Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodGet, ""},
		{"PATCH Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodPatch, ""},
		{"DELETE Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodDelete, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			recorder := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/budgets%s", tt.path), tt.body)
			test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

			var response v1.BudgetListResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Equal(t, models.ErrGeneral.Error(), *response.Error)
		})
	}
}

// TestBudgetsCreate verifies that budget creation works, including the
// error handling for individual budgets.
func (suite *TestSuiteStandard) TestBudgetsCreate() {
	tests := []struct {
		name           string
		budgets        []v1.BudgetEditable
		expectedStatus int
		expectedErrors []string // Errors expected for the individual budgets
	}{
		{
			"One success, one fail",
			[]v1.BudgetEditable{
				{Name: ""},
				{Name: "Besides the big oak", Currency: "NOK"},
			},
			http.StatusBadRequest,
			[]string{
				models.ErrBudgetNameNotSet.Error(),
				"",
			},
		},
		{
			"Invalid currency",
			[]v1.BudgetEditable{
				{Name: "Gold pieces", Currency: "Gold"},
			},
			http.StatusBadRequest,
			[]string{
				models.ErrBudgetCurrencyInvalid.Error(),
			},
		},
		{
			"Both succeed",
			[]v1.BudgetEditable{
				{Name: "Home sweet home"},
				{Name: "The beach house", Currency: "usd"},
			},
			http.StatusCreated,
			[]string{
				"",
				"",
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/budgets", tt.budgets)
			test.AssertHTTPStatus(t, &r, tt.expectedStatus)

			var br v1.BudgetCreateResponse
			test.DecodeResponse(t, &r, &br)

			for i, budget := range br.Data {
				if tt.expectedErrors[i] == "" {
					assert.Equal(t, fmt.Sprintf("http://example.com/v1/budgets/%s", budget.Data.ID), budget.Data.Links.Self)
				} else {
					assert.Equal(t, tt.expectedErrors[i], *budget.Error)
				}
			}
		})
	}
}

// TestBudgetsCreateCurrencyCanonical verifies that currency codes are
// stored upper case.
func (suite *TestSuiteStandard) TestBudgetsCreateCurrencyCanonical() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{Currency: "usd"})
	assert.Equal(suite.T(), "USD", budget.Data.Currency)
}

// TestBudgetsGetFilter verifies that filtering budgets works as expected.
func (suite *TestSuiteStandard) TestBudgetsGetFilter() {
	_ = createTestBudget(suite.T(), v1.BudgetEditable{Name: "Exact String Match", Currency: "EUR"})
	_ = createTestBudget(suite.T(), v1.BudgetEditable{Name: "Another String", Note: "Important info!", Currency: "USD"})
	_ = createTestBudget(suite.T(), v1.BudgetEditable{Name: "Another String", Note: "The second one", Currency: "EUR"})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Currency", "currency=EUR", 2},
		{"Currency and name", "currency=EUR&name=Another String", 1},
		{"Fuzzy name", "name=String", 3},
		{"Fuzzy note", "note=one", 1},
		{"Empty note", "note=", 1},
		{"Search in name", "search=Exact", 1},
		{"Search in note", "search=info", 1},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.BudgetListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/budgets?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

// TestBudgetsGetSingle verifies that a budget can be read from the API via its link.
func (suite *TestSuiteStandard) TestBudgetsGetSingle() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{Name: "Get single"})

	r := test.Request(suite.T(), http.MethodGet, budget.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "Get single", response.Data.Name)
}

// TestBudgetsUpdate verifies that budget updates are successful.
func (suite *TestSuiteStandard) TestBudgetsUpdate() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{Name: "Oh my", Note: "This is going to change"})

	r := test.Request(suite.T(), http.MethodPatch, budget.Data.Links.Self, map[string]any{
		"note": "",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "", updated.Data.Note)
	assert.Equal(suite.T(), "Oh my", updated.Data.Name)
}

// TestBudgetsUpdateFail verifies that budget updates fail where they should.
func (suite *TestSuiteStandard) TestBudgetsUpdateFail() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{Name: "Update fails"})

	tests := []struct {
		name string // Name for the test
		body any    // Body to send to the PATCH endpoint
	}{
		{
			"Invalid body",
			`{ "name": 2" }`,
		},
		{
			"Empty name",
			map[string]any{"name": ""},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, budget.Data.Links.Self, tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

// TestBudgetsDelete verifies the correct success and error responses
// for DELETE requests.
func (suite *TestSuiteStandard) TestBudgetsDelete() {
	tests := []struct {
		name   string // Name for the test
		status int    // Expected HTTP status
		id     string // String to use as ID.
	}{
		{
			"Standard deletion",
			http.StatusNoContent,
			createTestBudget(suite.T(), v1.BudgetEditable{}).Data.ID.String(),
		},
		{
			"Does not exist",
			http.StatusNotFound,
			"4bcb6d09-ced1-41e8-a3fe-bf4f16c5e501",
		},
		{
			"Null budget",
			http.StatusNotFound,
			"00000000-0000-0000-0000-000000000000",
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			p := fmt.Sprintf("%s/%s", "http://example.com/v1/budgets", tt.id)

			r := test.Request(t, http.MethodDelete, p, "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}
