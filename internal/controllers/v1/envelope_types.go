package v1

import (
	"fmt"

	"github.com/budgetnest/backend/internal/models"
	ez_uuid "github.com/budgetnest/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EnvelopeEditable struct {
	Name     string    `json:"name" example:"Groceries" default:""`                           // Name of the envelope
	Note     string    `json:"note" example:"For stuff bought at supermarkets" default:""`    // A longer description of the envelope
	BudgetID uuid.UUID `json:"budgetId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`       // ID of the budget the envelope belongs to
	Archived bool      `json:"archived" example:"true" default:"false"`                       // If this envelope is still in use or not
}

// model returns the database resource for the API representation of the editable fields
func (editable EnvelopeEditable) model() models.Envelope {
	return models.Envelope{
		Name:     editable.Name,
		Note:     editable.Note,
		BudgetID: editable.BudgetID,
		Archived: editable.Archived,
	}
}

type EnvelopeLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/envelopes/45b6b5b9-f746-4ae9-b77b-7688b91f8166"`                      // The envelope itself
	Budget       string `json:"budget" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                      // The budget this envelope belongs to
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?envelope=45b6b5b9-f746-4ae9-b77b-7688b91f8166"` // Transactions affecting this envelope
	Goals        string `json:"goals" example:"https://example.com/api/v1/goals?envelope=45b6b5b9-f746-4ae9-b77b-7688b91f8166"`               // Goals for this envelope
}

type Envelope struct {
	models.DefaultModel
	EnvelopeEditable
	Balance decimal.Decimal `json:"balance" example:"1000"` // Balance of the envelope, computed from its transactions
	Links   EnvelopeLinks   `json:"links"`
}

// newEnvelope returns the API v1 representation of the resource
func newEnvelope(c *gin.Context, model models.Envelope, balance decimal.Decimal) Envelope {
	url := c.GetString(string(models.DBContextURL))

	return Envelope{
		DefaultModel: model.DefaultModel,
		EnvelopeEditable: EnvelopeEditable{
			Name:     model.Name,
			Note:     model.Note,
			BudgetID: model.BudgetID,
			Archived: model.Archived,
		},
		Balance: balance,
		Links: EnvelopeLinks{
			Self:         fmt.Sprintf("%s/v1/envelopes/%s", url, model.ID),
			Budget:       fmt.Sprintf("%s/v1/budgets/%s", url, model.BudgetID),
			Transactions: fmt.Sprintf("%s/v1/transactions?envelope=%s", url, model.ID),
			Goals:        fmt.Sprintf("%s/v1/goals?envelope=%s", url, model.ID),
		},
	}
}

type EnvelopeListResponse struct {
	Data       []Envelope  `json:"data"`                                                          // List of envelopes
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type EnvelopeCreateResponse struct {
	Data  []EnvelopeResponse `json:"data"`                                                          // Data for the envelopes
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (e *EnvelopeCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, EnvelopeResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type EnvelopeResponse struct {
	Data  *Envelope `json:"data"`                                                          // Data for the envelope
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type EnvelopeQueryFilter struct {
	Name     string       `form:"name" filterField:"false"`   // By name
	Note     string       `form:"note" filterField:"false"`   // By note
	Search   string       `form:"search" filterField:"false"` // By string in name or note
	BudgetID ez_uuid.UUID `form:"budget"`                     // By ID of the budget
	Archived bool         `form:"archived"`                   // Is the envelope archived?
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first envelope returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of envelopes to return. Defaults to 50.
}

func (f EnvelopeQueryFilter) model() models.Envelope {
	// This does not set the string fields since they are
	// handled in the controller function
	return models.Envelope{
		BudgetID: f.BudgetID.UUID,
		Archived: f.Archived,
	}
}
