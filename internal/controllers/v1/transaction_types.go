package v1

import (
	"fmt"
	"time"

	"github.com/budgetnest/backend/internal/models"
	ez_uuid "github.com/budgetnest/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionEditable struct {
	BudgetID              uuid.UUID              `json:"budgetId" example:"55eecbd8-7c46-4b06-ada9-f287802fb05e"`                                                       // ID of the budget
	Type                  models.TransactionType `json:"type" example:"expense" default:"expense"`                                                                      // Type of the transaction
	SourceEnvelopeID      *uuid.UUID             `json:"sourceEnvelopeId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45"`                                               // ID of the envelope money is taken from
	DestinationEnvelopeID *uuid.UUID             `json:"destinationEnvelopeId" example:"8e16b456-a719-48ce-9fec-e115cfa7cbcc"`                                          // ID of the envelope money goes to
	Date                  time.Time              `json:"date" example:"1815-12-10T18:43:00.271152Z"`                                                                    // Date of the transaction. Time is currently only used for sorting
	Amount                decimal.Decimal        `json:"amount" example:"14.03" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001" default:"0"` // The amount for the transaction
	Payee                 string                 `json:"payee" example:"Supermarket" default:""`                                                                        // The counterparty of the transaction
	Note                  string                 `json:"note" example:"Weekly groceries" default:""`                                                                    // A note
}

// model returns the database resource for the API representation of the editable fields
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		BudgetID:              editable.BudgetID,
		Type:                  editable.Type,
		SourceEnvelopeID:      editable.SourceEnvelopeID,
		DestinationEnvelopeID: editable.DestinationEnvelopeID,
		Date:                  editable.Date,
		Amount:                editable.Amount,
		Payee:                 editable.Payee,
		Note:                  editable.Note,
	}
}

type TransactionLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
	Budget string `json:"budget" example:"https://example.com/api/v1/budgets/55eecbd8-7c46-4b06-ada9-f287802fb05e"`    // The budget this transaction belongs to
}

type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`
}

// newTransaction returns the API v1 representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			BudgetID:              model.BudgetID,
			Type:                  model.Type,
			SourceEnvelopeID:      model.SourceEnvelopeID,
			DestinationEnvelopeID: model.DestinationEnvelopeID,
			Date:                  model.Date,
			Amount:                model.Amount,
			Payee:                 model.Payee,
			Note:                  model.Note,
		},
		Links: TransactionLinks{
			Self:   fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
			Budget: fmt.Sprintf("%s/v1/budgets/%s", url, model.BudgetID),
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TransactionResponse `json:"data"`                                                          // List of created transactions
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this transaction
	Data  *Transaction `json:"data"`                                                          // The transaction data, if creation was successful
}

type TransactionQueryFilter struct {
	BudgetID          ez_uuid.UUID           `form:"budget"`                                // By budget ID
	Type              models.TransactionType `form:"type"`                                  // By transaction type
	EnvelopeID        ez_uuid.UUID           `form:"envelope" filterField:"false"`          // By envelope, on either side of the transaction
	Payee             string                 `form:"payee" filterField:"false"`             // By payee
	Note              string                 `form:"note" filterField:"false"`              // By note
	FromDate          time.Time              `form:"fromDate" filterField:"false"`          // Transactions at or after this date
	UntilDate         time.Time              `form:"untilDate" filterField:"false"`         // Transactions before and at this date
	Amount            decimal.Decimal        `form:"amount"`                                // Exact amount
	AmountLessOrEqual decimal.Decimal        `form:"amountLessOrEqual" filterField:"false"` // Amount less than or equal to this
	AmountMoreOrEqual decimal.Decimal        `form:"amountMoreOrEqual" filterField:"false"` // Amount more than or equal to this
	Offset            uint                   `form:"offset" filterField:"false"`            // The offset of the first transaction returned. Defaults to 0.
	Limit             int                    `form:"limit" filterField:"false"`             // Maximum number of transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() models.Transaction {
	return models.Transaction{
		BudgetID: f.BudgetID.UUID,
		Type:     f.Type,
		Amount:   f.Amount,
	}
}
