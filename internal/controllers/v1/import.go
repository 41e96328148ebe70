package v1

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/budgetnest/backend/internal/httputil"
	"github.com/budgetnest/backend/internal/importer"
	"github.com/budgetnest/backend/internal/models"
	ez_uuid "github.com/budgetnest/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
)

type ImportQuery struct {
	BudgetID ez_uuid.UUID `form:"budgetId" binding:"required"` // ID of the budget to import the transactions into
}

type ImportResponse struct {
	Error   *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data    []TransactionResponse `json:"data"`                                                          // The created transactions
	Skipped int                   `json:"skipped" example:"2"`                                           // Number of lines skipped because they were already imported
}

func (r *ImportResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

// getUploadedFile returns the form file and handles potential errors.
func getUploadedFile(c *gin.Context, suffix string) (multipart.File, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, errNoFilePost
	}

	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(formFile.Filename, suffix) {
		return nil, fmt.Errorf("%w: %s", errWrongFileSuffix, suffix)
	}

	f, err := formFile.Open()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// budgetMatchRules returns all match rules mapping to an active envelope
// of the budget, in priority order.
func budgetMatchRules(budgetID uuid.UUID) ([]models.MatchRule, error) {
	var matchRules []models.MatchRule
	err := models.DB.
		Joins("JOIN envelopes ON envelopes.id = match_rules.envelope_id AND NOT envelopes.archived").
		Where("envelopes.budget_id = ?", budgetID).
		Order("match_rules.priority ASC").
		Find(&matchRules).Error

	return matchRules, err
}

// match applies the match rules to a transaction preview.
func match(transaction *importer.TransactionPreview, rules []models.MatchRule) {
	for _, rule := range rules {
		// Rules are loaded from the database in priority order, the
		// first match wins
		if glob.Glob(rule.Match, transaction.Transaction.Payee) {
			envelopeID := rule.EnvelopeID
			transaction.MatchRuleID = rule.ID

			if transaction.Transaction.Type == models.TransactionTypeExpense {
				transaction.Transaction.SourceEnvelopeID = &envelopeID
			} else {
				transaction.Transaction.DestinationEnvelopeID = &envelopeID
			}
			return
		}
	}
}

// findEnvelope resolves the envelope named in the CSV file to its ID.
func findEnvelope(transaction *importer.TransactionPreview, budgetID uuid.UUID) error {
	var envelope models.Envelope
	err := models.DB.Where(models.Envelope{
		Name:     transaction.EnvelopeName,
		BudgetID: budgetID,
	},
		// Envelope names are unique per budget, only one can match
		"Name", "BudgetID").First(&envelope).Error
	if err != nil {
		return err
	}

	if transaction.Transaction.Type == models.TransactionTypeExpense {
		transaction.Transaction.SourceEnvelopeID = &envelope.ID
	} else {
		transaction.Transaction.DestinationEnvelopeID = &envelope.ID
	}

	return nil
}

// duplicateTransactions finds duplicate transactions by their import hash. For all input resources,
// existing resources with the same import hash are searched. If any exist, their IDs are set in the
// DuplicateTransactionIDs field.
func duplicateTransactions(transaction *importer.TransactionPreview, budgetID uuid.UUID) error {
	var duplicates []models.Transaction
	err := models.DB.
		Where(models.Transaction{
			ImportHash: transaction.Transaction.ImportHash,
			BudgetID:   budgetID,
		}, "ImportHash", "BudgetID").
		Find(&duplicates).Error
	if err != nil {
		return err
	}

	// When there are no resources, we want an empty list, not null
	duplicateIDs := make([]uuid.UUID, 0, len(duplicates))
	for _, duplicate := range duplicates {
		duplicateIDs = append(duplicateIDs, duplicate.ID)
	}
	transaction.DuplicateTransactionIDs = duplicateIDs

	return nil
}

// RegisterImportRoutes registers the routes for imports.
func RegisterImportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsImport)
	r.POST("", ImportTransactions)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs.
// @Tags			Import
// @Success		204
// @Router			/v1/import [options]
func OptionsImport(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Import transactions
// @Description	Imports transactions from a CSV file into a budget. Match rules map payees to envelopes, lines that were already imported are skipped.
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		201			{object}	ImportResponse
// @Failure		400			{object}	ImportResponse
// @Failure		404			{object}	ImportResponse
// @Failure		500			{object}	ImportResponse
// @Param			file		formData	file		true	"File to import"
// @Param			budgetId	query		ImportQuery	false	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/import [post]
func ImportTransactions(c *gin.Context) {
	var query ImportQuery
	err := c.BindQuery(&query)
	if err != nil {
		s := fmt.Errorf("budgetId: %w", err).Error()
		c.JSON(http.StatusBadRequest, ImportResponse{
			Error: &s,
		})
		return
	}

	if query.BudgetID == ez_uuid.Nil {
		s := errBudgetIDParameter.Error()
		c.JSON(http.StatusBadRequest, ImportResponse{
			Error: &s,
		})
		return
	}

	f, err := getUploadedFile(c, ".csv")
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportResponse{
			Error: &s,
		})
		return
	}

	// Verify that the budget exists
	var budget models.Budget
	err = models.DB.First(&budget, query.BudgetID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportResponse{
			Error: &s,
		})
		return
	}

	transactions, err := importer.Parse(f, budget)
	if err != nil {
		// importer.Parse returns a usable error already, no mapping necessary
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportResponse{
			Error: &s,
		})
		return
	}

	matchRules, err := budgetMatchRules(budget.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportResponse{
			Error: &s,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	responseStatus := http.StatusCreated
	r := ImportResponse{Data: make([]TransactionResponse, 0, len(transactions))}

	for _, transaction := range transactions {
		// An envelope named in the file wins over the match rules
		if transaction.EnvelopeName != "" {
			err = findEnvelope(&transaction, budget.ID)
			if err != nil {
				responseStatus = r.appendError(err, responseStatus)
				continue
			}
		} else if len(matchRules) > 0 {
			match(&transaction, matchRules)
		}

		err = duplicateTransactions(&transaction, budget.ID)
		if err != nil {
			responseStatus = r.appendError(err, responseStatus)
			continue
		}

		if len(transaction.DuplicateTransactionIDs) > 0 {
			r.Skipped++
			continue
		}

		model := transaction.Transaction
		err = models.DB.Create(&model).Error
		if err != nil {
			responseStatus = r.appendError(err, responseStatus)
			continue
		}

		data := newTransaction(c, model)
		r.Data = append(r.Data, TransactionResponse{Data: &data})
	}

	c.JSON(responseStatus, r)
}
