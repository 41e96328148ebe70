package v1

import (
	"fmt"

	"github.com/budgetnest/backend/internal/models"
	ez_uuid "github.com/budgetnest/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MatchRuleEditable struct {
	EnvelopeID uuid.UUID `json:"envelopeId" example:"f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"` // The envelope matching payees are mapped to
	Priority   uint      `json:"priority" example:"3"`                                      // The priority of the match rule, lower number wins
	Match      string    `json:"match" example:"Bank*"`                                     // The matching applied to the payee. The "*" character can be used as wildcard
}

// model returns the database resource for the API representation of the editable fields
func (editable MatchRuleEditable) model() models.MatchRule {
	return models.MatchRule{
		EnvelopeID: editable.EnvelopeID,
		Priority:   editable.Priority,
		Match:      editable.Match,
	}
}

type MatchRuleLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/match-rules/95685c82-53c6-455d-b235-f49960b73b54"`    // The match rule itself
	Envelope string `json:"envelope" example:"https://example.com/api/v1/envelopes/f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"` // The envelope this rule maps to
}

type MatchRule struct {
	models.DefaultModel
	MatchRuleEditable
	Links MatchRuleLinks `json:"links"`
}

// newMatchRule returns the API v1 representation of the resource
func newMatchRule(c *gin.Context, model models.MatchRule) MatchRule {
	url := c.GetString(string(models.DBContextURL))

	return MatchRule{
		DefaultModel: model.DefaultModel,
		MatchRuleEditable: MatchRuleEditable{
			EnvelopeID: model.EnvelopeID,
			Priority:   model.Priority,
			Match:      model.Match,
		},
		Links: MatchRuleLinks{
			Self:     fmt.Sprintf("%s/v1/match-rules/%s", url, model.ID),
			Envelope: fmt.Sprintf("%s/v1/envelopes/%s", url, model.EnvelopeID),
		},
	}
}

type MatchRuleListResponse struct {
	Data       []MatchRule `json:"data"`                                                          // List of match rules
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type MatchRuleCreateResponse struct {
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []MatchRuleResponse `json:"data"`                                                          // List of created match rules
}

func (m *MatchRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	m.Data = append(m.Data, MatchRuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type MatchRuleResponse struct {
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this match rule
	Data  *MatchRule `json:"data"`                                                          // The match rule data, if creation was successful
}

type MatchRuleQueryFilter struct {
	Priority   uint         `form:"priority"`                   // By priority
	Match      string       `form:"match" filterField:"false"`  // By match
	EnvelopeID ez_uuid.UUID `form:"envelope"`                   // By envelope ID
	Offset     uint         `form:"offset" filterField:"false"` // The offset of the first match rule returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`  // Maximum number of match rules to return. Defaults to 50.
}

func (f MatchRuleQueryFilter) model() models.MatchRule {
	return models.MatchRule{
		EnvelopeID: f.EnvelopeID.UUID,
		Priority:   f.Priority,
	}
}
