package v1

import (
	"fmt"
	"time"

	"github.com/budgetnest/backend/internal/goal"
	"github.com/budgetnest/backend/internal/models"
	"github.com/budgetnest/backend/internal/types"
	ez_uuid "github.com/budgetnest/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoalEditable struct {
	Name       string          `json:"name" example:"New TV" default:""`                                                                              // Name of the goal
	Note       string          `json:"note" example:"We want to replace the old CRT TV soon-ish" default:""`                                          // Note about the goal
	EnvelopeID uuid.UUID       `json:"envelopeId" example:"f81566d9-af4d-4f13-9830-c62c4b5e4c7e"`                                                     // The ID of the envelope this goal is for
	Amount     decimal.Decimal `json:"amount" example:"750" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001" default:"0"` // How much money should be saved for this goal?
	TargetDate *types.Date     `json:"targetDate" example:"2024-12-01"`                                                                               // The day the goal should be reached, optional
	StartDate  *types.Date     `json:"startDate" example:"2024-01-01"`                                                                                // The day saving started. Defaults to the creation day
	Archived   bool            `json:"archived" example:"true" default:"false"`                                                                       // If this goal is still in use or not
}

// model returns the database resource for the API representation of the editable fields
func (editable GoalEditable) model() models.Goal {
	return models.Goal{
		Name:       editable.Name,
		Note:       editable.Note,
		EnvelopeID: editable.EnvelopeID,
		Amount:     editable.Amount,
		TargetDate: editable.TargetDate,
		StartDate:  editable.StartDate,
		Archived:   editable.Archived,
	}
}

type GoalLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c"`                // The goal itself
	Envelope   string `json:"envelope" example:"https://example.com/api/v1/envelopes/c1a96ae4-80e3-4827-8ed0-c7656f224fee"`        // The envelope this goal references
	Progress   string `json:"progress" example:"https://example.com/api/v1/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c/progress"`   // The progress calculation for this goal
	Projection string `json:"projection" example:"https://example.com/api/v1/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c/projection"` // The projection calculation for this goal
	History    string `json:"history" example:"https://example.com/api/v1/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c/history"`     // The event history for this goal
}

type Goal struct {
	models.DefaultModel
	GoalEditable
	Links GoalLinks `json:"links"`
}

// newGoal returns the API v1 representation of the resource
func newGoal(c *gin.Context, model models.Goal) Goal {
	url := c.GetString(string(models.DBContextURL))

	return Goal{
		DefaultModel: model.DefaultModel,
		GoalEditable: GoalEditable{
			Name:       model.Name,
			Note:       model.Note,
			EnvelopeID: model.EnvelopeID,
			Amount:     model.Amount,
			TargetDate: model.TargetDate,
			StartDate:  model.StartDate,
			Archived:   model.Archived,
		},
		Links: GoalLinks{
			Self:       fmt.Sprintf("%s/v1/goals/%s", url, model.ID),
			Envelope:   fmt.Sprintf("%s/v1/envelopes/%s", url, model.EnvelopeID),
			Progress:   fmt.Sprintf("%s/v1/goals/%s/progress", url, model.ID),
			Projection: fmt.Sprintf("%s/v1/goals/%s/projection", url, model.ID),
			History:    fmt.Sprintf("%s/v1/goals/%s/history", url, model.ID),
		},
	}
}

type GoalListResponse struct {
	Data       []Goal      `json:"data"`                                                          // List of goals
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type GoalCreateResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []GoalResponse `json:"data"`                                                          // List of created goals
}

func (t *GoalCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, GoalResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type GoalResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Goal   `json:"data"`                                                          // The goal
}

type GoalQueryFilter struct {
	BudgetID          ez_uuid.UUID    `form:"budget" filterField:"false"`            // By budget ID
	Name              string          `form:"name" filterField:"false"`              // By name
	Note              string          `form:"note" filterField:"false"`              // By the note
	Search            string          `form:"search" filterField:"false"`            // By string in name or note
	Archived          bool            `form:"archived"`                              // Is the goal archived?
	EnvelopeID        ez_uuid.UUID    `form:"envelope"`                              // ID of the envelope
	Amount            decimal.Decimal `form:"amount"`                                // Exact amount
	AmountLessOrEqual decimal.Decimal `form:"amountLessOrEqual" filterField:"false"` // Amount less than or equal to this
	AmountMoreOrEqual decimal.Decimal `form:"amountMoreOrEqual" filterField:"false"` // Amount more than or equal to this
	Offset            uint            `form:"offset" filterField:"false"`            // The offset of the first goal returned. Defaults to 0.
	Limit             int             `form:"limit" filterField:"false"`             // Maximum number of goals to return. Defaults to 50.
}

func (f GoalQueryFilter) model() models.Goal {
	// This does not set the string fields since they are
	// handled in the controller function
	return GoalEditable{
		EnvelopeID: f.EnvelopeID.UUID,
		Amount:     f.Amount,
		Archived:   f.Archived,
	}.model()
}

// GoalProgress is the full progress picture for a goal: the calculation
// result plus the milestone list and presentation hints.
type GoalProgress struct {
	goal.ProgressResult
	Milestones   []goal.Milestone `json:"milestones"`                      // The 25/50/75/100% milestones and whether they are achieved
	StatusColor  string           `json:"statusColor" example:"green"`     // Presentation hint: green, yellow or red
	StatusPhrase string           `json:"statusPhrase" example:"on track"` // Human readable status
}

type GoalProgressResponse struct {
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *GoalProgress `json:"data"`                                                          // The progress for the goal
}

type GoalProjectionResponse struct {
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *goal.ProjectionResult `json:"data"`                                                          // The projection for the goal
}

// GoalCheckRequest optionally overrides the notification policy for a
// single check. Omitted fields use the defaults.
type GoalCheckRequest struct {
	Preferences *goal.NotificationPreferences `json:"preferences"` // Which notification categories to generate
	Warnings    *goal.WarningThresholds       `json:"warnings"`    // When to warn about goals falling behind
}

type GoalCheckResponse struct {
	Error *string                  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []goal.NotificationEvent `json:"data"`                                                          // The notification events this check triggered
}

type GoalEventLinks struct {
	Goal string `json:"goal" example:"https://example.com/api/v1/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c"` // The goal this event belongs to
}

type GoalEventObject struct {
	models.DefaultModel
	GoalID              uuid.UUID        `json:"goalId" example:"438cc6c0-9baf-49fd-a75a-d76bd5cab19c"` // The ID of the goal
	EventType           string           `json:"eventType" example:"milestone"`                         // The type of the event
	EventDate           time.Time        `json:"eventDate" example:"2024-07-15T14:30:00Z"`              // When the event happened
	BalanceAtEvent      decimal.Decimal  `json:"balanceAtEvent" example:"500"`                          // The envelope balance when the event happened
	TargetAmountAtEvent decimal.Decimal  `json:"targetAmountAtEvent" example:"1000"`                    // The goal target when the event happened
	TargetDateAtEvent   *types.Date      `json:"targetDateAtEvent" example:"2024-12-01"`                // The target date when the event happened
	ProgressPercentage  float64          `json:"progressPercentage" example:"50"`                       // Progress when the event happened
	PreviousBalance     *decimal.Decimal `json:"previousBalance" example:"250"`                         // The balance at the previous event
	PreviousPercentage  *float64         `json:"previousPercentage" example:"25"`                       // The progress at the previous event
	MilestonePercentage *int             `json:"milestonePercentage" example:"50"`                      // Set for milestone events only
	Note                string           `json:"note" example:"'New TV' has passed 50% of its target."` // The notification message, if any
	Links               GoalEventLinks   `json:"links"`
}

// newGoalEvent returns the API v1 representation of the resource
func newGoalEvent(c *gin.Context, model models.GoalEvent) GoalEventObject {
	url := c.GetString(string(models.DBContextURL))

	return GoalEventObject{
		DefaultModel:        model.DefaultModel,
		GoalID:              model.GoalID,
		EventType:           model.EventType,
		EventDate:           model.EventDate,
		BalanceAtEvent:      model.BalanceAtEvent,
		TargetAmountAtEvent: model.TargetAmountAtEvent,
		TargetDateAtEvent:   model.TargetDateAtEvent,
		ProgressPercentage:  model.ProgressPercentage,
		PreviousBalance:     model.PreviousBalance,
		PreviousPercentage:  model.PreviousPercentage,
		MilestonePercentage: model.MilestonePercentage,
		Note:                model.Note,
		Links: GoalEventLinks{
			Goal: fmt.Sprintf("%s/v1/goals/%s", url, model.GoalID),
		},
	}
}

type GoalHistoryResponse struct {
	Data       []GoalEventObject `json:"data"`                                                          // The event history, oldest first
	Error      *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination       `json:"pagination"`                                                    // Pagination information
}
