package v1

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/budgetnest/backend/internal/goal"
	"github.com/budgetnest/backend/internal/httputil"
	"github.com/budgetnest/backend/internal/models"
	ez_uuid "github.com/budgetnest/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterGoalRoutes registers the routes for goals with
// the RouterGroup that is passed.
func RegisterGoalRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsGoals)
		r.GET("", GetGoals)
		r.POST("", CreateGoals)
	}

	// Goal with ID
	{
		r.OPTIONS("/:id", OptionsGoalDetail)
		r.GET("/:id", GetGoal)
		r.PATCH("/:id", UpdateGoal)
		r.DELETE("/:id", DeleteGoal)
	}

	// Calculated endpoints
	{
		r.OPTIONS("/:id/progress", OptionsGoalProgress)
		r.GET("/:id/progress", GetGoalProgress)
		r.OPTIONS("/:id/projection", OptionsGoalProjection)
		r.GET("/:id/projection", GetGoalProjection)
		r.OPTIONS("/:id/check", OptionsGoalCheck)
		r.POST("/:id/check", CheckGoal)
		r.OPTIONS("/:id/history", OptionsGoalHistory)
		r.GET("/:id/history", GetGoalHistory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Router			/v1/goals [options]
func OptionsGoals(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [options]
func OptionsGoalDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Goal{})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id}/progress [options]
func OptionsGoalProgress(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id}/projection [options]
func OptionsGoalProjection(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id}/check [options]
func OptionsGoalCheck(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id}/history [options]
func OptionsGoalHistory(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Create goals
// @Description	Creates new goals
// @Tags			Goals
// @Produce		json
// @Success		201		{object}	GoalCreateResponse
// @Failure		400		{object}	GoalCreateResponse
// @Failure		404		{object}	GoalCreateResponse
// @Failure		500		{object}	GoalCreateResponse
// @Param			goals	body		[]GoalEditable	true	"Goals"
// @Router			/v1/goals [post]
func CreateGoals(c *gin.Context) {
	var goals []GoalEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &goals)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := GoalCreateResponse{}

	for _, create := range goals {
		g := create.model()
		err = models.DB.Create(&g).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		// Transform for the API and append
		apiResource := newGoal(c, g)
		r.Data = append(r.Data, GoalResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get goals
// @Description	Returns a list of goals
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalListResponse
// @Failure		400	{object}	GoalListResponse
// @Failure		500	{object}	GoalListResponse
// @Router			/v1/goals [get]
// @Param			name				query	string	false	"Filter by name"
// @Param			note				query	string	false	"Filter by note"
// @Param			search				query	string	false	"Search for this text in name and note"
// @Param			archived			query	bool	false	"Is the goal archived?"
// @Param			envelope			query	string	false	"Filter by envelope ID"
// @Param			budget				query	string	false	"Filter by budget ID"
// @Param			amount				query	string	false	"Filter by amount"
// @Param			amountLessOrEqual	query	string	false	"Amount less than or equal to this"
// @Param			amountMoreOrEqual	query	string	false	"Amount more than or equal to this"
// @Param			offset				query	uint	false	"The offset of the first goal returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of goal to return. Defaults to 50."
func GetGoals(c *gin.Context) {
	var filter GoalQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, GoalListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("date(goals.target_date) ASC, goals.name ASC").
		Where(filter.model(), queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 goals and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	if !filter.AmountLessOrEqual.IsZero() {
		q = q.Where("goals.amount <= ?", filter.AmountLessOrEqual)
	}

	if !filter.AmountMoreOrEqual.IsZero() {
		q = q.Where("goals.amount >= ?", filter.AmountMoreOrEqual)
	}

	if filter.BudgetID != ez_uuid.Nil {
		q = q.
			Joins("JOIN envelopes on envelopes.id = goals.envelope_id").
			Where("envelopes.budget_id = ?", filter.BudgetID.UUID)
	}

	var goals []models.Goal
	err := q.Find(&goals).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{
			Error: &e,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]Goal, 0, len(goals))
	for _, g := range goals {
		data = append(data, newGoal(c, g))
	}

	c.JSON(http.StatusOK, GoalListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get goal
// @Description	Returns a specific goal
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalResponse
// @Failure		400	{object}	GoalResponse
// @Failure		404	{object}	GoalResponse
// @Failure		500	{object}	GoalResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [get]
func GetGoal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	var g models.Goal
	err = models.DB.First(&g, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	apiResource := newGoal(c, g)
	c.JSON(http.StatusOK, GoalResponse{Data: &apiResource})
}

// @Summary		Update goal
// @Description	Updates an existing goal. Only values to be updated need to be specified.
// @Tags			Goals
// @Accept			json
// @Produce		json
// @Success		200		{object}	GoalResponse
// @Failure		400		{object}	GoalResponse
// @Failure		404		{object}	GoalResponse
// @Failure		500		{object}	GoalResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			goal	body		GoalEditable	true	"Goal"
// @Router			/v1/goals/{id} [patch]
func UpdateGoal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	var g models.Goal
	err = models.DB.First(&g, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, GoalEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	// Bind the data for the patch
	var data GoalEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&g).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	apiResource := newGoal(c, g)
	c.JSON(http.StatusOK, GoalResponse{Data: &apiResource})
}

// @Summary		Delete goal
// @Description	Deletes a goal
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [delete]
func DeleteGoal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var g models.Goal
	err = models.DB.First(&g, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&g).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// goalProgressInput builds the engine input for a goal from the current
// balance of its envelope.
func goalProgressInput(g models.Goal, now time.Time) (goal.ProgressInput, error) {
	var envelope models.Envelope
	err := models.DB.First(&envelope, g.EnvelopeID).Error
	if err != nil {
		return goal.ProgressInput{}, err
	}

	balance, err := envelope.Balance(models.DB, now)
	if err != nil {
		return goal.ProgressInput{}, err
	}

	return goal.ProgressInput{
		CurrentAmount: balance,
		TargetAmount:  g.Amount,
		TargetDate:    g.TargetDate,
		StartDate:     g.StartDate,
	}, nil
}

// @Summary		Get goal progress
// @Description	Returns the progress calculation for a goal, including milestones and status
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalProgressResponse
// @Failure		400	{object}	GoalProgressResponse
// @Failure		404	{object}	GoalProgressResponse
// @Failure		500	{object}	GoalProgressResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id}/progress [get]
func GetGoalProgress(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalProgressResponse{
			Error: &e,
		})
		return
	}

	var g models.Goal
	err = models.DB.First(&g, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalProgressResponse{
			Error: &e,
		})
		return
	}

	now := time.Now()
	input, err := goalProgressInput(g, now)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalProgressResponse{
			Error: &e,
		})
		return
	}

	result, err := goal.CalculateProgress(input, now)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, GoalProgressResponse{
			Error: &e,
		})
		return
	}

	data := GoalProgress{
		ProgressResult: result,
		Milestones:     goal.Milestones(result),
		StatusColor:    goal.StatusColor(result),
		StatusPhrase:   goal.StatusPhrase(result),
	}
	c.JSON(http.StatusOK, GoalProgressResponse{Data: &data})
}

// @Summary		Get goal projection
// @Description	Returns the projection for a goal: recommended contributions and, when a monthly contribution is given, the projected amount at the target date
// @Tags			Goals
// @Produce		json
// @Success		200					{object}	GoalProjectionResponse
// @Failure		400					{object}	GoalProjectionResponse
// @Failure		404					{object}	GoalProjectionResponse
// @Failure		500					{object}	GoalProjectionResponse
// @Param			id					path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			monthlyContribution	query		string	false	"Assumed contribution per month"
// @Router			/v1/goals/{id}/projection [get]
func GetGoalProjection(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalProjectionResponse{
			Error: &e,
		})
		return
	}

	var g models.Goal
	err = models.DB.First(&g, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalProjectionResponse{
			Error: &e,
		})
		return
	}

	var contribution *decimal.Decimal
	if raw, ok := c.GetQuery("monthlyContribution"); ok {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, GoalProjectionResponse{
				Error: &e,
			})
			return
		}
		contribution = &parsed
	}

	now := time.Now()
	input, err := goalProgressInput(g, now)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalProjectionResponse{
			Error: &e,
		})
		return
	}

	result, err := goal.CalculateProjection(goal.ProjectionInput{
		ProgressInput:       input,
		MonthlyContribution: contribution,
	}, now)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, GoalProjectionResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, GoalProjectionResponse{Data: &result})
}

// @Summary		Check goal
// @Description	Recomputes the progress for a goal, diffs it against the last recorded snapshot, returns the triggered notification events and appends them to the goal history
// @Tags			Goals
// @Accept			json
// @Produce		json
// @Success		200		{object}	GoalCheckResponse
// @Failure		400		{object}	GoalCheckResponse
// @Failure		404		{object}	GoalCheckResponse
// @Failure		500		{object}	GoalCheckResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			config	body		GoalCheckRequest	false	"Notification policy overrides"
// @Router			/v1/goals/{id}/check [post]
func CheckGoal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalCheckResponse{
			Error: &e,
		})
		return
	}

	var g models.Goal
	err = models.DB.First(&g, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalCheckResponse{
			Error: &e,
		})
		return
	}

	// The body is optional, the defaults are used when it is empty
	config := goal.DefaultCheckConfig()
	if c.Request.ContentLength > 0 {
		var request GoalCheckRequest
		err = httputil.BindData(c, &request)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), GoalCheckResponse{
				Error: &e,
			})
			return
		}

		if request.Preferences != nil {
			config.Preferences = *request.Preferences
		}
		if request.Warnings != nil {
			config.Warnings = *request.Warnings
		}
	}
	config.PickTemplate = rand.Intn

	now := time.Now()
	input, err := goalProgressInput(g, now)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalCheckResponse{
			Error: &e,
		})
		return
	}

	current, err := goal.CalculateProgress(input, now)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, GoalCheckResponse{
			Error: &e,
		})
		return
	}

	// The previous snapshot comes from the goal history. The first check
	// diffs against an empty goal so that already funded goals trigger
	// their events.
	lastEvent, found, err := models.LatestGoalEvent(models.DB, g.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalCheckResponse{
			Error: &e,
		})
		return
	}

	var previous goal.ProgressResult
	if found {
		previous, err = goal.CalculateProgress(goal.ProgressInput{
			CurrentAmount: lastEvent.BalanceAtEvent,
			TargetAmount:  lastEvent.TargetAmountAtEvent,
			TargetDate:    lastEvent.TargetDateAtEvent,
			StartDate:     g.StartDate,
		}, lastEvent.EventDate)
	} else {
		previous, err = goal.CalculateProgress(goal.ProgressInput{
			CurrentAmount: decimal.Zero,
			TargetAmount:  g.Amount,
			TargetDate:    g.TargetDate,
			StartDate:     g.StartDate,
		}, now)
	}
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, GoalCheckResponse{
			Error: &e,
		})
		return
	}

	events := goal.CheckAchievements(current, previous, g.Name, g.ID.String(), config)

	// Record the check in the goal history. Checks without events write a
	// plain progress snapshot so the next diff starts from here.
	var previousBalance *decimal.Decimal
	var previousPercentage *float64
	if found {
		previousBalance = &lastEvent.BalanceAtEvent
		previousPercentage = &lastEvent.ProgressPercentage
	}

	snapshot := models.GoalEvent{
		GoalID:              g.ID,
		EventDate:           now,
		BalanceAtEvent:      input.CurrentAmount,
		TargetAmountAtEvent: g.Amount,
		TargetDateAtEvent:   g.TargetDate,
		ProgressPercentage:  current.ProgressPercentage,
		PreviousBalance:     previousBalance,
		PreviousPercentage:  previousPercentage,
	}

	if len(events) == 0 {
		entry := snapshot
		entry.EventType = "progress"
		err = models.DB.Create(&entry).Error
		if err != nil {
			e := err.Error()
			c.JSON(status(err), GoalCheckResponse{
				Error: &e,
			})
			return
		}
	}

	for _, event := range events {
		entry := snapshot
		entry.EventType = string(event.Type)
		entry.MilestonePercentage = event.MilestonePercentage
		entry.Note = event.Message

		err = models.DB.Create(&entry).Error
		if err != nil {
			e := err.Error()
			c.JSON(status(err), GoalCheckResponse{
				Error: &e,
			})
			return
		}
	}

	// When there are no events, we want an empty list, not null
	data := make([]goal.NotificationEvent, 0, len(events))
	data = append(data, events...)

	c.JSON(http.StatusOK, GoalCheckResponse{Data: data})
}

// @Summary		Get goal history
// @Description	Returns the event history for a goal, oldest first
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalHistoryResponse
// @Failure		400	{object}	GoalHistoryResponse
// @Failure		404	{object}	GoalHistoryResponse
// @Failure		500	{object}	GoalHistoryResponse
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			offset	query	uint	false	"The offset of the first event returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of events to return. Defaults to 50."
// @Router			/v1/goals/{id}/history [get]
func GetGoalHistory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalHistoryResponse{
			Error: &e,
		})
		return
	}

	var g models.Goal
	err = models.DB.First(&g, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalHistoryResponse{
			Error: &e,
		})
		return
	}

	var filter struct {
		Offset uint `form:"offset"`
		Limit  int  `form:"limit"`
	}
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, GoalHistoryResponse{
			Error: &s,
		})
		return
	}

	limit := 50
	if c.Request.URL.Query().Has("limit") {
		limit = filter.Limit
	}

	q := models.DB.
		Where(&models.GoalEvent{GoalID: g.ID}).
		Order("event_date ASC, created_at ASC").
		Offset(int(filter.Offset)).
		Limit(limit)

	var history []models.GoalEvent
	err = q.Find(&history).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalHistoryResponse{
			Error: &e,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalHistoryResponse{
			Error: &e,
		})
		return
	}

	data := make([]GoalEventObject, 0, len(history))
	for _, event := range history {
		data = append(data, newGoalEvent(c, event))
	}

	c.JSON(http.StatusOK, GoalHistoryResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}
