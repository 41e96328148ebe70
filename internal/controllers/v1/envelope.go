package v1

import (
	"net/http"
	"time"

	"github.com/budgetnest/backend/internal/httputil"
	"github.com/budgetnest/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterEnvelopeRoutes registers the routes for envelopes with
// the RouterGroup that is passed.
func RegisterEnvelopeRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsEnvelopeList)
		r.GET("", GetEnvelopes)
		r.POST("", CreateEnvelopes)
	}

	// Envelope with ID
	{
		r.OPTIONS("/:id", OptionsEnvelopeDetail)
		r.GET("/:id", GetEnvelope)
		r.PATCH("/:id", UpdateEnvelope)
		r.DELETE("/:id", DeleteEnvelope)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Envelopes
// @Success		204
// @Router			/v1/envelopes [options]
func OptionsEnvelopeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Envelopes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/envelopes/{id} [options]
func OptionsEnvelopeDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Envelope{})
}

// @Summary		Create envelopes
// @Description	Creates new envelopes
// @Tags			Envelopes
// @Accept			json
// @Produce		json
// @Success		201			{object}	EnvelopeCreateResponse
// @Failure		400			{object}	EnvelopeCreateResponse
// @Failure		404			{object}	EnvelopeCreateResponse
// @Failure		500			{object}	EnvelopeCreateResponse
// @Param			envelopes	body		[]EnvelopeEditable	true	"Envelopes"
// @Router			/v1/envelopes [post]
func CreateEnvelopes(c *gin.Context) {
	var envelopes []EnvelopeEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &envelopes)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := EnvelopeCreateResponse{}

	for _, editable := range envelopes {
		envelope := editable.model()

		err = models.DB.Create(&envelope).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		// A new envelope has no transactions, the balance is always zero
		data := newEnvelope(c, envelope, decimal.Zero)
		r.Data = append(r.Data, EnvelopeResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List envelopes
// @Description	Returns a list of envelopes
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	EnvelopeListResponse
// @Failure		400	{object}	EnvelopeListResponse
// @Failure		500	{object}	EnvelopeListResponse
// @Router			/v1/envelopes [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			archived	query	bool	false	"Is the envelope archived?"
// @Param			budget		query	string	false	"Filter by budget ID"
// @Param			offset		query	uint	false	"The offset of the first envelope returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of envelopes to return. Defaults to 50."
func GetEnvelopes(c *gin.Context) {
	var filter EnvelopeQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, EnvelopeListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields set in the filter
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("name ASC").
		Where(filter.model(), queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 envelopes and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var envelopes []models.Envelope
	err := q.Find(&envelopes).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), EnvelopeListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeListResponse{
			Error: &e,
		})
		return
	}

	now := time.Now()
	data := make([]Envelope, 0, len(envelopes))
	for _, envelope := range envelopes {
		balance, err := envelope.Balance(models.DB, now)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), EnvelopeListResponse{
				Error: &s,
			})
			return
		}

		data = append(data, newEnvelope(c, envelope, balance))
	}

	c.JSON(http.StatusOK, EnvelopeListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get envelope
// @Description	Returns a specific envelope
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	EnvelopeResponse
// @Failure		400	{object}	EnvelopeResponse
// @Failure		404	{object}	EnvelopeResponse
// @Failure		500	{object}	EnvelopeResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/envelopes/{id} [get]
func GetEnvelope(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{
			Error: &e,
		})
		return
	}

	var envelope models.Envelope
	err = models.DB.First(&envelope, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{
			Error: &e,
		})
		return
	}

	balance, err := envelope.Balance(models.DB, time.Now())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{
			Error: &e,
		})
		return
	}

	data := newEnvelope(c, envelope, balance)
	c.JSON(http.StatusOK, EnvelopeResponse{Data: &data})
}

// @Summary		Update envelope
// @Description	Updates an existing envelope. Only values to be updated need to be specified.
// @Tags			Envelopes
// @Accept			json
// @Produce		json
// @Success		200			{object}	EnvelopeResponse
// @Failure		400			{object}	EnvelopeResponse
// @Failure		404			{object}	EnvelopeResponse
// @Failure		500			{object}	EnvelopeResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			envelope	body		EnvelopeEditable	true	"Envelope"
// @Router			/v1/envelopes/{id} [patch]
func UpdateEnvelope(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{
			Error: &e,
		})
		return
	}

	var envelope models.Envelope
	err = models.DB.First(&envelope, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{
			Error: &e,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, EnvelopeEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{
			Error: &e,
		})
		return
	}

	var data EnvelopeEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&envelope).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{
			Error: &e,
		})
		return
	}

	balance, err := envelope.Balance(models.DB, time.Now())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{
			Error: &e,
		})
		return
	}

	apiResource := newEnvelope(c, envelope, balance)
	c.JSON(http.StatusOK, EnvelopeResponse{Data: &apiResource})
}

// @Summary		Delete envelope
// @Description	Deletes an envelope
// @Tags			Envelopes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/envelopes/{id} [delete]
func DeleteEnvelope(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var envelope models.Envelope
	err = models.DB.First(&envelope, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&envelope).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
