package healthz

import (
	"net/http"

	"github.com/budgetnest/backend/internal/httputil"
	"github.com/budgetnest/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the routes for the healthz endpoint.
func RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", Get)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

type healthzError struct {
	Error string `json:"error" example:"the database cannot be accessed"`
}

// @Summary		Get health
// @Description	Returns the application health and, if not healthy, an error
// @Tags			General
// @Success		204
// @Failure		500	{object}	healthzError
// @Router			/healthz [get]
func Get(c *gin.Context) {
	sqlDB, err := models.DB.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, healthzError{
			Error: err.Error(),
		})
		return
	}

	err = sqlDB.Ping()
	if err != nil {
		c.JSON(http.StatusInternalServerError, healthzError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
