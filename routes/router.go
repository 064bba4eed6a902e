package routes

import (
	"debatehub/config"
	"debatehub/db"
	"debatehub/models"
	"debatehub/services"

	"github.com/gin-gonic/gin"
)

// Handler bundles the dependencies the route handlers share
type Handler struct {
	Cfg       *config.Config
	Store     db.Store
	Sessions  *services.SessionManager
	Evaluator *services.Evaluator
}

// respondError maps an application error to its HTTP status and surfaces
// the message verbatim.
func respondError(c *gin.Context, err error) {
	c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
}
