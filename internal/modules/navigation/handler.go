package navigation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roofestimator/internal/pkg/response"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/breadcrumbs", h.Breadcrumbs)
}

func (h *Handler) Breadcrumbs(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "path is required")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"breadcrumbs": Build(path)})
}
