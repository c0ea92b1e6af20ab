package roofingprice

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roofestimator/internal/backend"
	"roofestimator/internal/middleware"
	"roofestimator/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/roofing-prices", h.GetPrices)
	rg.PATCH("/roofing-prices", h.UpdatePrices)
}

// GetPrices handles GET /roofing-prices
func (h *Handler) GetPrices(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Account not loaded")
		return
	}
	form, err := h.service.Get(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, form)
}

// UpdatePrices handles PATCH /roofing-prices
func (h *Handler) UpdatePrices(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Account not loaded")
		return
	}
	var form Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	updated, err := h.service.Update(c.Request.Context(), user.ID, form)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

func writeError(c *gin.Context, err error) {
	var formErr *FormError
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &formErr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), formErr.Fields)
	case errors.Is(err, ErrNoPriceSheet):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &apiErr):
		_ = c.Error(err)
		response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process roofing prices")
	}
}
