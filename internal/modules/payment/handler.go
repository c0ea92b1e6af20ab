package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roofestimator/internal/middleware"
	"roofestimator/internal/pkg/response"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/secure-payment/intent", h.CreateIntent)
	rg.POST("/secure-payment/confirm", h.Confirm)
}

// CreateIntent godoc
// @Summary      Start card setup
// @Description  Creates a setup intent through the backend and returns its client secret
// @Tags         Payments
// @Produce      json
// @Success      200 {object} IntentResponse
// @Failure      401 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /secure-payment/intent [post]
func (h *Handler) CreateIntent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Account not loaded")
		return
	}
	resp, err := h.service.Intent(c.Request.Context(), user.ID)
	if err != nil {
		h.loggerf("level=error msg=setup intent init failed user_id=%d err=%v", user.ID, err)
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// Confirm godoc
// @Summary      Finish card setup
// @Description  Verifies the setup intent succeeded and stores its payment method
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        body body ConfirmRequest true "Setup intent client secret"
// @Success      200 {object} ConfirmResponse
// @Failure      400 {object} ErrorResponse
// @Failure      402 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /secure-payment/confirm [post]
func (h *Handler) Confirm(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Account not loaded")
		return
	}
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Body must contain client_secret")
		return
	}
	resp, err := h.service.Confirm(c.Request.Context(), user.ID, req.ClientSecret)
	if err != nil {
		h.loggerf("level=error msg=card setup confirm failed user_id=%d err=%v", user.ID, err)
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidClientSecret):
		response.Error(c, http.StatusBadRequest, "INVALID_CLIENT_SECRET", err.Error())
	case errors.Is(err, ErrSetupNotSucceeded), errors.Is(err, ErrNoPaymentMethod):
		response.Error(c, http.StatusPaymentRequired, "SETUP_NOT_SUCCEEDED", err.Error())
	case errors.Is(err, ErrProcessor):
		_ = c.Error(err)
		response.Error(c, http.StatusBadGateway, "PROCESSOR_ERROR", err.Error())
	case errors.Is(err, ErrBackend):
		_ = c.Error(err)
		response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Payment request failed")
	}
}
