package onboarding

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the wizard under /onboarding-form. The group must
// already carry the session and account middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	form := rg.Group("/onboarding-form")
	{
		form.GET("", h.GetWizard)
		form.DELETE("", h.ResetWizard)

		form.PATCH("/customer", h.SetCustomerField)
		form.POST("/customer/materials/:material", h.ToggleMaterial)
		form.PATCH("/customer/prices/:material", h.SetPrice)

		form.PATCH("/site", h.SetSiteName)
		form.POST("/site/snippets", h.AppendSnippet)
		form.PATCH("/site/snippets/:index", h.UpdateSnippet)
		form.DELETE("/site/snippets/:index", h.RemoveSnippet)

		form.POST("/next", h.Next)
		form.POST("/back", h.Back)
		form.POST("/steps/:step", h.GoTo)
		form.POST("/submit", h.Submit)
		form.POST("/skip", h.Skip)
	}
}

type setFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type setPriceRequest struct {
	Low  *string `json:"low"`
	High *string `json:"high"`
}

type setSiteNameRequest struct {
	SiteName string `json:"site_name"`
}

// GetWizard handles GET /onboarding-form
func (h *Handler) GetWizard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	w, err := h.service.Get(c.Request.Context(), user)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	response.Success(c, http.StatusOK, w.View())
}

// ResetWizard handles DELETE /onboarding-form
func (h *Handler) ResetWizard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	w, err := h.service.Reset(c.Request.Context(), user)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	response.Success(c, http.StatusOK, w.View())
}

// SetCustomerField handles PATCH /onboarding-form/customer
func (h *Handler) SetCustomerField(c *gin.Context) {
	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	h.update(c, func(w *Wizard) error {
		return w.SetCustomerField(req.Field, req.Value)
	})
}

// ToggleMaterial handles POST /onboarding-form/customer/materials/:material
func (h *Handler) ToggleMaterial(c *gin.Context) {
	m, ok := ParseMaterial(c.Param("material"))
	if !ok {
		response.Error(c, http.StatusBadRequest, "INVALID_MATERIAL", ErrInvalidMaterial.Error())
		return
	}
	h.update(c, func(w *Wizard) error {
		return w.ToggleMaterial(m)
	})
}

// SetPrice handles PATCH /onboarding-form/customer/prices/:material
func (h *Handler) SetPrice(c *gin.Context) {
	m, ok := ParseMaterial(c.Param("material"))
	if !ok {
		response.Error(c, http.StatusBadRequest, "INVALID_MATERIAL", ErrInvalidMaterial.Error())
		return
	}
	var req setPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Low == nil && req.High == nil) {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Body must contain low and/or high")
		return
	}
	h.update(c, func(w *Wizard) error {
		if req.Low != nil {
			if err := w.SetPrice(m, BoundLow, *req.Low); err != nil {
				return err
			}
		}
		if req.High != nil {
			return w.SetPrice(m, BoundHigh, *req.High)
		}
		return nil
	})
}

// SetSiteName handles PATCH /onboarding-form/site
func (h *Handler) SetSiteName(c *gin.Context) {
	var req setSiteNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	h.update(c, func(w *Wizard) error {
		return w.SetSiteName(req.SiteName)
	})
}

// AppendSnippet handles POST /onboarding-form/site/snippets
func (h *Handler) AppendSnippet(c *gin.Context) {
	h.update(c, func(w *Wizard) error {
		return w.AppendSnippet()
	})
}

// UpdateSnippet handles PATCH /onboarding-form/site/snippets/:index
func (h *Handler) UpdateSnippet(c *gin.Context) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_INDEX", "Invalid snippet index")
		return
	}
	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	h.update(c, func(w *Wizard) error {
		return w.UpdateSnippet(i, req.Field, req.Value)
	})
}

// RemoveSnippet handles DELETE /onboarding-form/site/snippets/:index
func (h *Handler) RemoveSnippet(c *gin.Context) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_INDEX", "Invalid snippet index")
		return
	}
	h.update(c, func(w *Wizard) error {
		return w.RemoveSnippet(i)
	})
}

// Next handles POST /onboarding-form/next
func (h *Handler) Next(c *gin.Context) {
	h.update(c, (*Wizard).Next)
}

// Back handles POST /onboarding-form/back
func (h *Handler) Back(c *gin.Context) {
	h.update(c, (*Wizard).Back)
}

// GoTo handles POST /onboarding-form/steps/:step
func (h *Handler) GoTo(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_STEP", ErrInvalidStep.Error())
		return
	}
	h.update(c, func(w *Wizard) error {
		return w.GoTo(Step(n))
	})
}

// Submit handles POST /onboarding-form/submit
func (h *Handler) Submit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	w, err := h.service.Submit(c.Request.Context(), user)
	if err != nil {
		writeError(c, err, w)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"wizard":   w.View(),
		"redirect": PaymentPath,
	})
}

// Skip handles POST /onboarding-form/skip
func (h *Handler) Skip(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	w, err := h.service.Get(c.Request.Context(), user)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	location, err := w.Skip()
	if err != nil {
		writeError(c, err, w)
		return
	}
	response.Redirect(c, location)
}

func (h *Handler) update(c *gin.Context, fn func(w *Wizard) error) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	w, err := h.service.Update(c.Request.Context(), user, fn)
	if err != nil {
		writeError(c, err, w)
		return
	}
	response.Success(c, http.StatusOK, w.View())
}

func currentUser(c *gin.Context) (*backend.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Account not loaded")
		return nil, false
	}
	return user, true
}

func writeError(c *gin.Context, err error, w *Wizard) {
	var details any
	if w != nil {
		details = w.View()
	}

	var stepErr *StepError
	switch {
	case errors.As(err, &stepErr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), gin.H{
			"fields": stepErr.Fields,
			"wizard": details,
		})
	case errors.Is(err, ErrUnknownField), errors.Is(err, ErrReadOnlyField),
		errors.Is(err, ErrInvalidMaterial), errors.Is(err, ErrInvalidPosition),
		errors.Is(err, ErrInvalidStep), errors.Is(err, ErrSnippetIndex):
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_INPUT", err.Error(), details)
	case errors.Is(err, ErrMaterialNotOffered), errors.Is(err, ErrSnippetIncomplete),
		errors.Is(err, ErrWrongStep), errors.Is(err, ErrStepNotReached),
		errors.Is(err, ErrNoPreviousStep), errors.Is(err, ErrSkipNotAllowed),
		errors.Is(err, ErrSubmitting), errors.Is(err, ErrAlreadySubmitted),
		errors.Is(err, ErrStepInvalid):
		response.ErrorWithDetails(c, http.StatusConflict, "INVALID_TRANSITION", err.Error(), details)
	case errors.Is(err, ErrSubmitFailed):
		_ = c.Error(err)
		response.ErrorWithDetails(c, http.StatusBadGateway, "SUBMIT_FAILED", err.Error(), details)
	case errors.Is(err, ErrInvalidPayload):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "INVALID_PAYLOAD", err.Error(), details)
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process onboarding")
	}
}
