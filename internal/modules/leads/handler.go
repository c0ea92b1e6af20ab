package leads

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
	hub     *Hub
	live    *LiveHandler
}

func NewHandler(service *Service, hub *Hub, live *LiveHandler) *Handler {
	return &Handler{service: service, hub: hub, live: live}
}

// RegisterRoutes mounts the leads pages. The group must already carry the
// session and account middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	leads := rg.Group("/leads")
	{
		leads.GET("", h.ListLeads)
		leads.POST("", h.CreateLead)
		leads.GET("/suggestions", h.Suggestions)
		leads.POST("/bulk-delete", h.BulkDelete)
		if h.live != nil {
			leads.GET("/live", h.live.Serve)
		}
		leads.GET("/:id", h.GetLead)
		leads.PATCH("/:id", h.UpdateLead)
		leads.DELETE("/:id", h.DeleteLead)
	}
}

// ListLeads handles GET /leads?page&page_size&query&sort_key&sort_order&bulkDelete
func (h *Handler) ListLeads(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ctrl, err := h.service.Table(c.Request.Context(), user.ID, ParseQuery(c.Request.URL.Query()))
	if err != nil {
		writeError(c, err, ctrl)
		return
	}
	response.Success(c, http.StatusOK, ctrl.View())
}

// Suggestions handles GET /leads/suggestions?query=
func (h *Handler) Suggestions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	out, err := h.service.Suggestions(c.Request.Context(), user.ID, c.Query("query"))
	if err != nil {
		writeError(c, err, nil)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// GetLead handles GET /leads/:id
func (h *Handler) GetLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := leadID(c)
	if !ok {
		return
	}
	lead, err := h.service.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	response.Success(c, http.StatusOK, LeadResponse{Lead: lead, Form: FormFromLead(*lead)})
}

// CreateLead handles POST /leads
func (h *Handler) CreateLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var form LeadForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	lead, err := h.service.Create(c.Request.Context(), user.ID, form)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	h.hub.Refresh(c.Request.Context(), user.ID, nil)
	response.Success(c, http.StatusCreated, MutationResponse{Lead: lead, Redirect: BasePath})
}

// UpdateLead handles PATCH /leads/:id
func (h *Handler) UpdateLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := leadID(c)
	if !ok {
		return
	}
	var form LeadForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	lead, err := h.service.Update(c.Request.Context(), user.ID, id, form)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	h.hub.Refresh(c.Request.Context(), user.ID, nil)
	response.Success(c, http.StatusOK, MutationResponse{Lead: lead, Redirect: BasePath})
}

// DeleteLead handles DELETE /leads/:id with the table state in the query
// string. The lead must be on that page and confirm must match its name.
func (h *Handler) DeleteLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := leadID(c)
	if !ok {
		return
	}
	var req DeleteLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Body must contain confirm")
		return
	}

	ctx := c.Request.Context()
	ctrl, err := h.service.Table(ctx, user.ID, ParseQuery(c.Request.URL.Query()))
	if err != nil {
		writeError(c, err, ctrl)
		return
	}
	if err := ctrl.DeleteOne(ctx, id, req.Confirm); err != nil {
		h.afterDelete(c, user.ID, err)
		writeError(c, err, ctrl)
		return
	}
	h.afterDelete(c, user.ID, nil)
	response.Success(c, http.StatusOK, ctrl.View())
}

// BulkDelete handles POST /leads/bulk-delete with the table state in the
// query string. Every id must be on that page.
func (h *Handler) BulkDelete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Body must contain ids")
		return
	}
	if !req.Confirmed {
		response.Error(c, http.StatusBadRequest, "CONFIRMATION_REQUIRED", "Bulk delete must be confirmed")
		return
	}

	ctx := c.Request.Context()
	q := ParseQuery(c.Request.URL.Query())
	q.BulkDelete = true
	ctrl, err := h.service.Table(ctx, user.ID, q)
	if err != nil {
		writeError(c, err, ctrl)
		return
	}
	for _, id := range uniqueIDs(req.IDs) {
		if err := ctrl.ToggleRowSelection(id); err != nil {
			writeError(c, err, ctrl)
			return
		}
	}
	if err := ctrl.DeleteSelected(ctx, ""); err != nil {
		h.afterDelete(c, user.ID, err)
		writeError(c, err, ctrl)
		return
	}
	h.afterDelete(c, user.ID, nil)
	response.Success(c, http.StatusOK, ctrl.View())
}

func (h *Handler) afterDelete(c *gin.Context, userID int64, err error) {
	if err == nil || errors.Is(err, ErrFetchFailed) {
		h.hub.Refresh(c.Request.Context(), userID, nil)
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func leadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead id")
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) (*backend.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Account not loaded")
		return nil, false
	}
	return user, true
}

// errorCode maps an error to its response code and HTTP status.
func errorCode(err error) (string, int) {
	var formErr *FormError
	switch {
	case errors.As(err, &formErr):
		return "VALIDATION_ERROR", http.StatusUnprocessableEntity
	case errors.Is(err, ErrPageOutOfRange):
		return "PAGE_OUT_OF_RANGE", http.StatusBadRequest
	case errors.Is(err, ErrInvalidPageSize):
		return "INVALID_PAGE_SIZE", http.StatusBadRequest
	case errors.Is(err, ErrUnknownColumn):
		return "INVALID_SORT", http.StatusBadRequest
	case errors.Is(err, ErrConfirmationInvalid):
		return "CONFIRMATION_MISMATCH", http.StatusUnprocessableEntity
	case errors.Is(err, ErrRowNotRendered):
		return "LEAD_NOT_ON_PAGE", http.StatusNotFound
	case errors.Is(err, ErrNotInBulkMode), errors.Is(err, ErrNothingToSelect),
		errors.Is(err, ErrNothingSelected), errors.Is(err, ErrNoPendingDelete),
		errors.Is(err, ErrDeleteInProgress):
		return "INVALID_STATE", http.StatusConflict
	case errors.Is(err, ErrDeleteFailed):
		return "DELETE_FAILED", http.StatusBadGateway
	case errors.Is(err, ErrFetchFailed):
		return "BACKEND_ERROR", http.StatusBadGateway
	case errors.Is(err, ErrLeadNotFound), errors.Is(err, backend.ErrNotFound):
		return "NOT_FOUND", http.StatusNotFound
	default:
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			return "BACKEND_ERROR", http.StatusBadGateway
		}
		return "INTERNAL_ERROR", http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error, ctrl *Controller) {
	code, status := errorCode(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	var formErr *FormError
	switch {
	case errors.As(err, &formErr):
		response.ErrorWithDetails(c, status, code, err.Error(), formErr.Fields)
	case ctrl != nil:
		response.ErrorWithDetails(c, status, code, err.Error(), ctrl.View())
	case status == http.StatusInternalServerError:
		response.Error(c, status, code, "Failed to process leads request")
	default:
		response.Error(c, status, code, err.Error())
	}
}
