package account

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"roofestimator/internal/middleware"
	"roofestimator/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterCallbacks mounts the identity provider callbacks. The group must
// carry a session but no loaded account.
func (h *Handler) RegisterCallbacks(rg *gin.RouterGroup) {
	rg.GET("/callback/complete", h.SignUpCallback)
	rg.GET("/callback/sign-in", h.SignInCallback)
}

// RegisterRoutes mounts the routes that need a loaded, onboarded account.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
}

// RegisterInternalRoutes mounts service-to-service routes behind the internal token.
func (h *Handler) RegisterInternalRoutes(rg *gin.RouterGroup) {
	rg.POST("/users/:email/invalidate", h.InvalidateUser)
}

func (h *Handler) SignUpCallback(c *gin.Context) {
	location, _, err := h.service.SignUp(c.Request.Context(), c.GetString(middleware.ContextIdentityID), c.GetString(middleware.ContextEmail))
	if err != nil {
		if errors.Is(err, ErrMissingIdentity) {
			response.Redirect(c, SignUpPath)
			return
		}
		_ = c.Error(err)
		response.Redirect(c, SignInPath)
		return
	}
	response.Redirect(c, location)
}

func (h *Handler) SignInCallback(c *gin.Context) {
	location, err := h.service.SignIn(c.Request.Context(), c.GetString(middleware.ContextEmail))
	switch {
	case err == nil:
		response.Redirect(c, location)
	case errors.Is(err, ErrMissingIdentity):
		response.Redirect(c, SignInPath)
	case errors.Is(err, ErrAccountNotFound):
		response.Error(c, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "No account for this session")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to load account")
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Account not loaded")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) InvalidateUser(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "email is required")
		return
	}
	if err := h.service.Invalidate(c.Request.Context(), email); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, "CACHE_ERROR", "Failed to evict cached user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invalidated": email})
}
