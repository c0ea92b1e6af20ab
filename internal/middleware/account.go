package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roofestimator/internal/backend"
	"roofestimator/internal/pkg/response"
)

const (
	ContextUser   = "user"
	ContextUserID = "user_id"

	OnboardingPath = "/onboarding-form"
	SignUpPath     = "/sign-up"
)

// UserResolver maps a signed-in identity to the backend user record.
type UserResolver interface {
	Resolve(ctx context.Context, email string) (*backend.User, error)
}

// LoadAccount resolves the backend user for the session email. With
// requireOnboarded a missing or incomplete account is sent to onboarding;
// without it only a missing account is rejected (sent to sign-up).
func LoadAccount(users UserResolver, requireOnboarded bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextEmail)
		if email == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Session has no email address")
			c.Abort()
			return
		}

		user, err := users.Resolve(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, backend.ErrNotFound) {
				location := SignUpPath
				if requireOnboarded {
					location = OnboardingPath
				}
				response.RedirectAbort(c, http.StatusForbidden, "ACCOUNT_NOT_FOUND", location)
				return
			}
			_ = c.Error(err)
			response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to load account")
			c.Abort()
			return
		}

		if requireOnboarded && !user.Onboarded() {
			response.RedirectAbort(c, http.StatusForbidden, "NOT_ONBOARDED", OnboardingPath)
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

// CurrentUser returns the account loaded by LoadAccount.
func CurrentUser(c *gin.Context) (*backend.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*backend.User)
	return u, ok && u != nil
}
