package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"roofestimator/internal/pkg/jwt"
	"roofestimator/internal/pkg/response"
)

const (
	ContextIdentityID = "identity_id"
	ContextEmail      = "email"
)

// ProtectedPrefixes are the app sections that need a signed-in session.
var ProtectedPrefixes = []string{
	"/dashboard",
	"/leads",
	"/onboarding-form",
	"/secure-payment",
	"/roofing-prices",
	"/admin-panel",
	"/chat",
	"/forum",
}

func IsProtected(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// SessionGate validates the identity provider session for protected paths and
// sends everyone else through untouched. The token comes from the
// Authorization header or the session cookie.
func SessionGate(verifier jwt.Verifier, cookieName, signInPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsProtected(c.Request.URL.Path) {
			c.Next()
			return
		}

		token, ok := sessionToken(c, cookieName)
		if !ok {
			response.RedirectAbort(c, http.StatusUnauthorized, "UNAUTHENTICATED", signInRedirect(signInPath, c))
			return
		}

		claims, err := verifier.ValidateToken(token)
		if err != nil {
			response.RedirectAbort(c, http.StatusUnauthorized, "INVALID_TOKEN", signInRedirect(signInPath, c))
			return
		}

		c.Set(ContextIdentityID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// RequireSession is SessionGate for a route group that is protected as a whole.
func RequireSession(verifier jwt.Verifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessionToken(c, cookieName)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Session token is required")
			c.Abort()
			return
		}
		claims, err := verifier.ValidateToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextIdentityID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" && strings.TrimSpace(parts[1]) != "" {
			return strings.TrimSpace(parts[1]), true
		}
		return "", false
	}
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

func signInRedirect(signInPath string, c *gin.Context) string {
	q := url.Values{}
	q.Set("redirect_url", c.Request.URL.RequestURI())
	return signInPath + "?" + q.Encode()
}
