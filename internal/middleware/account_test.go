package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"roofestimator/internal/backend"
)

type MockUserResolver struct {
	mock.Mock
}

func (m *MockUserResolver) Resolve(ctx context.Context, email string) (*backend.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*backend.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func serveAccount(resolver UserResolver, requireOnboarded bool, email string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextEmail, email)
		c.Next()
	})
	router.Use(LoadAccount(resolver, requireOnboarded))
	router.GET("/dashboard", func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "user_id": c.GetInt64(ContextUserID)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLoadAccount_Onboarded(t *testing.T) {
	resolver := new(MockUserResolver)
	resolver.On("Resolve", mock.Anything, "jane@example.com").
		Return(&backend.User{ID: 7, Name: "Jane", Email: "jane@example.com"}, nil)

	w := serveAccount(resolver, true, "jane@example.com")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"user_id":7}`, w.Body.String())
	resolver.AssertExpectations(t)
}

func TestLoadAccount_NotOnboardedRedirects(t *testing.T) {
	resolver := new(MockUserResolver)
	resolver.On("Resolve", mock.Anything, "jane@example.com").
		Return(&backend.User{ID: 7, Email: "jane@example.com", Status: backend.StatusOnboarding}, nil)

	w := serveAccount(resolver, true, "jane@example.com")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_ONBOARDED")
	assert.Contains(t, w.Body.String(), OnboardingPath)
}

func TestLoadAccount_NotOnboardedAllowedForWizard(t *testing.T) {
	resolver := new(MockUserResolver)
	resolver.On("Resolve", mock.Anything, "jane@example.com").
		Return(&backend.User{ID: 7, Email: "jane@example.com", Status: backend.StatusOnboarding}, nil)

	w := serveAccount(resolver, false, "jane@example.com")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoadAccount_Missing(t *testing.T) {
	resolver := new(MockUserResolver)
	resolver.On("Resolve", mock.Anything, "jane@example.com").Return(nil, backend.ErrNotFound)

	w := serveAccount(resolver, true, "jane@example.com")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), OnboardingPath)

	w = serveAccount(resolver, false, "jane@example.com")
	assert.Contains(t, w.Body.String(), SignUpPath)
}

func TestLoadAccount_BackendDown(t *testing.T) {
	resolver := new(MockUserResolver)
	resolver.On("Resolve", mock.Anything, "jane@example.com").Return(nil, errors.New("connection refused"))

	w := serveAccount(resolver, true, "jane@example.com")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "BACKEND_ERROR")
}

func TestLoadAccount_NoEmail(t *testing.T) {
	w := serveAccount(new(MockUserResolver), true, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
