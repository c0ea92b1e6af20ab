package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"roofestimator/internal/backend"
)

var (
	ErrMissingIdentity = errors.New("session has no identity or email")
	ErrAccountNotFound = errors.New("account not found")
	ErrBackend         = errors.New("backend user request failed")
)

const (
	DashboardPath  = "/dashboard"
	OnboardingPath = "/onboarding-form"
	SignInPath     = "/sign-in"
	SignUpPath     = "/sign-up"
)

type Service struct {
	users    userBackend
	resolver *Resolver
	loggerf  func(format string, args ...interface{})
}

func NewService(users userBackend, resolver *Resolver, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{users: users, resolver: resolver, loggerf: loggerf}
}

// SignUp links the identity provider user to the backend user with the same
// email, creating that user when there is none. It returns where the browser
// goes next: the dashboard for active users, onboarding otherwise.
func (s *Service) SignUp(ctx context.Context, identityID, email string) (string, *backend.User, error) {
	identityID = strings.TrimSpace(identityID)
	email = strings.TrimSpace(email)
	if identityID == "" || email == "" {
		return "", nil, ErrMissingIdentity
	}

	user, err := s.link(ctx, identityID, email)
	if err != nil {
		return "", nil, err
	}
	if err := s.resolver.Invalidate(ctx, email); err != nil {
		s.loggerf("level=warn msg=user cache invalidate failed email=%s err=%v", email, err)
	}

	if user.Email != "" && user.Status == backend.StatusActive {
		return DashboardPath, user, nil
	}
	return OnboardingPath, user, nil
}

func (s *Service) link(ctx context.Context, identityID, email string) (*backend.User, error) {
	existing, err := s.users.GetUser(ctx, email)
	switch {
	case err == nil:
		user, err := s.users.UpdateUser(ctx, existing.ID, map[string]any{"clerk_user_id": identityID})
		if err != nil {
			return nil, fmt.Errorf("%w: link identity: %w", ErrBackend, err)
		}
		s.loggerf("level=info msg=identity linked to existing user user_id=%d", existing.ID)
		return user, nil
	case errors.Is(err, backend.ErrNotFound):
	default:
		// a failed lookup falls through to create; the backend rejects duplicates
		s.loggerf("level=warn msg=user lookup failed before sign-up email=%s err=%v", email, err)
	}

	user, err := s.users.CreateUser(ctx, backend.CreateUserRequest{ClerkUserID: identityID, Email: email})
	if err != nil {
		return nil, fmt.Errorf("%w: create user: %w", ErrBackend, err)
	}
	s.loggerf("level=info msg=user created user_id=%d", user.ID)
	return user, nil
}

// SignIn decides where a signed-in user lands.
func (s *Service) SignIn(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrMissingIdentity
	}

	user, err := s.resolver.Resolve(ctx, email)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return "", ErrAccountNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrBackend, err)
	}

	switch {
	case user.Name != "":
		return DashboardPath, nil
	case user.Status == backend.StatusOnboarding:
		return OnboardingPath, nil
	default:
		return "", ErrAccountNotFound
	}
}

func (s *Service) Invalidate(ctx context.Context, email string) error {
	return s.resolver.Invalidate(ctx, email)
}
