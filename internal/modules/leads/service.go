package leads

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"roofestimator/internal/backend"
)

const maxSuggestions = 5

// FormError carries the field errors of an invalid lead form.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	return ErrInvalidLead.Error()
}

func (e *FormError) Unwrap() error {
	return ErrInvalidLead
}

type Service struct {
	leads    leadBackend
	debounce time.Duration
	loggerf  func(format string, args ...interface{})
}

func NewService(leads leadBackend, debounce time.Duration, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = log.Printf
	}
	if debounce <= 0 {
		debounce = SearchDebounce
	}
	return &Service{leads: leads, debounce: debounce, loggerf: loggerf}
}

// NewController starts a table controller for userID at q. It is not loaded yet.
func (s *Service) NewController(userID int64, q QueryState) *Controller {
	ctrl := NewController(s.leads, userID, q, s.debounce)
	ctrl.loggerf = s.loggerf
	return ctrl
}

// Table returns a loaded controller for one request.
func (s *Service) Table(ctx context.Context, userID int64, q QueryState) (*Controller, error) {
	ctrl := s.NewController(userID, q)
	if err := ctrl.Load(ctx); err != nil {
		return ctrl, err
	}
	return ctrl, nil
}

// Get returns lead id when it belongs to userID. Leads of other users are
// reported as not found.
func (s *Service) Get(ctx context.Context, userID, id int64) (*backend.Lead, error) {
	lead, err := s.leads.GetLead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lead %d: %w", id, err)
	}
	owned, err := s.owns(ctx, userID, lead)
	if err != nil {
		return nil, err
	}
	if !owned {
		s.loggerf("level=warn msg=lead access denied user_id=%d lead_id=%d", userID, id)
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// owns trusts the lead's user field when the backend sends one and otherwise
// looks the lead up through the user-scoped search endpoint.
func (s *Service) owns(ctx context.Context, userID int64, lead *backend.Lead) (bool, error) {
	if lead.User != 0 {
		return lead.User == userID, nil
	}
	key := strings.TrimSpace(lead.Email)
	if key == "" {
		key = strings.TrimSpace(lead.FirstName + " " + lead.LastName)
	}
	if key == "" {
		return false, nil
	}
	page, err := s.leads.ListLeads(ctx, backend.LeadListParams{Query: key, UserID: userID})
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	for _, l := range page.Results {
		if l.ID == lead.ID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) Create(ctx context.Context, userID int64, form LeadForm) (*backend.Lead, error) {
	if errs := form.Validate(); errs != nil {
		return nil, &FormError{Fields: errs}
	}
	in := form.Input()
	in.User = userID
	lead, err := s.leads.CreateLead(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	s.loggerf("level=info msg=lead created user_id=%d lead_id=%d", userID, lead.ID)
	return lead, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, form LeadForm) (*backend.Lead, error) {
	if errs := form.Validate(); errs != nil {
		return nil, &FormError{Fields: errs}
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	lead, err := s.leads.UpdateLead(ctx, id, form.Input())
	if err != nil {
		return nil, fmt.Errorf("update lead %d: %w", id, err)
	}
	s.loggerf("level=info msg=lead updated user_id=%d lead_id=%d", userID, id)
	return lead, nil
}

// Suggestion is a search-as-you-type match.
type Suggestion struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Suggestions returns up to five matches for text. Blank text matches nothing.
func (s *Service) Suggestions(ctx context.Context, userID int64, text string) ([]Suggestion, error) {
	text = trimQuery(text)
	if text == "" {
		return []Suggestion{}, nil
	}

	page, err := s.leads.ListLeads(ctx, backend.LeadListParams{Query: text, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	out := make([]Suggestion, 0, maxSuggestions)
	for _, l := range page.Results {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, Suggestion{
			ID:      l.ID,
			Name:    strings.TrimSpace(l.FirstName + " " + l.LastName),
			Email:   l.Email,
			Address: l.Address,
		})
	}
	return out, nil
}
