package roofingprice

import (
	"context"
	"errors"
	"fmt"
	"log"

	"roofestimator/internal/backend"
)

var (
	ErrInvalidForm  = errors.New("invalid roofing price form")
	ErrNoPriceSheet = errors.New("no roofing price sheet for user")
)

type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	return ErrInvalidForm.Error()
}

func (e *FormError) Unwrap() error {
	return ErrInvalidForm
}

type priceBackend interface {
	GetRoofingPrice(ctx context.Context, userID int64) (*backend.RoofingPrice, error)
	UpdateRoofingPrice(ctx context.Context, id int64, rp backend.RoofingPrice) (*backend.RoofingPrice, error)
}

type Service struct {
	prices  priceBackend
	loggerf func(format string, args ...interface{})
}

func NewService(prices priceBackend, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = log.Printf
	}
	return &Service{prices: prices, loggerf: loggerf}
}

func (s *Service) Get(ctx context.Context, userID int64) (Form, error) {
	rp, err := s.prices.GetRoofingPrice(ctx, userID)
	if errors.Is(err, backend.ErrNotFound) {
		return Form{}, ErrNoPriceSheet
	}
	if err != nil {
		return Form{}, fmt.Errorf("get roofing price: %w", err)
	}
	return FormFromPrice(*rp), nil
}

// Update saves form as the user's sheet. The sheet id always comes from the
// backend, never from the submitted form.
func (s *Service) Update(ctx context.Context, userID int64, form Form) (Form, error) {
	if errs := form.Validate(); errs != nil {
		return Form{}, &FormError{Fields: errs}
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return Form{}, err
	}
	form.ID = current.ID

	updated, err := s.prices.UpdateRoofingPrice(ctx, current.ID, form.Price(userID))
	if err != nil {
		s.loggerf("level=error msg=update roofing price failed user_id=%d id=%d err=%v", userID, current.ID, err)
		return Form{}, fmt.Errorf("update roofing price: %w", err)
	}
	s.loggerf("level=info msg=roofing price updated user_id=%d id=%d", userID, current.ID)
	return FormFromPrice(*updated), nil
}
