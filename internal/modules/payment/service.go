package payment

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidClientSecret = errors.New("invalid setup intent client secret")
	ErrSetupNotSucceeded   = errors.New("card setup has not succeeded")
	ErrNoPaymentMethod     = errors.New("setup intent has no payment method")
	ErrProcessor           = errors.New("payment processor request failed")
	ErrBackend             = errors.New("backend payment request failed")
)

const (
	StatusSucceeded = "succeeded"
	SuccessPath     = "/pay"
)

type Service struct {
	users          userPayments
	intents        SetupIntentFetcher
	loggerf        func(format string, args ...interface{})
	publishableKey string
	amount         int64
}

func NewService(users userPayments, intents SetupIntentFetcher, publishableKey string, amount int64, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		users:          users,
		intents:        intents,
		loggerf:        loggerf,
		publishableKey: publishableKey,
		amount:         amount,
	}
}

// Intent asks the backend for a setup intent and returns its client secret
// for the card form.
func (s *Service) Intent(ctx context.Context, userID int64) (*IntentResponse, error) {
	secret, err := s.users.IntendPayment(ctx, userID, s.amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	if _, err := SetupIntentID(secret); err != nil {
		s.loggerf("level=error msg=backend returned malformed client secret user_id=%d", userID)
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	s.loggerf("level=info msg=setup intent created user_id=%d amount=%d", userID, s.amount)
	return &IntentResponse{ClientSecret: secret, PublishableKey: s.publishableKey, Amount: s.amount}, nil
}

// Confirm checks with the processor that the card setup behind clientSecret
// succeeded and hands its payment method to the backend.
func (s *Service) Confirm(ctx context.Context, userID int64, clientSecret string) (*ConfirmResponse, error) {
	id, err := SetupIntentID(clientSecret)
	if err != nil {
		return nil, err
	}

	si, err := s.intents.GetSetupIntent(ctx, id)
	if err != nil {
		s.loggerf("level=error msg=setup intent lookup failed user_id=%d setup_intent=%s err=%v", userID, id, err)
		return nil, fmt.Errorf("%w: %w", ErrProcessor, err)
	}
	// only the holder of the secret may confirm this intent
	if subtle.ConstantTimeCompare([]byte(si.ClientSecret), []byte(clientSecret)) != 1 {
		return nil, ErrInvalidClientSecret
	}
	s.loggerf("level=info msg=setup intent checked user_id=%d setup_intent=%s status=%s", userID, id, si.Status)
	if si.Status != StatusSucceeded {
		return nil, fmt.Errorf("%w: status %s", ErrSetupNotSucceeded, si.Status)
	}
	if si.PaymentMethodID == "" {
		return nil, ErrNoPaymentMethod
	}

	if err := s.users.UpdatePaymentMethod(ctx, userID, si.PaymentMethodID); err != nil {
		s.loggerf("level=error msg=update payment method failed user_id=%d err=%v", userID, err)
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	return &ConfirmResponse{PaymentMethodID: si.PaymentMethodID, Redirect: SuccessPath}, nil
}

// SetupIntentID extracts "seti_x" from a client secret "seti_x_secret_y".
func SetupIntentID(clientSecret string) (string, error) {
	id, _, ok := strings.Cut(strings.TrimSpace(clientSecret), "_secret_")
	if !ok || !strings.HasPrefix(id, "seti_") || len(id) == len("seti_") {
		return "", ErrInvalidClientSecret
	}
	return id, nil
}
