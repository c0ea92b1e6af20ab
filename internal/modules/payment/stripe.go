package payment

import (
	"context"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/setupintent"
)

// StripeSetupIntents reads setup intents from Stripe.
type StripeSetupIntents struct{}

func NewStripeSetupIntents(secretKey string, timeout time.Duration) *StripeSetupIntents {
	stripe.Key = secretKey
	stripe.SetHTTPClient(&http.Client{Timeout: timeout})
	return &StripeSetupIntents{}
}

func (s *StripeSetupIntents) GetSetupIntent(ctx context.Context, id string) (*SetupIntent, error) {
	params := &stripe.SetupIntentParams{}
	params.Context = ctx

	si, err := setupintent.Get(id, params)
	if err != nil {
		return nil, err
	}

	out := &SetupIntent{
		ID:           si.ID,
		Status:       string(si.Status),
		ClientSecret: si.ClientSecret,
	}
	if si.PaymentMethod != nil {
		out.PaymentMethodID = si.PaymentMethod.ID
	}
	return out, nil
}
