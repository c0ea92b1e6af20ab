package payment

import (
	"context"
)

type userPayments interface {
	IntendPayment(ctx context.Context, userID int64, amount int64) (string, error)
	UpdatePaymentMethod(ctx context.Context, userID int64, paymentMethodID string) error
}

// SetupIntentFetcher reads setup intents from the payment processor.
type SetupIntentFetcher interface {
	GetSetupIntent(ctx context.Context, id string) (*SetupIntent, error)
}
