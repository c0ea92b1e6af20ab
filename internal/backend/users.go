package backend

import (
	"context"
	"net/url"
)

func (c *Client) GetUser(ctx context.Context, email string) (*User, error) {
	var u User
	if err := c.get(ctx, "api/users/"+url.PathEscape(email)+"/", nil, &u); err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var u User
	if err := c.post(ctx, "api/users/create/", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, fields map[string]any) (*User, error) {
	var u User
	if err := c.patch(ctx, idPath("api/users/update/%d/", id), fields, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// OnboardUser stores the wizard's customer profile on the user.
func (c *Client) OnboardUser(ctx context.Context, id int64, payload any) error {
	return c.post(ctx, idPath("api/users/onboard/%d/", id), payload, nil)
}

// IntendPayment asks the backend for a setup intent and returns its client secret.
func (c *Client) IntendPayment(ctx context.Context, id int64, amount int64) (string, error) {
	var secret string
	body := map[string]int64{"amount": amount}
	if err := c.post(ctx, idPath("api/users/intend-payment/%d/", id), body, &secret); err != nil {
		return "", err
	}
	return secret, nil
}

func (c *Client) UpdatePaymentMethod(ctx context.Context, id int64, paymentMethodID string) error {
	body := map[string]string{"payment_method": paymentMethodID}
	return c.post(ctx, idPath("api/users/update-payment-method/%d/", id), body, nil)
}
