package backend

import "context"

func (c *Client) GetRoofingPrice(ctx context.Context, userID int64) (*RoofingPrice, error) {
	var rp RoofingPrice
	if err := c.get(ctx, idPath("roofing-prices/%d/", userID), nil, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

// CreateRoofingPrice posts the flattened price sheet derived by the onboarding wizard.
func (c *Client) CreateRoofingPrice(ctx context.Context, payload any) error {
	return c.post(ctx, "roofing-prices/create/", payload, nil)
}

func (c *Client) UpdateRoofingPrice(ctx context.Context, id int64, rp RoofingPrice) (*RoofingPrice, error) {
	var updated RoofingPrice
	if err := c.patch(ctx, idPath("roofing-prices/update/%d/", id), rp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
