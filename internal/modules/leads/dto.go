package leads

import "roofestimator/internal/backend"

type DeleteLeadRequest struct {
	Confirm string `json:"confirm"`
}

type BulkDeleteRequest struct {
	IDs       []int64 `json:"ids" binding:"required,min=1"`
	Confirmed bool    `json:"confirmed"`
}

// LeadResponse is a lead plus its prefilled update form.
type LeadResponse struct {
	Lead *backend.Lead `json:"lead"`
	Form LeadForm      `json:"form"`
}

// MutationResponse is returned after create and update.
type MutationResponse struct {
	Lead     *backend.Lead `json:"lead"`
	Redirect string        `json:"redirect"`
}
