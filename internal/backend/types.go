package backend

import "encoding/json"

type User struct {
	ID                int64  `json:"id"`
	Name              string `json:"name,omitempty"`
	Email             string `json:"email"`
	Status            string `json:"status,omitempty"`
	ClerkUserID       string `json:"clerk_user_id,omitempty"`
	CompanyName       string `json:"company_name,omitempty"`
	CompanyWebsite    string `json:"company_website,omitempty"`
	WebhookURL        string `json:"webhook_url,omitempty"`
	InboundPhone      string `json:"inbound_phone,omitempty"`
	BookingLink       string `json:"booking_link,omitempty"`
	SharingPreference string `json:"sharing_preference,omitempty"`
	StripeCustomerID  string `json:"stripe_customer_id,omitempty"`
}

const (
	StatusOnboarding = "onboarding"
	StatusActive     = "active"
)

// Onboarded reports whether the user finished the onboarding wizard.
func (u *User) Onboarded() bool {
	return u != nil && u.Name != ""
}

type CreateUserRequest struct {
	ClerkUserID string `json:"clerk_user_id"`
	Email       string `json:"email"`
}

type Lead struct {
	ID                  int64       `json:"id"`
	User                int64       `json:"user,omitempty"`
	FirstName           string      `json:"first_name"`
	LastName            string      `json:"last_name"`
	Email               string      `json:"email"`
	Phone               string      `json:"phone,omitempty"`
	RLink               string      `json:"rlink,omitempty"`
	Address             string      `json:"address"`
	Material            string      `json:"material,omitempty"`
	RoofPitch           string      `json:"roof_pitch,omitempty"`
	RoofArea            json.Number `json:"roof_area,omitempty"`
	ShingleRoofCostLow  string      `json:"shingle_roof_cost_low"`
	ShingleRoofCostHigh string      `json:"shingle_roof_cost_high"`
	CreatedAt           string      `json:"created_at"`
}

// LeadPage is one page of leads. Search responses use the same shape without
// next/previous links.
type LeadPage struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Count    int     `json:"count"`
	Results  []Lead  `json:"results"`
	Status   string  `json:"status,omitempty"`
}

type LeadListParams struct {
	Page      int
	PageSize  int
	Query     string
	SortKey   string
	SortOrder string
	UserID    int64
}

type LeadInput struct {
	User                int64       `json:"user,omitempty"`
	FirstName           string      `json:"first_name"`
	LastName            string      `json:"last_name"`
	Phone               string      `json:"phone"`
	Email               string      `json:"email"`
	RLink               string      `json:"rlink"`
	Address             string      `json:"address"`
	Material            string      `json:"material"`
	RoofPitch           string      `json:"roof_pitch"`
	RoofArea            json.Number `json:"roof_area"`
	ShingleRoofCostLow  json.Number `json:"shingle_roof_cost_low"`
	ShingleRoofCostHigh json.Number `json:"shingle_roof_cost_high"`
}

// RoofingPrice is the stored price sheet. Disabled materials carry "0.00".
type RoofingPrice struct {
	ID                       int64  `json:"id"`
	User                     int64  `json:"user,omitempty"`
	WasteFactor              string `json:"waste_factor"`
	ShingleLowCostPerSquare  string `json:"shingle_low_cost_per_square"`
	ShingleHighCostPerSquare string `json:"shingle_high_cost_per_square"`
	MetalLowCostPerSquare    string `json:"metal_low_cost_per_square"`
	MetalHighCostPerSquare   string `json:"metal_high_cost_per_square"`
	TileLowCostPerSquare     string `json:"tile_low_cost_per_square"`
	TileHighCostPerSquare    string `json:"tile_high_cost_per_square"`
	CedarLowCostPerSquare    string `json:"cedar_low_cost_per_square"`
	CedarHighCostPerSquare   string `json:"cedar_high_cost_per_square"`
}
