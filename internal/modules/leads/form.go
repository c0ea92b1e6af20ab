package leads

import (
	"encoding/json"
	"strings"

	"roofestimator/internal/backend"
	"roofestimator/internal/pkg/validator"
)

// LeadForm is the create/update form. Numbers arrive as strings and default to 0.
type LeadForm struct {
	FirstName           string `json:"first_name" validate:"required"`
	LastName            string `json:"last_name" validate:"required"`
	Phone               string `json:"phone" validate:"required,digits"`
	Email               string `json:"email" validate:"required,email"`
	RLink               string `json:"rlink" validate:"required"`
	Address             string `json:"address" validate:"required"`
	Material            string `json:"material" validate:"required"`
	RoofPitch           string `json:"roof_pitch" validate:"required"`
	RoofArea            string `json:"roof_area" validate:"omitempty,decimal2"`
	ShingleRoofCostLow  string `json:"shingle_roof_cost_low" validate:"omitempty,decimal2"`
	ShingleRoofCostHigh string `json:"shingle_roof_cost_high" validate:"omitempty,decimal2"`
}

// FormFromLead prefills the update form.
func FormFromLead(l backend.Lead) LeadForm {
	return LeadForm{
		FirstName:           l.FirstName,
		LastName:            l.LastName,
		Phone:               l.Phone,
		Email:               l.Email,
		RLink:               l.RLink,
		Address:             l.Address,
		Material:            l.Material,
		RoofPitch:           l.RoofPitch,
		RoofArea:            l.RoofArea.String(),
		ShingleRoofCostLow:  l.ShingleRoofCostLow,
		ShingleRoofCostHigh: l.ShingleRoofCostHigh,
	}
}

func (f *LeadForm) normalize() {
	for _, s := range []*string{
		&f.FirstName, &f.LastName, &f.Phone, &f.Email, &f.RLink, &f.Address,
		&f.Material, &f.RoofPitch, &f.RoofArea, &f.ShingleRoofCostLow, &f.ShingleRoofCostHigh,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// Validate returns field errors keyed by json name, or nil.
func (f LeadForm) Validate() map[string]string {
	f.normalize()
	return validator.Validate(f)
}

// Input converts a valid form to the backend shape. The owner is left unset;
// only creates assign one.
func (f LeadForm) Input() backend.LeadInput {
	f.normalize()
	return backend.LeadInput{
		FirstName:           f.FirstName,
		LastName:            f.LastName,
		Phone:               f.Phone,
		Email:               f.Email,
		RLink:               f.RLink,
		Address:             f.Address,
		Material:            f.Material,
		RoofPitch:           f.RoofPitch,
		RoofArea:            number(f.RoofArea),
		ShingleRoofCostLow:  number(f.ShingleRoofCostLow),
		ShingleRoofCostHigh: number(f.ShingleRoofCostHigh),
	}
}

func number(s string) json.Number {
	if s == "" {
		return "0"
	}
	return json.Number(s)
}
