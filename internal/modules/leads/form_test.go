package leads

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validForm() LeadForm {
	return LeadForm{
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "5551234567",
		Email:     "jane@example.com",
		RLink:     "https://example.com/r/1",
		Address:   "1 Main St",
		Material:  "shingle",
		RoofPitch: "6/12",
	}
}

func TestLeadForm_Validate(t *testing.T) {
	assert.Nil(t, validForm().Validate())

	f := validForm()
	f.Phone = "555-1234"
	f.Email = "nope"
	f.RoofArea = "-4"
	f.FirstName = "   "
	errs := f.Validate()
	assert.Contains(t, errs, "phone")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "roof_area")
	assert.Contains(t, errs, "first_name")
	assert.NotContains(t, errs, "last_name")
}

func TestLeadForm_InputDefaultsNumbersToZero(t *testing.T) {
	f := validForm()
	f.ShingleRoofCostLow = " 1200.50 "
	in := f.Input()

	assert.Zero(t, in.User)
	assert.Equal(t, json.Number("0"), in.RoofArea)
	assert.Equal(t, json.Number("1200.50"), in.ShingleRoofCostLow)
	assert.Equal(t, json.Number("0"), in.ShingleRoofCostHigh)
}
