package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type priceForm struct {
	Low  string `json:"low" validate:"required,positive_decimal"`
	High string `json:"high" validate:"required,decimal2"`
}

type sample struct {
	Email  string               `json:"email" validate:"required,email"`
	Phone  string               `json:"phone" validate:"omitempty,digits"`
	Prices map[string]priceForm `json:"prices" validate:"dive"`
}

func TestValidate_Paths(t *testing.T) {
	errs := Validate(sample{
		Email:  "nope",
		Phone:  "555-1234",
		Prices: map[string]priceForm{"shingle": {Low: "0", High: "1.234"}},
	})

	assert.Equal(t, "Invalid email address", errs["email"])
	assert.Equal(t, "Must contain digits only", errs["phone"])
	assert.Contains(t, errs, "prices.shingle.low")
	assert.Contains(t, errs, "prices.shingle.high")
}

func TestValidate_OK(t *testing.T) {
	errs := Validate(sample{
		Email:  "jane@example.com",
		Prices: map[string]priceForm{"metal": {Low: "150", High: "250.50"}},
	})
	assert.Nil(t, errs)
}

func TestIsDecimal2(t *testing.T) {
	for _, s := range []string{"0", "10", "10.1", "10.10", " 7.00 "} {
		assert.True(t, IsDecimal2(s), s)
	}
	for _, s := range []string{"", "-1", "1.234", "abc", "1."} {
		assert.False(t, IsDecimal2(s), s)
	}
}
