package validator

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var decimal2Pattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("decimal2", isDecimal2)
	_ = validate.RegisterValidation("positive_decimal", isPositiveDecimal)
	_ = validate.RegisterValidation("digits", isDigits)
}

// Validate struct fields. Keys are json paths without the root struct name
// (e.g. "prices.shingle.low"), values are human readable messages.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fieldPath(fe.Namespace())] = message(fe)
	}
	return out
}

// Var validates a single value against a tag expression.
func Var(value interface{}, tag string) error {
	return validate.Var(value, tag)
}

// IsDecimal2 reports whether s is a non-negative decimal with at most two fraction digits.
func IsDecimal2(s string) bool {
	return decimal2Pattern.MatchString(strings.TrimSpace(s))
}

// ParseDecimal parses a decimal string exactly.
func ParseDecimal(s string) (*big.Rat, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(s)
	return r, ok
}

func isDecimal2(fl validator.FieldLevel) bool {
	return IsDecimal2(fl.Field().String())
}

func isPositiveDecimal(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !IsDecimal2(s) {
		return false
	}
	r, ok := ParseDecimal(s)
	return ok && r.Sign() > 0
}

func isDigits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with":
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "url", "http_url":
		return "Must be a valid URL"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("Select at least %s", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "decimal2":
		return "Must be a number with up to 2 decimal places"
	case "positive_decimal":
		return "Must be a positive number with up to 2 decimal places"
	case "digits":
		return "Must contain digits only"
	case "lowercase":
		return "Must not contain uppercase letters"
	case "dive":
		return "Invalid item"
	default:
		return fmt.Sprintf("Failed on %s", fe.Tag())
	}
}
