package payment

// SetupIntent is the part of a processor setup intent the BFF looks at.
type SetupIntent struct {
	ID              string
	Status          string
	ClientSecret    string
	PaymentMethodID string
}

type IntentResponse struct {
	ClientSecret   string `json:"client_secret" example:"seti_1Abc_secret_xyz"`
	PublishableKey string `json:"publishable_key" example:"pk_test_123"`
	Amount         int64  `json:"amount" example:"999"`
}

type ConfirmRequest struct {
	ClientSecret string `json:"client_secret" binding:"required" example:"seti_1Abc_secret_xyz"`
}

type ConfirmResponse struct {
	PaymentMethodID string `json:"payment_method_id" example:"pm_123"`
	Redirect        string `json:"redirect" example:"/pay"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"invalid request"`
}
