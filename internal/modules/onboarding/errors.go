package onboarding

import "errors"

var (
	ErrUnknownField       = errors.New("unknown field")
	ErrReadOnlyField      = errors.New("field is read-only")
	ErrInvalidMaterial    = errors.New("invalid roof material")
	ErrMaterialNotOffered = errors.New("material is not offered")
	ErrInvalidPosition    = errors.New("invalid snippet position")
	ErrSnippetIncomplete  = errors.New("last snippet must be complete before adding another")
	ErrSnippetIndex       = errors.New("snippet index out of range")

	ErrStepInvalid      = errors.New("current step has validation errors")
	ErrWrongStep        = errors.New("operation not allowed on the current step")
	ErrInvalidStep      = errors.New("invalid step")
	ErrStepNotReached   = errors.New("step has not been reached yet")
	ErrNoPreviousStep   = errors.New("already on the first step")
	ErrSubmitting       = errors.New("submission in progress")
	ErrAlreadySubmitted = errors.New("onboarding already submitted")
	ErrSubmitFailed     = errors.New("onboarding submission failed")
	ErrSkipNotAllowed   = errors.New("skip is only available on the confirmation step")
	ErrInvalidPayload   = errors.New("invalid submission payload")
)

// StepError carries the field errors that blocked a forward transition.
type StepError struct {
	Step   Step
	Fields FieldErrors
}

func (e *StepError) Error() string {
	return ErrStepInvalid.Error()
}

func (e *StepError) Unwrap() error {
	return ErrStepInvalid
}
