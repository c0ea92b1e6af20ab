package onboarding

import (
	"context"
	"fmt"
	"strings"
)

type State string

const (
	StateStep1Editing    State = "step1_editing"
	StateStep2Editing    State = "step2_editing"
	StateStep3Reviewing  State = "step3_reviewing"
	StateSubmitting      State = "submitting"
	StateSubmitFailed    State = "submit_failed"
	StateSubmitSucceeded State = "submit_succeeded"
)

type Step int

const (
	StepCustomer Step = 1
	StepSite     Step = 2
	StepConfirm  Step = 3
)

const (
	PaymentPath   = "/secure-payment"
	DashboardPath = "/dashboard"
)

var stepTitles = map[Step]string{
	StepCustomer: "Customer Info",
	StepSite:     "Site Info",
	StepConfirm:  "Confirm",
}

// Shared is what the confirmation step reads: snapshots taken when the
// user advanced past step 1 and step 2.
type Shared struct {
	Customer *CustomerProfile `json:"customer,omitempty"`
	Site     *SiteConfig      `json:"site,omitempty"`
}

// Wizard is the per-user onboarding state container. It is a plain value so
// it can be persisted between requests.
type Wizard struct {
	State     State           `json:"state"`
	Reached   Step            `json:"reached"`
	Profile   CustomerProfile `json:"profile"`
	Site      SiteConfig      `json:"site"`
	Shared    Shared          `json:"shared"`
	Touched   map[string]bool `json:"touched"`
	LastError string          `json:"last_error,omitempty"`
}

func NewWizard(email string) *Wizard {
	return &Wizard{
		State:   StateStep1Editing,
		Reached: StepCustomer,
		Profile: NewCustomerProfile(email),
		Site:    NewSiteConfig(),
		Touched: map[string]bool{},
	}
}

// Submitter performs the two backend calls of the final step.
type Submitter interface {
	OnboardUser(ctx context.Context, userID int64, payload any) error
	CreateRoofingPrice(ctx context.Context, payload any) error
}

func (w *Wizard) Step() Step {
	switch w.State {
	case StateStep1Editing:
		return StepCustomer
	case StateStep2Editing:
		return StepSite
	default:
		return StepConfirm
	}
}

func (w *Wizard) touch(path string) {
	if w.Touched == nil {
		w.Touched = map[string]bool{}
	}
	w.Touched[path] = true
}

func (w *Wizard) requireState(allowed ...State) error {
	for _, s := range allowed {
		if w.State == s {
			return nil
		}
	}
	switch w.State {
	case StateSubmitting:
		return ErrSubmitting
	case StateSubmitSucceeded:
		return ErrAlreadySubmitted
	}
	return ErrWrongStep
}

func (w *Wizard) SetCustomerField(field, value string) error {
	if err := w.requireState(StateStep1Editing); err != nil {
		return err
	}
	if err := w.Profile.SetField(field, value); err != nil {
		return err
	}
	w.touch(field)
	return nil
}

func (w *Wizard) ToggleMaterial(m Material) error {
	if err := w.requireState(StateStep1Editing); err != nil {
		return err
	}
	if _, ok := ParseMaterial(string(m)); !ok {
		return ErrInvalidMaterial
	}
	w.Profile.ToggleMaterial(m)
	w.touch("roof_materials")
	if !w.Profile.Offers(m) {
		for path := range w.Touched {
			if relatedPath(path, "prices."+string(m)) {
				delete(w.Touched, path)
			}
		}
	}
	return nil
}

func (w *Wizard) SetPrice(m Material, bound PriceBound, value string) error {
	if err := w.requireState(StateStep1Editing); err != nil {
		return err
	}
	if err := w.Profile.SetPrice(m, bound, value); err != nil {
		return err
	}
	w.touch(fmt.Sprintf("prices.%s.%s", m, bound))
	return nil
}

func (w *Wizard) SetSiteName(name string) error {
	if err := w.requireState(StateStep2Editing); err != nil {
		return err
	}
	w.Site.SiteName = name
	w.touch("site_name")
	return nil
}

func (w *Wizard) AppendSnippet() error {
	if err := w.requireState(StateStep2Editing); err != nil {
		return err
	}
	return w.Site.AppendSnippet()
}

func (w *Wizard) UpdateSnippet(i int, field, value string) error {
	if err := w.requireState(StateStep2Editing); err != nil {
		return err
	}
	if err := w.Site.UpdateSnippet(i, field, value); err != nil {
		return err
	}
	w.touch(fmt.Sprintf("snippets.%d.%s", i, field))
	return nil
}

func (w *Wizard) RemoveSnippet(i int) error {
	if err := w.requireState(StateStep2Editing); err != nil {
		return err
	}
	if err := w.Site.RemoveSnippet(i); err != nil {
		return err
	}
	// indices after i shifted; drop their touched marks rather than remap
	for path := range w.Touched {
		if strings.HasPrefix(path, "snippets.") {
			delete(w.Touched, path)
		}
	}
	return nil
}

// Errors is the full validation result of the current step.
func (w *Wizard) Errors() FieldErrors {
	switch w.Step() {
	case StepCustomer:
		return w.Profile.Validate()
	case StepSite:
		return w.Site.Validate()
	default:
		if w.Shared.Customer == nil {
			return FieldErrors{"customer": "Customer information is missing"}
		}
		return nil
	}
}

// VisibleErrors is Errors limited to fields the user has interacted with.
func (w *Wizard) VisibleErrors() FieldErrors {
	return w.Errors().visible(w.Touched)
}

func (w *Wizard) CanAdvance() bool {
	if w.Step() == StepConfirm {
		return (w.State == StateStep3Reviewing || w.State == StateSubmitFailed) && len(w.Errors()) == 0
	}
	return len(w.Errors()) == 0
}

// Next moves forward one step when the current step is valid. On failure all
// offending fields are marked touched so their errors become visible.
func (w *Wizard) Next() error {
	switch w.State {
	case StateStep1Editing:
		if errs := w.Profile.Validate(); errs != nil {
			w.touchAll(errs)
			return &StepError{Step: StepCustomer, Fields: errs}
		}
		snapshot := w.Profile.clone()
		w.Shared.Customer = &snapshot
		w.State = StateStep2Editing
		w.reach(StepSite)
		return nil
	case StateStep2Editing:
		if errs := w.Site.Validate(); errs != nil {
			w.touchAll(errs)
			return &StepError{Step: StepSite, Fields: errs}
		}
		snapshot := w.Site.clone()
		w.Shared.Site = &snapshot
		w.State = StateStep3Reviewing
		w.reach(StepConfirm)
		return nil
	case StateStep3Reviewing, StateSubmitFailed:
		return ErrWrongStep
	}
	return w.requireState()
}

// Back always succeeds from step 2 and 3 and keeps collected data.
func (w *Wizard) Back() error {
	switch w.State {
	case StateStep1Editing:
		return ErrNoPreviousStep
	case StateStep2Editing:
		w.State = StateStep1Editing
		return nil
	case StateStep3Reviewing, StateSubmitFailed:
		w.State = StateStep2Editing
		w.LastError = ""
		return nil
	}
	return w.requireState()
}

// GoTo jumps backwards freely, forwards only up to the highest step reached,
// passing through Next so each crossed step is still validated.
func (w *Wizard) GoTo(target Step) error {
	if target < StepCustomer || target > StepConfirm {
		return ErrInvalidStep
	}
	if err := w.requireState(StateStep1Editing, StateStep2Editing, StateStep3Reviewing, StateSubmitFailed); err != nil {
		return err
	}

	current := w.Step()
	switch {
	case target == current:
		return nil
	case target < current:
		w.LastError = ""
		if target == StepCustomer {
			w.State = StateStep1Editing
		} else {
			w.State = StateStep2Editing
		}
		return nil
	case target > w.Reached:
		return ErrStepNotReached
	}

	for w.Step() < target {
		if err := w.Next(); err != nil {
			return err
		}
	}
	return nil
}

// Submit sends the onboarding profile and then the derived price sheet. The
// price sheet is only created once onboarding succeeded; a failure leaves the
// wizard on the confirmation step with the cause recorded, ready to retry.
func (w *Wizard) Submit(ctx context.Context, userID int64, submitter Submitter) error {
	if err := w.requireState(StateStep3Reviewing, StateSubmitFailed); err != nil {
		return err
	}
	if w.Shared.Customer == nil {
		return ErrStepInvalid
	}
	if errs := w.Shared.Customer.Validate(); errs != nil {
		return &StepError{Step: StepCustomer, Fields: errs}
	}

	payloads, err := BuildPayloads(userID, *w.Shared.Customer, w.Shared.Site)
	if err != nil {
		return err
	}

	w.State = StateSubmitting
	w.LastError = ""

	if err := submitter.OnboardUser(ctx, userID, payloads.Onboard); err != nil {
		return w.fail("onboard user", err)
	}
	if err := submitter.CreateRoofingPrice(ctx, payloads.RoofingPrice); err != nil {
		return w.fail("create roofing price", err)
	}

	w.State = StateSubmitSucceeded
	return nil
}

func (w *Wizard) fail(op string, err error) error {
	w.State = StateSubmitFailed
	w.LastError = fmt.Sprintf("%s: %v", op, err)
	return fmt.Errorf("%w: %s: %w", ErrSubmitFailed, op, err)
}

// Skip leaves the wizard unsubmitted and returns where to go instead.
func (w *Wizard) Skip() (string, error) {
	if w.State != StateStep3Reviewing && w.State != StateSubmitFailed {
		if w.State == StateSubmitting {
			return "", ErrSubmitting
		}
		return "", ErrSkipNotAllowed
	}
	return DashboardPath, nil
}

func (w *Wizard) reach(s Step) {
	if s > w.Reached {
		w.Reached = s
	}
}

func (w *Wizard) touchAll(errs FieldErrors) {
	for path := range errs {
		w.touch(path)
	}
}
