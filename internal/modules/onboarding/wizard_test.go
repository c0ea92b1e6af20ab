package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	calls      []string
	onboardErr error
	priceErr   error
	onboard    any
	price      any
}

func (r *recordingSubmitter) OnboardUser(ctx context.Context, userID int64, payload any) error {
	r.calls = append(r.calls, "onboard")
	r.onboard = payload
	return r.onboardErr
}

func (r *recordingSubmitter) CreateRoofingPrice(ctx context.Context, payload any) error {
	r.calls = append(r.calls, "roofing_price")
	r.price = payload
	return r.priceErr
}

func fillStep1(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.SetCustomerField("name", "Jane Doe"))
	require.NoError(t, w.SetCustomerField("company_name", "Acme Roofing"))
	require.NoError(t, w.SetCustomerField("waste_factor", "10.00"))
	require.NoError(t, w.ToggleMaterial(MaterialShingle))
	require.NoError(t, w.ToggleMaterial(MaterialMetal))
	require.NoError(t, w.SetPrice(MaterialShingle, BoundLow, "100"))
	require.NoError(t, w.SetPrice(MaterialShingle, BoundHigh, "200"))
	require.NoError(t, w.SetPrice(MaterialMetal, BoundLow, "150"))
	require.NoError(t, w.SetPrice(MaterialMetal, BoundHigh, "250"))
}

func fillStep2(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.SetSiteName("acme roofing"))
	require.NoError(t, w.AppendSnippet())
	require.NoError(t, w.UpdateSnippet(0, "snippet_title", "Analytics"))
	require.NoError(t, w.UpdateSnippet(0, "general_position", string(PositionBeforeHeadClose)))
	require.NoError(t, w.UpdateSnippet(0, "general_code", "<script></script>"))
}

func reviewingWizard(t *testing.T) *Wizard {
	t.Helper()
	w := NewWizard("jane@example.com")
	fillStep1(t, w)
	require.NoError(t, w.Next())
	fillStep2(t, w)
	require.NoError(t, w.Next())
	require.Equal(t, StateStep3Reviewing, w.State)
	return w
}

func TestNewWizard(t *testing.T) {
	w := NewWizard("jane@example.com")

	assert.Equal(t, StateStep1Editing, w.State)
	assert.Equal(t, StepCustomer, w.Reached)
	assert.Equal(t, "jane@example.com", w.Profile.Email)
	assert.Empty(t, w.Profile.RoofMaterials)
	assert.Empty(t, w.Site.Snippets)
	assert.Nil(t, w.Shared.Customer)
}

func TestWizard_EmailIsReadOnly(t *testing.T) {
	w := NewWizard("jane@example.com")
	assert.ErrorIs(t, w.SetCustomerField("email", "other@example.com"), ErrReadOnlyField)
	assert.ErrorIs(t, w.SetCustomerField("favourite_colour", "red"), ErrUnknownField)
	assert.Equal(t, "jane@example.com", w.Profile.Email)
}

func TestWizard_Step1BlockedUntilPricesValid(t *testing.T) {
	w := NewWizard("jane@example.com")
	require.NoError(t, w.SetCustomerField("name", "Jane Doe"))
	require.NoError(t, w.SetCustomerField("company_name", "Acme Roofing"))
	require.NoError(t, w.ToggleMaterial(MaterialShingle))

	assert.False(t, w.CanAdvance())
	err := w.Next()
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Contains(t, stepErr.Fields, "prices.shingle")
	assert.Equal(t, StateStep1Editing, w.State)

	require.NoError(t, w.SetPrice(MaterialShingle, BoundLow, "200"))
	require.NoError(t, w.SetPrice(MaterialShingle, BoundHigh, "100"))
	assert.False(t, w.CanAdvance())
	assert.Contains(t, w.Errors(), "prices.shingle.high")

	require.NoError(t, w.SetPrice(MaterialShingle, BoundLow, "0"))
	require.NoError(t, w.SetPrice(MaterialShingle, BoundHigh, "100"))
	assert.Contains(t, w.Errors(), "prices.shingle.low")

	require.NoError(t, w.SetPrice(MaterialShingle, BoundLow, "100"))
	assert.True(t, w.CanAdvance(), "equal low/high is allowed: %v", w.Errors())
	require.NoError(t, w.Next())
	assert.Equal(t, StateStep2Editing, w.State)
}

func TestWizard_RequiresAtLeastOneMaterial(t *testing.T) {
	w := NewWizard("jane@example.com")
	require.NoError(t, w.SetCustomerField("name", "Jane Doe"))
	require.NoError(t, w.SetCustomerField("company_name", "Acme Roofing"))

	assert.Contains(t, w.Errors(), "roof_materials")
}

func TestWizard_ToggleOffRemovesPrices(t *testing.T) {
	w := NewWizard("jane@example.com")
	fillStep1(t, w)

	require.NoError(t, w.ToggleMaterial(MaterialMetal))
	assert.Equal(t, []Material{MaterialShingle}, w.Profile.RoofMaterials)
	assert.NotContains(t, w.Profile.Prices, MaterialMetal)
	assert.Contains(t, w.Profile.Prices, MaterialShingle)

	require.NoError(t, w.ToggleMaterial(MaterialMetal))
	assert.Equal(t, PriceRange{}, w.Profile.Prices[MaterialMetal])
}

func TestWizard_ToggleSequencesNeverOrphanPrices(t *testing.T) {
	w := NewWizard("jane@example.com")
	sequence := []Material{MaterialTile, MaterialCedar, MaterialTile, MaterialShingle, MaterialCedar, MaterialMetal, MaterialShingle}
	for _, m := range sequence {
		require.NoError(t, w.ToggleMaterial(m))
		for priced := range w.Profile.Prices {
			assert.True(t, w.Profile.Offers(priced), "orphan price for %s", priced)
		}
		assert.Len(t, w.Profile.Prices, len(w.Profile.RoofMaterials))
	}
	assert.Equal(t, []Material{MaterialMetal}, w.Profile.RoofMaterials)
}

func TestWizard_SetPriceRequiresOfferedMaterial(t *testing.T) {
	w := NewWizard("jane@example.com")
	assert.ErrorIs(t, w.SetPrice(MaterialTile, BoundLow, "10"), ErrMaterialNotOffered)
}

func TestWizard_VisibleErrorsOnlyForTouchedFields(t *testing.T) {
	w := NewWizard("jane@example.com")
	assert.NotEmpty(t, w.Errors())
	assert.Empty(t, w.VisibleErrors())

	require.NoError(t, w.SetCustomerField("company_website", "not a url"))
	visible := w.VisibleErrors()
	assert.Contains(t, visible, "company_website")
	assert.NotContains(t, visible, "name")

	// a failed Next reveals everything that blocked it
	require.Error(t, w.Next())
	assert.Contains(t, w.VisibleErrors(), "name")
}

func TestWizard_ForwardJumpNeedsReachedStep(t *testing.T) {
	w := NewWizard("jane@example.com")
	fillStep1(t, w)

	assert.ErrorIs(t, w.GoTo(StepSite), ErrStepNotReached)
	assert.ErrorIs(t, w.GoTo(4), ErrInvalidStep)

	require.NoError(t, w.Next())
	assert.ErrorIs(t, w.GoTo(StepConfirm), ErrStepNotReached)

	require.NoError(t, w.GoTo(StepCustomer))
	assert.Equal(t, StateStep1Editing, w.State)
	require.NoError(t, w.GoTo(StepSite))
	assert.Equal(t, StateStep2Editing, w.State)
}

func TestWizard_BackKeepsData(t *testing.T) {
	w := reviewingWizard(t)

	require.NoError(t, w.Back())
	assert.Equal(t, StateStep2Editing, w.State)
	require.NoError(t, w.Back())
	assert.Equal(t, StateStep1Editing, w.State)
	assert.ErrorIs(t, w.Back(), ErrNoPreviousStep)

	assert.Equal(t, "Jane Doe", w.Profile.Name)
	assert.Equal(t, "acme roofing", w.Site.SiteName)
	assert.Equal(t, StepConfirm, w.Reached)

	require.NoError(t, w.GoTo(StepConfirm))
	assert.Equal(t, StateStep3Reviewing, w.State)
}

func TestWizard_JumpForwardRevalidates(t *testing.T) {
	w := reviewingWizard(t)
	require.NoError(t, w.GoTo(StepCustomer))
	require.NoError(t, w.SetCustomerField("name", ""))

	err := w.GoTo(StepConfirm)
	assert.ErrorIs(t, err, ErrStepInvalid)
	assert.Equal(t, StateStep1Editing, w.State)
}

func TestWizard_SharedStoreIsSnapshot(t *testing.T) {
	w := NewWizard("jane@example.com")
	fillStep1(t, w)
	require.NoError(t, w.Next())
	require.NoError(t, w.Back())
	require.NoError(t, w.SetCustomerField("name", "Changed"))

	assert.Equal(t, "Jane Doe", w.Shared.Customer.Name)
}

func TestWizard_MutationsBoundToStep(t *testing.T) {
	w := NewWizard("jane@example.com")
	assert.ErrorIs(t, w.SetSiteName("acme"), ErrWrongStep)
	assert.ErrorIs(t, w.AppendSnippet(), ErrWrongStep)

	fillStep1(t, w)
	require.NoError(t, w.Next())
	assert.ErrorIs(t, w.SetCustomerField("name", "x"), ErrWrongStep)
}

func TestWizard_Step2Rules(t *testing.T) {
	w := NewWizard("jane@example.com")
	fillStep1(t, w)
	require.NoError(t, w.Next())

	require.NoError(t, w.SetSiteName("Acme"))
	assert.Contains(t, w.Errors(), "site_name")
	require.NoError(t, w.SetSiteName("my getroofquotenow site"))
	assert.Contains(t, w.Errors(), "site_name")
	require.NoError(t, w.SetSiteName("acme roofing"))
	assert.Nil(t, w.Errors())

	require.NoError(t, w.AppendSnippet())
	assert.ErrorIs(t, w.AppendSnippet(), ErrSnippetIncomplete)
	assert.Error(t, w.Next())

	require.NoError(t, w.UpdateSnippet(0, "snippet_title", "Chat"))
	require.NoError(t, w.UpdateSnippet(0, "general_position", string(PositionAfterBodyOpen)))
	assert.ErrorIs(t, w.UpdateSnippet(0, "general_position", "head"), ErrInvalidPosition)
	require.NoError(t, w.UpdateSnippet(0, "general_code", "<div></div>"))
	require.NoError(t, w.AppendSnippet())
	require.NoError(t, w.RemoveSnippet(1))
	assert.ErrorIs(t, w.RemoveSnippet(3), ErrSnippetIndex)

	require.NoError(t, w.Next())
	assert.Equal(t, StateStep3Reviewing, w.State)
	require.NotNil(t, w.Shared.Site)
	assert.Len(t, w.Shared.Site.Snippets, 1)
}

func TestWizard_PunctuatedSiteNameAdvances(t *testing.T) {
	w := NewWizard("jane@example.com")
	fillStep1(t, w)
	require.NoError(t, w.Next())

	require.NoError(t, w.SetSiteName("joe's roofing"))
	assert.Nil(t, w.Errors())
	assert.Empty(t, w.View().DomainPreview)

	require.NoError(t, w.Next())
	assert.Equal(t, StateStep3Reviewing, w.State)
	assert.Equal(t, "joe's roofing", w.Shared.Site.SiteName)
}

func TestWizard_SubmitSuccess(t *testing.T) {
	w := reviewingWizard(t)
	sub := &recordingSubmitter{}

	require.NoError(t, w.Submit(context.Background(), 7, sub))

	assert.Equal(t, StateSubmitSucceeded, w.State)
	assert.Equal(t, []string{"onboard", "roofing_price"}, sub.calls)

	onboard := sub.onboard.(OnboardPayload)
	assert.Equal(t, "Jane Doe", onboard.Name)
	assert.Equal(t, "acme roofing", onboard.SiteName)

	price := sub.price.(RoofingPricePayload)
	assert.Equal(t, int64(7), price.User)
	assert.Equal(t, "10.10", price.WasterFactor.String())

	assert.ErrorIs(t, w.Submit(context.Background(), 7, sub), ErrAlreadySubmitted)
}

func TestWizard_SubmitOnboardFailureSkipsPricing(t *testing.T) {
	w := reviewingWizard(t)
	sub := &recordingSubmitter{onboardErr: errors.New("status 500: boom")}

	err := w.Submit(context.Background(), 7, sub)
	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.Equal(t, StateSubmitFailed, w.State)
	assert.Equal(t, []string{"onboard"}, sub.calls)
	assert.Contains(t, w.LastError, "boom")
	assert.Equal(t, StepConfirm, w.Step())

	// re-submitting is the retry
	sub.onboardErr = nil
	require.NoError(t, w.Submit(context.Background(), 7, sub))
	assert.Equal(t, StateSubmitSucceeded, w.State)
	assert.Empty(t, w.LastError)
}

func TestWizard_SubmitPricingFailure(t *testing.T) {
	w := reviewingWizard(t)
	sub := &recordingSubmitter{priceErr: errors.New("bad gateway")}

	err := w.Submit(context.Background(), 7, sub)
	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.Equal(t, []string{"onboard", "roofing_price"}, sub.calls)
	assert.Contains(t, w.LastError, "create roofing price")
}

func TestWizard_SubmitOnlyFromReview(t *testing.T) {
	w := NewWizard("jane@example.com")
	assert.ErrorIs(t, w.Submit(context.Background(), 7, &recordingSubmitter{}), ErrWrongStep)
}

func TestWizard_Skip(t *testing.T) {
	w := NewWizard("jane@example.com")
	_, err := w.Skip()
	assert.ErrorIs(t, err, ErrSkipNotAllowed)

	w = reviewingWizard(t)
	location, err := w.Skip()
	require.NoError(t, err)
	assert.Equal(t, DashboardPath, location)
	assert.Equal(t, StateStep3Reviewing, w.State)
}

func TestWizard_View(t *testing.T) {
	w := reviewingWizard(t)
	v := w.View()

	assert.Equal(t, StepConfirm, v.Step)
	assert.Equal(t, "acme-roofing.getroofquotenow.com", v.DomainPreview)
	assert.True(t, v.CanAdvance)
	assert.True(t, v.CanSkip)
	require.Len(t, v.Steps, 3)
	assert.True(t, v.Steps[0].Clickable)
	assert.False(t, v.Steps[2].Clickable)
}
