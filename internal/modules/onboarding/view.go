package onboarding

type StepView struct {
	Number    Step   `json:"number"`
	Title     string `json:"title"`
	Current   bool   `json:"current"`
	Reached   bool   `json:"reached"`
	Clickable bool   `json:"clickable"`
}

// View is what the wizard UI renders.
type View struct {
	State            State           `json:"state"`
	Step             Step            `json:"step"`
	Reached          Step            `json:"reached"`
	Steps            []StepView      `json:"steps"`
	Profile          CustomerProfile `json:"profile"`
	Site             SiteConfig      `json:"site"`
	Shared           Shared          `json:"shared"`
	DomainPreview    string          `json:"domain_preview"`
	Errors           FieldErrors     `json:"errors"`
	CanAdvance       bool            `json:"can_advance"`
	CanAppendSnippet bool            `json:"can_append_snippet"`
	CanSkip          bool            `json:"can_skip"`
	LastError        string          `json:"last_error,omitempty"`
	Materials        []Material      `json:"materials"`
	Positions        []Position      `json:"positions"`
}

func (w *Wizard) View() View {
	current := w.Step()
	steps := make([]StepView, 0, len(stepTitles))
	for n := StepCustomer; n <= StepConfirm; n++ {
		steps = append(steps, StepView{
			Number:    n,
			Title:     stepTitles[n],
			Current:   n == current,
			Reached:   n <= w.Reached,
			Clickable: n != current && n <= w.Reached && w.State != StateSubmitting && w.State != StateSubmitSucceeded,
		})
	}

	siteName := w.Site.SiteName
	if current == StepConfirm && w.Shared.Site != nil {
		siteName = w.Shared.Site.SiteName
	}

	return View{
		State:            w.State,
		Step:             current,
		Reached:          w.Reached,
		Steps:            steps,
		Profile:          w.Profile,
		Site:             w.Site,
		Shared:           w.Shared,
		DomainPreview:    DomainPreview(siteName),
		Errors:           w.VisibleErrors(),
		CanAdvance:       w.CanAdvance(),
		CanAppendSnippet: w.Site.CanAppendSnippet(),
		CanSkip:          w.State == StateStep3Reviewing || w.State == StateSubmitFailed,
		LastError:        w.LastError,
		Materials:        Materials,
		Positions:        Positions,
	}
}
