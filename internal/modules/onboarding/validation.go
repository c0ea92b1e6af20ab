package onboarding

import (
	"fmt"
	"strings"

	"roofestimator/internal/pkg/validator"
)

// FieldErrors maps json field paths ("prices.shingle.high") to messages.
type FieldErrors map[string]string

func (f FieldErrors) add(path, msg string) {
	if _, exists := f[path]; !exists {
		f[path] = msg
	}
}

// Validate checks the struct rules plus the price invariants: every offered
// material has a complete range with high >= low, and no price is orphaned.
func (p CustomerProfile) Validate() FieldErrors {
	errs := FieldErrors(validator.Validate(p))
	if errs == nil {
		errs = FieldErrors{}
	}

	for _, m := range p.RoofMaterials {
		path := "prices." + string(m)
		price, ok := p.Prices[m]
		if !ok || !price.Complete() {
			errs.add(path, "Price range is required for "+string(m))
			continue
		}
		low, lowOK := validator.ParseDecimal(price.Low)
		high, highOK := validator.ParseDecimal(price.High)
		if lowOK && highOK && high.Cmp(low) < 0 {
			errs.add(path+".high", "High price must be greater than or equal to low price")
		}
	}
	for m := range p.Prices {
		if !p.Offers(m) {
			errs.add("prices."+string(m), fmt.Sprintf("Price set for %s which is not offered", m))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks the site name rules and that every snippet is fully populated.
// Names outside the subdomain charset are accepted; they just get no preview.
func (c SiteConfig) Validate() FieldErrors {
	errs := FieldErrors{}

	name := c.SiteName
	switch {
	case strings.TrimSpace(name) == "":
		errs.add("site_name", "Site name is required")
	case hasUpper(name):
		errs.add("site_name", "Site name must not contain capital letters.")
	case strings.Contains(strings.ToLower(name), reservedSiteName):
		errs.add("site_name", fmt.Sprintf("Site name must not contain %q.", reservedSiteName))
	}

	for i, s := range c.Snippets {
		prefix := fmt.Sprintf("snippets.%d.", i)
		if strings.TrimSpace(s.Title) == "" {
			errs.add(prefix+"snippet_title", "Snippet title is required")
		}
		if !s.Position.Valid() {
			errs.add(prefix+"general_position", "Snippet position is required")
		}
		if strings.TrimSpace(s.Code) == "" {
			errs.add(prefix+"general_code", "Snippet code is required")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// visible keeps errors whose path is related to a touched path.
func (f FieldErrors) visible(touched map[string]bool) FieldErrors {
	out := FieldErrors{}
	for path, msg := range f {
		for t := range touched {
			if relatedPath(path, t) {
				out[path] = msg
				break
			}
		}
	}
	return out
}

func relatedPath(a, b string) bool {
	if a == b {
		return true
	}
	return strings.HasPrefix(a, b+".") || strings.HasPrefix(b, a+".")
}
