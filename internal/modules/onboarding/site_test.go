package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainPreview(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"acme roofing", "acme-roofing.getroofquotenow.com"},
		{"  acme   roofing co ", "acme-roofing-co.getroofquotenow.com"},
		{"acme_roofing-1", "acme_roofing-1.getroofquotenow.com"},
		{"Acme", ""},
		{"getroofquotenow", ""},
		{"acme.com", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DomainPreview(tt.name), tt.name)
	}
}

func TestSiteConfig_Validate(t *testing.T) {
	assert.Contains(t, SiteConfig{}.Validate(), "site_name")
	assert.Contains(t, SiteConfig{SiteName: "my GetRoofQuoteNow"}.Validate(), "site_name")
	assert.Nil(t, SiteConfig{SiteName: "acme"}.Validate())
	assert.Nil(t, SiteConfig{SiteName: "joe's roofing"}.Validate())

	errs := SiteConfig{SiteName: "acme", Snippets: []Snippet{{Title: "x"}}}.Validate()
	assert.Contains(t, errs, "snippets.0.general_position")
	assert.Contains(t, errs, "snippets.0.general_code")
	assert.NotContains(t, errs, "snippets.0.snippet_title")
}

func TestSiteConfig_AppendGate(t *testing.T) {
	c := NewSiteConfig()
	assert.True(t, c.CanAppendSnippet())
	assert.NoError(t, c.AppendSnippet())
	assert.Equal(t, Position(""), c.Snippets[0].Position)
	assert.False(t, c.CanAppendSnippet())
	assert.ErrorIs(t, c.AppendSnippet(), ErrSnippetIncomplete)
}
