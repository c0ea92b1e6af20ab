package onboarding

import (
	"regexp"
	"strings"
)

type Position string

const (
	PositionAfterHeadOpen   Position = "After <head>"
	PositionBeforeHeadClose Position = "Before </head>"
	PositionAfterBodyOpen   Position = "After <body>"
	PositionBeforeBodyClose Position = "Before </body>"
)

var Positions = []Position{
	PositionAfterHeadOpen,
	PositionBeforeHeadClose,
	PositionAfterBodyOpen,
	PositionBeforeBodyClose,
}

func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

const (
	reservedSiteName = "getroofquotenow"
	siteDomainSuffix = ".getroofquotenow.com"
)

var (
	siteNameCharset = regexp.MustCompile(`^[\w\s-]+$`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// Snippet is a block of code injected at a fixed anchor of the customer's site.
type Snippet struct {
	Title    string   `json:"snippet_title"`
	Position Position `json:"general_position"`
	Code     string   `json:"general_code"`
}

func (s Snippet) Complete() bool {
	return strings.TrimSpace(s.Title) != "" && s.Position != "" && strings.TrimSpace(s.Code) != ""
}

// SiteConfig is collected in step 2.
type SiteConfig struct {
	SiteName string    `json:"site_name"`
	Snippets []Snippet `json:"snippets"`
}

func NewSiteConfig() SiteConfig {
	return SiteConfig{Snippets: []Snippet{}}
}

// DomainPreview is the read-only subdomain derived from the site name, or ""
// while the name is not usable.
func DomainPreview(siteName string) string {
	if !siteNameUsable(siteName) {
		return ""
	}
	slug := whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(siteName)), "-")
	return slug + siteDomainSuffix
}

func siteNameUsable(name string) bool {
	return siteNameCharset.MatchString(name) &&
		!hasUpper(name) &&
		!strings.Contains(strings.ToLower(name), reservedSiteName)
}

func hasUpper(s string) bool {
	return strings.ToLower(s) != s
}

// CanAppendSnippet is false while the last snippet is still incomplete.
func (c *SiteConfig) CanAppendSnippet() bool {
	n := len(c.Snippets)
	return n == 0 || c.Snippets[n-1].Complete()
}

func (c *SiteConfig) AppendSnippet() error {
	if !c.CanAppendSnippet() {
		return ErrSnippetIncomplete
	}
	c.Snippets = append(c.Snippets, Snippet{})
	return nil
}

func (c *SiteConfig) UpdateSnippet(i int, field, value string) error {
	if i < 0 || i >= len(c.Snippets) {
		return ErrSnippetIndex
	}

	switch field {
	case "snippet_title":
		c.Snippets[i].Title = value
	case "general_position":
		pos := Position(value)
		if value != "" && !pos.Valid() {
			return ErrInvalidPosition
		}
		c.Snippets[i].Position = pos
	case "general_code":
		c.Snippets[i].Code = value
	default:
		return ErrUnknownField
	}
	return nil
}

func (c *SiteConfig) RemoveSnippet(i int) error {
	if i < 0 || i >= len(c.Snippets) {
		return ErrSnippetIndex
	}
	c.Snippets = append(c.Snippets[:i], c.Snippets[i+1:]...)
	return nil
}

func (c SiteConfig) clone() SiteConfig {
	out := c
	out.Snippets = append([]Snippet{}, c.Snippets...)
	return out
}
