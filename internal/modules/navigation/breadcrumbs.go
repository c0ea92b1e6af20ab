// Package navigation derives the breadcrumb trail shown above app pages.
package navigation

import (
	"regexp"
	"strings"
)

const DashboardPath = "/dashboard"

type Crumb struct {
	Label    string `json:"label"`
	Href     string `json:"href"`
	IsActive bool   `json:"is_active"`
}

var numericSegment = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

var labels = map[string]string{
	"dashboard": "Dashboard",
	"leads":     "Leads",
	"create":    "Create Lead",
	"edit":      "Update Lead",
	"users":     "Users",
	"update":    "Update User",
}

// Build returns the crumbs for path, always starting with the Dashboard root.
// Numeric segments only appear under "leads", as the lead edit page.
func Build(path string) []Crumb {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	if len(segments) == 1 && segments[0] == "dashboard" {
		return []Crumb{{Label: "Dashboard", Href: DashboardPath, IsActive: true}}
	}

	crumbs := []Crumb{{Label: "Dashboard", Href: DashboardPath}}
	href := ""
	for i, segment := range segments {
		href += "/" + segment
		last := i == len(segments)-1

		if numeric(segment) {
			if i > 0 && segments[i-1] == "leads" {
				crumbs = append(crumbs, Crumb{Label: "Update Lead", Href: href, IsActive: last})
			}
			continue
		}

		label, ok := labels[strings.ToLower(segment)]
		if !ok {
			label = titleCase(strings.ReplaceAll(segment, "-", " "))
		}
		crumbs = append(crumbs, Crumb{Label: label, Href: href, IsActive: last})
	}
	return crumbs
}

// numeric accepts plain decimal numbers only; "NaN" and "inf" are words.
func numeric(s string) bool {
	return numericSegment.MatchString(strings.TrimSpace(s))
}

// titleCase upper-cases every word character that starts a word.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevWord := false
	for _, r := range s {
		w := isWordChar(r)
		if w && !prevWord && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		b.WriteRune(r)
		prevWord = w
	}
	return b.String()
}

func isWordChar(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
