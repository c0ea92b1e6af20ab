// Package confirm implements the typed-confirmation gate used before destructive actions.
package confirm

import (
	"fmt"
	"strings"
)

// Gate enables a destructive action once the operator typed Expected.
// With RequireText false a plain affirm is enough.
type Gate struct {
	Title       string `json:"title"`
	Expected    string `json:"expected"`
	RequireText bool   `json:"require_text"`
}

// Enabled trims entered once and compares it case-sensitively.
func (g Gate) Enabled(entered string) bool {
	if !g.RequireText {
		return true
	}
	return strings.TrimSpace(entered) == g.Expected
}

// ForName is the gate for deleting a single named record.
func ForName(first, last string) Gate {
	return Gate{
		Title:       "Delete",
		Expected:    strings.TrimSpace(first + " " + last),
		RequireText: true,
	}
}

// ForBulk is the gate for deleting n selected records.
func ForBulk(n int, noun string) Gate {
	return Gate{
		Title:       "Delete",
		Expected:    fmt.Sprintf("%d selected %s", n, noun),
		RequireText: false,
	}
}

// Label is what the dialog shows as the target.
func (g Gate) Label() string {
	return strings.TrimSpace(g.Title + " " + g.Expected)
}
