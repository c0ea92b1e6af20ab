package leads

import (
	"net/url"
	"strconv"
	"strings"
)

type SortDir string

const (
	SortNone SortDir = ""
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// PageSizes are the sizes the table offers.
var PageSizes = []int{5, 10, 15, 20}

// Columns are the sortable table columns, in display order.
var Columns = []string{"name", "email", "estimated", "address", "created_at"}

// QueryState is the table's view state. Its canonical form is the URL query.
type QueryState struct {
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	Query      string  `json:"query"`
	SortKey    string  `json:"sort_key,omitempty"`
	SortDir    SortDir `json:"sort_order,omitempty"`
	BulkDelete bool    `json:"bulk_delete"`
}

func DefaultQuery() QueryState {
	return QueryState{Page: DefaultPage, PageSize: DefaultPageSize}
}

func validPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

func sortable(column string) bool {
	for _, c := range Columns {
		if c == column {
			return true
		}
	}
	return false
}

// ParseQuery reads the table state from URL parameters. Anything malformed
// falls back to its default, so every URL maps to a usable state.
func ParseQuery(v url.Values) QueryState {
	q := DefaultQuery()

	if n, err := strconv.Atoi(v.Get("page")); err == nil && n >= 1 {
		q.Page = n
	}
	if n, err := strconv.Atoi(v.Get("page_size")); err == nil && validPageSize(n) {
		q.PageSize = n
	}
	q.Query = trimQuery(v.Get("query"))

	switch dir := SortDir(strings.ToLower(v.Get("sort_order"))); dir {
	case SortAsc, SortDesc:
		q.SortDir = dir
		if key := v.Get("sort_key"); sortable(key) {
			q.SortKey = key
		}
	}
	q.BulkDelete = v.Get("bulkDelete") == "true"
	return q
}

// Values is the canonical encoding: defaults and empty values are left out,
// so an empty search never shows up as "query=".
func (q QueryState) Values() url.Values {
	v := url.Values{}
	if q.Page > DefaultPage {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize != DefaultPageSize && validPageSize(q.PageSize) {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Query != "" {
		v.Set("query", q.Query)
	}
	if q.SortDir != SortNone {
		v.Set("sort_order", string(q.SortDir))
		if q.SortKey != "" {
			v.Set("sort_key", q.SortKey)
		}
	}
	if q.BulkDelete {
		v.Set("bulkDelete", "true")
	}
	return v
}

func (q QueryState) Encode() string {
	return q.Values().Encode()
}

// URL returns the table location for this state.
func (q QueryState) URL(base string) string {
	if enc := q.Encode(); enc != "" {
		return base + "?" + enc
	}
	return base
}

// nextSort rotates one column through none -> asc -> desc -> none. A different
// column always starts at asc.
func (q QueryState) nextSort(column string) QueryState {
	if q.SortKey != column || q.SortDir == SortNone {
		q.SortKey = column
		q.SortDir = SortAsc
		return q
	}
	switch q.SortDir {
	case SortAsc:
		q.SortDir = SortDesc
	default:
		q.SortKey = ""
		q.SortDir = SortNone
	}
	return q
}

func trimQuery(s string) string {
	return strings.TrimSpace(s)
}
