package leads

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parse(raw string) QueryState {
	v, _ := url.ParseQuery(raw)
	return ParseQuery(v)
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want QueryState
	}{
		{"defaults", "", QueryState{Page: 1, PageSize: 20}},
		{"full", "page=2&page_size=5&sort_order=asc&sort_key=email&query=jane&bulkDelete=true",
			QueryState{Page: 2, PageSize: 5, SortDir: SortAsc, SortKey: "email", Query: "jane", BulkDelete: true}},
		{"bad page", "page=-3&page_size=7", QueryState{Page: 1, PageSize: 20}},
		{"bad sort", "sort_order=sideways&sort_key=email", QueryState{Page: 1, PageSize: 20}},
		{"unknown sort key", "sort_order=desc&sort_key=password", QueryState{Page: 1, PageSize: 20, SortDir: SortDesc}},
		{"blank query", "query=%20%20", QueryState{Page: 1, PageSize: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parse(tt.raw))
		})
	}
}

func TestQueryState_CanonicalEncoding(t *testing.T) {
	assert.Equal(t, "", DefaultQuery().Encode())
	assert.Equal(t, "/leads", DefaultQuery().URL(BasePath))

	q := QueryState{Page: 2, PageSize: 5, SortDir: SortAsc}
	assert.Equal(t, "page=2&page_size=5&sort_order=asc", q.Encode())

	q = QueryState{Page: 1, PageSize: 20, Query: ""}
	assert.NotContains(t, q.Encode(), "query")

	q = QueryState{Page: 1, PageSize: 20, BulkDelete: true, Query: "a b"}
	assert.Equal(t, "/leads?bulkDelete=true&query=a+b", q.URL(BasePath))

	// round trip through the URL keeps the state
	q = QueryState{Page: 3, PageSize: 10, Query: "roof", SortKey: "name", SortDir: SortDesc}
	assert.Equal(t, q, parse(q.Encode()))
}

func TestQueryState_SortCycle(t *testing.T) {
	q := DefaultQuery()

	q = q.nextSort("name")
	assert.Equal(t, SortAsc, q.SortDir)
	q = q.nextSort("name")
	assert.Equal(t, SortDesc, q.SortDir)
	q = q.nextSort("name")
	assert.Equal(t, SortNone, q.SortDir)
	assert.Equal(t, "", q.SortKey)

	q = q.nextSort("name").nextSort("name")
	q = q.nextSort("email")
	assert.Equal(t, "email", q.SortKey)
	assert.Equal(t, SortAsc, q.SortDir)
}
