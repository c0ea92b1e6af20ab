package leads

import (
	"roofestimator/internal/backend"
)

type ConfirmView struct {
	Title       string  `json:"title"`
	Label       string  `json:"label"`
	Expected    string  `json:"expected"`
	RequireText bool    `json:"require_text"`
	IDs         []int64 `json:"ids"`
	Deleting    bool    `json:"deleting"`
	Error       string  `json:"error,omitempty"`
}

// View is a snapshot of the table for rendering.
type View struct {
	Query       QueryState     `json:"query"`
	URL         string         `json:"url"`
	Rows        []backend.Lead `json:"rows"`
	Count       int            `json:"count"`
	Status      string         `json:"status,omitempty"`
	Pagination  Pagination     `json:"pagination"`
	SearchText  string         `json:"search_text"`
	Columns     []string       `json:"columns"`
	CanBulk     bool           `json:"can_bulk"`
	BulkMode    bool           `json:"bulk_mode"`
	Selected    []int64        `json:"selected"`
	AllSelected bool           `json:"all_selected"`
	Loading     bool           `json:"loading"`
	Confirm     *ConfirmView   `json:"confirm,omitempty"`
	Error       string         `json:"error,omitempty"`
	Seq         uint64         `json:"seq"`
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := c.rowsLocked()
	if rows == nil {
		rows = []backend.Lead{}
	}
	count, status := 0, ""
	if c.page != nil {
		count, status = c.page.Count, c.page.Status
	}

	var pagination Pagination
	if c.query.Query != "" {
		pagination = searchPagination(c.query.PageSize, len(rows))
	} else {
		pagination = NewPagination(c.query.Page, c.query.PageSize, count)
	}

	v := View{
		Query:       c.query,
		URL:         c.query.URL(BasePath),
		Rows:        rows,
		Count:       count,
		Status:      status,
		Pagination:  pagination,
		SearchText:  c.searchText,
		Columns:     Columns,
		CanBulk:     count > 0,
		BulkMode:    c.query.BulkDelete,
		Selected:    c.selectedIDsLocked(),
		AllSelected: c.allSelectedLocked(),
		Loading:     c.loading,
		Error:       c.lastError,
		Seq:         c.applied,
	}
	if p := c.pending; p != nil {
		v.Confirm = &ConfirmView{
			Title:       p.gate.Title,
			Label:       p.gate.Label(),
			Expected:    p.gate.Expected,
			RequireText: p.gate.RequireText,
			IDs:         append([]int64(nil), p.ids...),
			Deleting:    c.deleting,
			Error:       p.err,
		}
	}
	return v
}

// searchPagination describes the unpaged search result as a single page.
func searchPagination(pageSize, n int) Pagination {
	p := NewPagination(1, max(pageSize, n), n)
	p.PageSize = pageSize
	return p
}
