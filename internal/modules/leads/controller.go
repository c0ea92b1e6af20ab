package leads

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"roofestimator/internal/backend"
	"roofestimator/internal/pkg/confirm"
)

const (
	BasePath       = "/leads"
	SearchDebounce = 500 * time.Millisecond
)

type pendingDelete struct {
	ids  []int64
	gate confirm.Gate
	bulk bool
	err  string
}

// Controller owns one user's leads table: query state, the rendered page,
// the bulk selection and a pending delete confirmation. Every fetch carries a
// sequence number and responses older than the latest request are dropped.
type Controller struct {
	leads    tableBackend
	userID   int64
	debounce *Debouncer
	loggerf  func(format string, args ...interface{})
	onChange func(View)

	mu           sync.Mutex
	query        QueryState
	searchText   string
	page         *backend.LeadPage
	selected     map[int64]bool
	pending      *pendingDelete
	issued       uint64
	applied      uint64
	appliedQuery QueryState // query the rendered page was loaded with
	loading      bool
	deleting     bool
	lastError    string
}

func NewController(leads tableBackend, userID int64, q QueryState, debounce time.Duration) *Controller {
	return &Controller{
		leads:        leads,
		userID:       userID,
		debounce:     NewDebouncer(debounce),
		loggerf:      log.Printf,
		query:        q,
		appliedQuery: q,
		searchText:   q.Query,
		selected:     map[int64]bool{},
	}
}

// OnChange registers a callback for state changes that happen outside a
// caller's request, i.e. a debounced search firing.
func (c *Controller) OnChange(fn func(View)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Close drops a pending debounced search.
func (c *Controller) Close() {
	c.debounce.Stop()
}

func (c *Controller) Query() QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Load fetches the page for the current query state.
func (c *Controller) Load(ctx context.Context) error {
	return c.fetch(ctx)
}

func (c *Controller) ChangePage(ctx context.Context, n int) error {
	c.mu.Lock()
	if n < 1 || n > c.totalPagesLocked() {
		c.mu.Unlock()
		return ErrPageOutOfRange
	}
	c.query.Page = n
	c.mu.Unlock()
	return c.fetch(ctx)
}

func (c *Controller) ChangePageSize(ctx context.Context, size int) error {
	if !validPageSize(size) {
		return ErrInvalidPageSize
	}
	c.mu.Lock()
	c.query.PageSize = size
	c.query.Page = DefaultPage
	c.mu.Unlock()
	return c.fetch(ctx)
}

// Search records raw input and applies it once the debounce delay passes
// without further input. The result is reported through OnChange.
func (c *Controller) Search(ctx context.Context, text string) {
	c.mu.Lock()
	c.searchText = text
	c.mu.Unlock()

	c.debounce.Trigger(func() {
		if err := c.ApplySearch(ctx, text); err != nil {
			c.loggerf("level=warn msg=debounced search failed user_id=%d err=%v", c.userID, err)
		}
		c.notify()
	})
}

// ApplySearch sets the filter immediately. Blank text clears it.
func (c *Controller) ApplySearch(ctx context.Context, text string) error {
	text = trimQuery(text)

	c.mu.Lock()
	c.searchText = text
	if text == c.query.Query && c.page != nil {
		c.mu.Unlock()
		return nil
	}
	c.query.Query = text
	c.query.Page = DefaultPage
	c.mu.Unlock()
	return c.fetch(ctx)
}

// Sort cycles column through asc, desc and unsorted.
func (c *Controller) Sort(ctx context.Context, column string) error {
	if !sortable(column) {
		return ErrUnknownColumn
	}
	c.mu.Lock()
	c.query = c.query.nextSort(column)
	c.query.Page = DefaultPage
	c.mu.Unlock()
	return c.fetch(ctx)
}

// ToggleBulkMode enters or leaves multi-select. Leaving clears the selection.
func (c *Controller) ToggleBulkMode() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.query.BulkDelete {
		c.query.BulkDelete = false
		c.selected = map[int64]bool{}
		if c.pending != nil && c.pending.bulk {
			c.pending = nil
		}
		return nil
	}
	if c.page == nil || c.page.Count == 0 {
		return ErrNothingToSelect
	}
	c.query.BulkDelete = true
	return nil
}

func (c *Controller) ToggleRowSelection(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.query.BulkDelete {
		return ErrNotInBulkMode
	}
	if _, ok := c.rowLocked(id); !ok {
		return ErrRowNotRendered
	}
	if c.selected[id] {
		delete(c.selected, id)
	} else {
		c.selected[id] = true
	}
	return nil
}

// ToggleSelectAll selects exactly the rendered rows, or clears the selection
// when all of them are already selected.
func (c *Controller) ToggleSelectAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.query.BulkDelete {
		return ErrNotInBulkMode
	}
	rows := c.rowsLocked()
	if len(rows) == 0 {
		return ErrNothingToSelect
	}
	if c.allSelectedLocked() {
		c.selected = map[int64]bool{}
		return nil
	}
	c.selected = make(map[int64]bool, len(rows))
	for _, r := range rows {
		c.selected[r.ID] = true
	}
	return nil
}

// RequestDelete opens the confirmation for one rendered lead.
func (c *Controller) RequestDelete(id int64) (confirm.Gate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deleting {
		return confirm.Gate{}, ErrDeleteInProgress
	}
	lead, ok := c.rowLocked(id)
	if !ok {
		return confirm.Gate{}, ErrRowNotRendered
	}
	gate := confirm.ForName(lead.FirstName, lead.LastName)
	c.pending = &pendingDelete{ids: []int64{id}, gate: gate}
	return gate, nil
}

// RequestDeleteSelected opens the confirmation for the bulk selection.
func (c *Controller) RequestDeleteSelected() (confirm.Gate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deleting {
		return confirm.Gate{}, ErrDeleteInProgress
	}
	if !c.query.BulkDelete {
		return confirm.Gate{}, ErrNotInBulkMode
	}
	ids := c.selectedIDsLocked()
	if len(ids) == 0 {
		return confirm.Gate{}, ErrNothingSelected
	}
	gate := confirm.ForBulk(len(ids), "leads")
	c.pending = &pendingDelete{ids: ids, gate: gate, bulk: true}
	return gate, nil
}

func (c *Controller) CancelDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deleting {
		return ErrDeleteInProgress
	}
	c.pending = nil
	return nil
}

// ConfirmDelete runs the pending delete once entered satisfies its gate.
// On failure the confirmation stays open with the cause attached. On success
// the current page is refetched, moving back to the last page if the current
// one no longer exists.
func (c *Controller) ConfirmDelete(ctx context.Context, entered string) error {
	c.mu.Lock()
	p := c.pending
	switch {
	case p == nil:
		c.mu.Unlock()
		return ErrNoPendingDelete
	case c.deleting:
		c.mu.Unlock()
		return ErrDeleteInProgress
	case !p.gate.Enabled(entered):
		c.mu.Unlock()
		return ErrConfirmationInvalid
	}
	c.deleting = true
	p.err = ""
	c.mu.Unlock()

	var err error
	if p.bulk {
		err = c.leads.BulkDeleteLeads(ctx, p.ids)
	} else {
		err = c.leads.DeleteLead(ctx, p.ids[0])
	}

	c.mu.Lock()
	c.deleting = false
	if err != nil {
		p.err = err.Error()
		c.mu.Unlock()
		c.loggerf("level=error msg=delete leads failed user_id=%d ids=%v err=%v", c.userID, p.ids, err)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	c.pending = nil
	for _, id := range p.ids {
		delete(c.selected, id)
	}
	if p.bulk {
		c.query.BulkDelete = false
		c.selected = map[int64]bool{}
	}
	c.mu.Unlock()

	c.loggerf("level=info msg=leads deleted user_id=%d count=%d", c.userID, len(p.ids))
	return c.reconcile(ctx)
}

// DeleteOne is RequestDelete followed by ConfirmDelete.
func (c *Controller) DeleteOne(ctx context.Context, id int64, entered string) error {
	if _, err := c.RequestDelete(id); err != nil {
		return err
	}
	return c.ConfirmDelete(ctx, entered)
}

// DeleteSelected is RequestDeleteSelected followed by ConfirmDelete.
func (c *Controller) DeleteSelected(ctx context.Context, entered string) error {
	if _, err := c.RequestDeleteSelected(); err != nil {
		return err
	}
	return c.ConfirmDelete(ctx, entered)
}

func (c *Controller) reconcile(ctx context.Context) error {
	if err := c.fetch(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	last := c.totalPagesLocked()
	if c.query.Page <= last {
		c.mu.Unlock()
		return nil
	}
	c.query.Page = last
	c.mu.Unlock()
	return c.fetch(ctx)
}

// fetch loads the page for the current query. On failure the query goes
// back to the one the rendered rows were loaded with, so a failed navigation
// leaves the table as it was.
func (c *Controller) fetch(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	q := c.query
	c.loading = true
	c.mu.Unlock()

	page, err := c.leads.ListLeads(ctx, backend.LeadListParams{
		Page:      q.Page,
		PageSize:  q.PageSize,
		Query:     q.Query,
		SortKey:   q.SortKey,
		SortOrder: string(q.SortDir),
		UserID:    c.userID,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.issued {
		// superseded by a newer request
		return nil
	}
	c.loading = false
	if err != nil {
		restored := c.appliedQuery
		restored.BulkDelete = c.query.BulkDelete
		c.query = restored
		c.lastError = err.Error()
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	c.applied = seq
	c.appliedQuery = q
	c.page = page
	c.lastError = ""
	c.pruneSelectionLocked()
	return nil
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(c.View())
	}
}

func (c *Controller) rowsLocked() []backend.Lead {
	if c.page == nil {
		return nil
	}
	return c.page.Results
}

func (c *Controller) rowLocked(id int64) (backend.Lead, bool) {
	for _, r := range c.rowsLocked() {
		if r.ID == id {
			return r, true
		}
	}
	return backend.Lead{}, false
}

// pruneSelectionLocked keeps the selection a subset of the rendered rows.
func (c *Controller) pruneSelectionLocked() {
	for id := range c.selected {
		if _, ok := c.rowLocked(id); !ok {
			delete(c.selected, id)
		}
	}
}

func (c *Controller) allSelectedLocked() bool {
	rows := c.rowsLocked()
	if len(rows) == 0 || len(c.selected) != len(rows) {
		return false
	}
	for _, r := range rows {
		if !c.selected[r.ID] {
			return false
		}
	}
	return true
}

func (c *Controller) selectedIDsLocked() []int64 {
	ids := make([]int64, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// totalPagesLocked is 1 in search mode: the search endpoint does not page.
func (c *Controller) totalPagesLocked() int {
	if c.page == nil || c.query.Query != "" {
		return 1
	}
	return TotalPages(c.page.Count, c.query.PageSize)
}
