package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roofestimator/internal/backend"
)

func loadedController(t *testing.T, f *fakeBackend, raw string) *Controller {
	t.Helper()
	ctrl := NewController(f, 42, parse(raw), 10*time.Millisecond)
	ctrl.loggerf = t.Logf
	require.NoError(t, ctrl.Load(context.Background()))
	return ctrl
}

func TestController_LoadRequestsExactPage(t *testing.T) {
	f := newFakeBackend(12)
	ctrl := loadedController(t, f, "page=2&page_size=5&sort_order=asc")

	assert.Equal(t, backend.LeadListParams{Page: 2, PageSize: 5, SortOrder: "asc", UserID: 42}, f.lastCall())

	v := ctrl.View()
	assert.Equal(t, 2, v.Pagination.Page)
	assert.Equal(t, 3, v.Pagination.TotalPages)
	assert.Equal(t, "/leads?page=2&page_size=5&sort_order=asc", v.URL)
	require.Len(t, v.Rows, 5)
	assert.Equal(t, int64(6), v.Rows[0].ID)
}

func TestController_ChangePage(t *testing.T) {
	f := newFakeBackend(12)
	ctrl := loadedController(t, f, "page_size=5")
	calls := f.callCount()

	assert.ErrorIs(t, ctrl.ChangePage(context.Background(), 0), ErrPageOutOfRange)
	assert.ErrorIs(t, ctrl.ChangePage(context.Background(), 4), ErrPageOutOfRange)
	assert.Equal(t, calls, f.callCount())

	require.NoError(t, ctrl.ChangePage(context.Background(), 3))
	assert.Equal(t, 3, f.lastCall().Page)
	assert.Len(t, ctrl.View().Rows, 2)
}

func TestController_ChangePageSizeResetsPage(t *testing.T) {
	f := newFakeBackend(30)
	ctrl := loadedController(t, f, "page=3&page_size=5")

	assert.ErrorIs(t, ctrl.ChangePageSize(context.Background(), 7), ErrInvalidPageSize)
	require.NoError(t, ctrl.ChangePageSize(context.Background(), 10))

	q := ctrl.Query()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PageSize)
	assert.Equal(t, 1, f.lastCall().Page)
}

func TestController_SortCycleResetsPage(t *testing.T) {
	f := newFakeBackend(30)
	ctrl := loadedController(t, f, "page=2")
	ctx := context.Background()

	assert.ErrorIs(t, ctrl.Sort(ctx, "phone"), ErrUnknownColumn)

	require.NoError(t, ctrl.Sort(ctx, "name"))
	assert.Equal(t, "asc", f.lastCall().SortOrder)
	assert.Equal(t, "name", f.lastCall().SortKey)
	assert.Equal(t, 1, f.lastCall().Page)

	require.NoError(t, ctrl.Sort(ctx, "name"))
	assert.Equal(t, "desc", f.lastCall().SortOrder)

	require.NoError(t, ctrl.Sort(ctx, "name"))
	assert.Equal(t, "", f.lastCall().SortOrder)
	assert.NotContains(t, ctrl.View().URL, "sort")

	require.NoError(t, ctrl.Sort(ctx, "name"))
	require.NoError(t, ctrl.Sort(ctx, "email"))
	assert.Equal(t, "email", f.lastCall().SortKey)
	assert.Equal(t, "asc", f.lastCall().SortOrder)
}

func TestController_SearchSwitchesEndpointAndClears(t *testing.T) {
	f := newFakeBackend(12)
	ctrl := loadedController(t, f, "page=2&page_size=5")
	ctx := context.Background()

	require.NoError(t, ctrl.ApplySearch(ctx, " lead 1 "))
	assert.Equal(t, "lead 1", f.lastCall().Query)

	v := ctrl.View()
	assert.Equal(t, "/leads?page_size=5&query=lead+1", v.URL)
	assert.Equal(t, 1, v.Pagination.TotalPages)
	assert.Len(t, v.Rows, 4) // 1, 10, 11, 12

	require.NoError(t, ctrl.ApplySearch(ctx, ""))
	assert.Equal(t, "", f.lastCall().Query)
	assert.NotContains(t, ctrl.View().URL, "query")
}

func TestController_DebouncedSearchFiresOnce(t *testing.T) {
	f := newFakeBackend(12)
	ctrl := loadedController(t, f, "")
	defer ctrl.Close()

	views := make(chan View, 4)
	ctrl.OnChange(func(v View) { views <- v })
	calls := f.callCount()

	ctx := context.Background()
	ctrl.Search(ctx, "l")
	ctrl.Search(ctx, "le")
	ctrl.Search(ctx, "lead 2")

	select {
	case v := <-views:
		assert.Equal(t, "lead 2", v.Query.Query)
	case <-time.After(time.Second):
		t.Fatal("debounced search never fired")
	}
	assert.Equal(t, calls+1, f.callCount())
	assert.Equal(t, "lead 2", f.lastCall().Query)
}

func TestController_SelectAllIsCurrentPageOnly(t *testing.T) {
	f := newFakeBackend(12)
	ctrl := loadedController(t, f, "page_size=5")

	assert.ErrorIs(t, ctrl.ToggleSelectAll(), ErrNotInBulkMode)
	require.NoError(t, ctrl.ToggleBulkMode())
	assert.Contains(t, ctrl.View().URL, "bulkDelete=true")

	require.NoError(t, ctrl.ToggleSelectAll())
	v := ctrl.View()
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, v.Selected)
	assert.True(t, v.AllSelected)

	require.NoError(t, ctrl.ToggleSelectAll())
	assert.Empty(t, ctrl.View().Selected)

	require.NoError(t, ctrl.ToggleRowSelection(2))
	assert.ErrorIs(t, ctrl.ToggleRowSelection(9), ErrRowNotRendered)

	// leaving bulk mode clears the selection
	require.NoError(t, ctrl.ToggleBulkMode())
	v = ctrl.View()
	assert.Empty(t, v.Selected)
	assert.False(t, v.BulkMode)
}

func TestController_BulkModeNeedsRows(t *testing.T) {
	ctrl := loadedController(t, newFakeBackend(0), "")
	assert.ErrorIs(t, ctrl.ToggleBulkMode(), ErrNothingToSelect)
	assert.False(t, ctrl.View().CanBulk)
}

func TestController_DeleteOneRequiresExactName(t *testing.T) {
	f := newFakeBackend(12)
	ctrl := loadedController(t, f, "page_size=5")
	ctx := context.Background()

	gate, err := ctrl.RequestDelete(3)
	require.NoError(t, err)
	assert.Equal(t, "Lead 3", gate.Expected)
	assert.True(t, gate.RequireText)

	assert.ErrorIs(t, ctrl.ConfirmDelete(ctx, "lead 3"), ErrConfirmationInvalid)
	assert.Empty(t, f.deleted)
	assert.NotNil(t, ctrl.View().Confirm)

	require.NoError(t, ctrl.ConfirmDelete(ctx, " Lead 3 "))
	assert.Equal(t, []int64{3}, f.deleted)

	v := ctrl.View()
	assert.Nil(t, v.Confirm)
	assert.Equal(t, 11, v.Count)
	assert.Equal(t, int64(6), v.Rows[4].ID)
}

func TestController_DeleteFailureKeepsConfirmationWithCause(t *testing.T) {
	f := newFakeBackend(3)
	f.deleteErr = errors.New("lead is locked by an estimate")
	ctrl := loadedController(t, f, "")

	err := ctrl.DeleteOne(context.Background(), 1, "Lead 1")
	assert.ErrorIs(t, err, ErrDeleteFailed)
	assert.Contains(t, err.Error(), "locked by an estimate")

	v := ctrl.View()
	require.NotNil(t, v.Confirm)
	assert.Contains(t, v.Confirm.Error, "locked by an estimate")
	assert.Len(t, v.Rows, 3)

	require.NoError(t, ctrl.CancelDelete())
	assert.Nil(t, ctrl.View().Confirm)
}

func TestController_DeleteLastRowMovesToLastPage(t *testing.T) {
	f := newFakeBackend(6)
	ctrl := loadedController(t, f, "page=2&page_size=5")
	require.Len(t, ctrl.View().Rows, 1)

	require.NoError(t, ctrl.DeleteOne(context.Background(), 6, "Lead 6"))

	v := ctrl.View()
	assert.Equal(t, 1, v.Query.Page)
	assert.Len(t, v.Rows, 5)
	assert.Equal(t, 1, f.lastCall().Page)
}

func TestController_DeleteSelected(t *testing.T) {
	f := newFakeBackend(12)
	ctrl := loadedController(t, f, "page_size=5")
	ctx := context.Background()

	_, err := ctrl.RequestDeleteSelected()
	assert.ErrorIs(t, err, ErrNotInBulkMode)

	require.NoError(t, ctrl.ToggleBulkMode())
	_, err = ctrl.RequestDeleteSelected()
	assert.ErrorIs(t, err, ErrNothingSelected)

	require.NoError(t, ctrl.ToggleRowSelection(4))
	require.NoError(t, ctrl.ToggleRowSelection(2))
	gate, err := ctrl.RequestDeleteSelected()
	require.NoError(t, err)
	assert.Equal(t, "Delete 2 selected leads", gate.Label())
	assert.False(t, gate.RequireText)

	require.NoError(t, ctrl.ConfirmDelete(ctx, ""))
	assert.Equal(t, [][]int64{{2, 4}}, f.bulkDeleted)

	v := ctrl.View()
	assert.False(t, v.BulkMode)
	assert.Empty(t, v.Selected)
	assert.Equal(t, 10, v.Count)
}

func TestController_FetchFailureKeepsPriorState(t *testing.T) {
	f := newFakeBackend(12)
	ctrl := loadedController(t, f, "page_size=5")

	f.mu.Lock()
	f.listErr = errors.New("backend down")
	f.mu.Unlock()

	err := ctrl.ChangePage(context.Background(), 2)
	assert.ErrorIs(t, err, ErrFetchFailed)

	v := ctrl.View()
	assert.Equal(t, 1, v.Query.Page)
	assert.Equal(t, int64(1), v.Rows[0].ID)
	assert.Contains(t, v.Error, "backend down")
}

func TestController_StaleResponseIsDiscarded(t *testing.T) {
	f := newFakeBackend(30)
	ctrl := loadedController(t, f, "page_size=5")
	ctx := context.Background()

	f.mu.Lock()
	f.gatePage = 2
	f.gate = make(chan struct{})
	f.mu.Unlock()

	calls := f.callCount()
	done := make(chan error, 1)
	go func() { done <- ctrl.ChangePage(ctx, 2) }()
	require.Eventually(t, func() bool { return f.callCount() == calls+1 }, time.Second, time.Millisecond)

	// a newer request completes while page 2 is still in flight
	require.NoError(t, ctrl.ChangePageSize(ctx, 10))

	close(f.gate)
	require.NoError(t, <-done)

	v := ctrl.View()
	assert.Equal(t, 1, v.Query.Page)
	assert.Equal(t, 10, v.Query.PageSize)
	require.Len(t, v.Rows, 10)
	assert.Equal(t, int64(1), v.Rows[0].ID)
}

func TestController_FailureAfterStaleRequestKeepsRenderedQuery(t *testing.T) {
	f := newFakeBackend(30)
	ctrl := loadedController(t, f, "page_size=5")
	ctx := context.Background()

	f.mu.Lock()
	f.gatePage = 2
	f.gate = make(chan struct{})
	f.mu.Unlock()

	calls := f.callCount()
	done := make(chan error, 1)
	go func() { done <- ctrl.ChangePage(ctx, 2) }()
	require.Eventually(t, func() bool { return f.callCount() == calls+1 }, time.Second, time.Millisecond)

	f.mu.Lock()
	f.listErr = errors.New("backend down")
	f.mu.Unlock()
	require.ErrorIs(t, ctrl.ChangePageSize(ctx, 10), ErrFetchFailed)

	f.mu.Lock()
	f.listErr = nil
	f.mu.Unlock()
	close(f.gate)
	require.NoError(t, <-done)

	v := ctrl.View()
	assert.Equal(t, 1, v.Query.Page)
	assert.Equal(t, 5, v.Query.PageSize)
	assert.Equal(t, "/leads?page_size=5", v.URL)
	require.Len(t, v.Rows, 5)
	assert.Equal(t, int64(1), v.Rows[0].ID)
}
