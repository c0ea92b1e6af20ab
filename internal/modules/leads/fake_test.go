package leads

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"roofestimator/internal/backend"
)

// fakeBackend pages an in-memory lead list the way the REST backend does.
type fakeBackend struct {
	mu          sync.Mutex
	leads       []backend.Lead
	calls       []backend.LeadListParams
	listErr     error
	deleteErr   error
	deleted     []int64
	bulkDeleted [][]int64
	created     []backend.LeadInput
	updated     []backend.LeadInput
	// foreign leads belong to another user and never show up in listings
	foreign map[int64]bool
	// gate, when set, blocks list calls for that page until closed
	gatePage int
	gate     chan struct{}
}

func newFakeBackend(n int) *fakeBackend {
	f := &fakeBackend{foreign: map[int64]bool{}}
	for i := 1; i <= n; i++ {
		f.leads = append(f.leads, backend.Lead{
			ID:        int64(i),
			FirstName: "Lead",
			LastName:  fmt.Sprint(i),
			Email:     fmt.Sprintf("lead%d@example.com", i),
			Address:   fmt.Sprintf("%d Main St", i),
		})
	}
	return f
}

func (f *fakeBackend) ListLeads(ctx context.Context, p backend.LeadListParams) (*backend.LeadPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	gate := f.gate
	blocked := gate != nil && p.Page == f.gatePage && p.Query == ""
	f.mu.Unlock()

	if blocked {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}

	visible := []backend.Lead{}
	for _, l := range f.leads {
		if !f.foreign[l.ID] && (l.User == 0 || l.User == p.UserID) {
			visible = append(visible, l)
		}
	}

	if p.Query != "" {
		q := strings.ToLower(p.Query)
		results := []backend.Lead{}
		for _, l := range visible {
			if strings.Contains(strings.ToLower(l.FirstName+" "+l.LastName), q) || strings.Contains(strings.ToLower(l.Email), q) {
				results = append(results, l)
			}
		}
		return &backend.LeadPage{Count: len(results), Results: results, Status: "success"}, nil
	}

	start := (p.Page - 1) * p.PageSize
	end := min(start+p.PageSize, len(visible))
	results := []backend.Lead{}
	if start < len(visible) {
		results = append(results, visible[start:end]...)
	}
	return &backend.LeadPage{Count: len(visible), Results: results, Status: "success"}, nil
}

func (f *fakeBackend) remove(ids ...int64) {
	drop := map[int64]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := f.leads[:0]
	for _, l := range f.leads {
		if !drop[l.ID] {
			kept = append(kept, l)
		}
	}
	f.leads = kept
}

func (f *fakeBackend) DeleteLead(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	f.remove(id)
	return nil
}

func (f *fakeBackend) BulkDeleteLeads(ctx context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.bulkDeleted = append(f.bulkDeleted, ids)
	f.remove(ids...)
	return nil
}

func (f *fakeBackend) GetLead(ctx context.Context, id int64) (*backend.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.leads {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, &backend.APIError{Method: "GET", Path: fmt.Sprintf("leads/%d/", id), StatusCode: 404}
}

func (f *fakeBackend) CreateLead(ctx context.Context, in backend.LeadInput) (*backend.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	l := backend.Lead{ID: int64(len(f.leads) + 100), User: in.User, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}
	f.leads = append(f.leads, l)
	return &l, nil
}

func (f *fakeBackend) UpdateLead(ctx context.Context, id int64, in backend.LeadInput) (*backend.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, in)
	for i, l := range f.leads {
		if l.ID == id {
			f.leads[i].FirstName = in.FirstName
			f.leads[i].LastName = in.LastName
			updated := f.leads[i]
			return &updated, nil
		}
	}
	return nil, &backend.APIError{Method: "PATCH", Path: fmt.Sprintf("leads/update/%d/", id), StatusCode: 404}
}

func (f *fakeBackend) lastCall() backend.LeadListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// addForeign stores a lead owned by someone else. owner 0 mimics a backend
// that does not report the owner.
func (f *fakeBackend) addForeign(id, owner int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = append(f.leads, backend.Lead{
		ID:        id,
		User:      owner,
		FirstName: "Other",
		LastName:  fmt.Sprint(id),
		Email:     fmt.Sprintf("other%d@example.com", id),
	})
	f.foreign[id] = true
}
