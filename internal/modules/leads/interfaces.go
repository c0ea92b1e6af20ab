package leads

import (
	"context"

	"roofestimator/internal/backend"
)

type leadLister interface {
	ListLeads(ctx context.Context, p backend.LeadListParams) (*backend.LeadPage, error)
}

type leadDeleter interface {
	DeleteLead(ctx context.Context, id int64) error
	BulkDeleteLeads(ctx context.Context, ids []int64) error
}

type tableBackend interface {
	leadLister
	leadDeleter
}

type leadBackend interface {
	tableBackend
	GetLead(ctx context.Context, id int64) (*backend.Lead, error)
	CreateLead(ctx context.Context, in backend.LeadInput) (*backend.Lead, error)
	UpdateLead(ctx context.Context, id int64, in backend.LeadInput) (*backend.Lead, error)
}
