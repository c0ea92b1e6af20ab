package account

import (
	"context"

	"roofestimator/internal/backend"
)

type userBackend interface {
	GetUser(ctx context.Context, email string) (*backend.User, error)
	CreateUser(ctx context.Context, req backend.CreateUserRequest) (*backend.User, error)
	UpdateUser(ctx context.Context, id int64, fields map[string]any) (*backend.User, error)
}

type userCache interface {
	Get(ctx context.Context, email string) (*backend.User, bool)
	Set(ctx context.Context, u *backend.User)
	Invalidate(ctx context.Context, email string) error
}
