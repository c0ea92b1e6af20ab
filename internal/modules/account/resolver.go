package account

import (
	"context"
	"strings"

	"roofestimator/internal/backend"
)

// Resolver looks backend users up by email, going through the user cache
// first. It satisfies middleware.UserResolver.
type Resolver struct {
	users userBackend
	cache userCache
}

// NewResolver accepts a nil cache.
func NewResolver(users userBackend, cache userCache) *Resolver {
	return &Resolver{users: users, cache: cache}
}

func (r *Resolver) Resolve(ctx context.Context, email string) (*backend.User, error) {
	email = strings.TrimSpace(email)
	if r.cache != nil {
		if u, ok := r.cache.Get(ctx, email); ok {
			return u, nil
		}
	}

	u, err := r.users.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Set(ctx, u)
	}
	return u, nil
}

func (r *Resolver) Invalidate(ctx context.Context, email string) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Invalidate(ctx, email)
}
