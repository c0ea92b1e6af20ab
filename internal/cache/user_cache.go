// Package cache keeps recently resolved backend users in Redis so the session
// middleware does not hit the REST backend on every request.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"roofestimator/internal/backend"
)

const userKeyPrefix = "roofestimator:user:"

type UserCache struct {
	client  *redis.Client
	ttl     time.Duration
	loggerf func(format string, args ...interface{})
}

// NewUserCache accepts a nil client; every method is then a no-op miss.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl, loggerf: log.Printf}
}

func (c *UserCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *UserCache) Get(ctx context.Context, email string) (*backend.User, bool) {
	if !c.Enabled() {
		return nil, false
	}

	raw, err := c.client.Get(ctx, userKey(email)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.loggerf("level=warn msg=user cache get failed email=%s err=%v", email, err)
		}
		return nil, false
	}

	var u backend.User
	if err := json.Unmarshal(raw, &u); err != nil {
		c.loggerf("level=warn msg=user cache entry corrupt email=%s err=%v", email, err)
		return nil, false
	}
	return &u, true
}

func (c *UserCache) Set(ctx context.Context, u *backend.User) {
	if !c.Enabled() || u == nil || u.Email == "" {
		return
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, userKey(u.Email), raw, c.ttl).Err(); err != nil {
		c.loggerf("level=warn msg=user cache set failed email=%s err=%v", u.Email, err)
	}
}

func (c *UserCache) Invalidate(ctx context.Context, email string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, userKey(email)).Err()
}

func userKey(email string) string {
	return userKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}
