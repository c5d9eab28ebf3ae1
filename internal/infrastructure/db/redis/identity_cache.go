package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/platformsec/user-access-api/internal/api/metrics"
	"github.com/platformsec/user-access-api/internal/core/domain"
)

const identityTTL = 5 * time.Minute

// UserFinder is the fallback store the cache reads through to.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// IdentityCache is a read-through Redis cache in front of the user store for
// the access guard's subject lookups. Login tokens carry only a user ID, so
// every guarded request would otherwise hit MongoDB to learn the role.
// Key format: identity:<user_id>
type IdentityCache struct {
	client *redis.Client
	store  UserFinder
}

// NewIdentityCache wraps the given store with a Redis cache.
func NewIdentityCache(client *redis.Client, store UserFinder) *IdentityCache {
	return &IdentityCache{client: client, store: store}
}

type cachedIdentity struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

// FindByID returns the cached identity when present, otherwise loads it from
// the store and caches it. Cache errors degrade to a plain store lookup.
func (c *IdentityCache) FindByID(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Result()
	if err == nil {
		var ci cachedIdentity
		if jsonErr := json.Unmarshal([]byte(raw), &ci); jsonErr == nil {
			metrics.IdentityCacheTotal.WithLabelValues("hit").Inc()
			return &domain.User{
				ID:      id,
				Name:    ci.Name,
				Email:   ci.Email,
				Role:    domain.Role(ci.Role),
				IsAdmin: ci.IsAdmin,
			}, nil
		}
	}

	metrics.IdentityCacheTotal.WithLabelValues("miss").Inc()
	user, err := c.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedIdentity{
		Name:    user.Name,
		Email:   user.Email,
		Role:    string(user.Role),
		IsAdmin: user.IsAdmin,
	})
	if err == nil {
		// Best effort; a failed write only costs a future store lookup.
		_ = c.client.Set(ctx, c.key(id), payload, identityTTL).Err()
	}

	return user, nil
}

// Invalidate drops the cached identity, e.g. after the user is deleted.
func (c *IdentityCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *IdentityCache) key(userID string) string {
	return fmt.Sprintf("identity:%s", userID)
}
