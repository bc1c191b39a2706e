package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lashstudio/services/access"

	"github.com/go-redis/redis/v8"
)

// PrincipalCache keeps resolved principals so authenticated requests skip the user lookup.
type PrincipalCache interface {
	Get(ctx context.Context, uid string) (*access.Principal, error)
	Set(ctx context.Context, p access.Principal) error
	Invalidate(ctx context.Context, uid string) error
}

// RedisPrincipalCache stores principals as JSON under "principal:<uid>".
type RedisPrincipalCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func principalKey(uid string) string {
	return "principal:" + uid
}

// Get returns nil without error on a miss.
func (c *RedisPrincipalCache) Get(ctx context.Context, uid string) (*access.Principal, error) {
	data, err := c.Client.Get(ctx, principalKey(uid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p access.Principal
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *RedisPrincipalCache) Set(ctx context.Context, p access.Principal) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, principalKey(p.UserID), data, c.TTL).Err()
}

func (c *RedisPrincipalCache) Invalidate(ctx context.Context, uid string) error {
	return c.Client.Del(ctx, principalKey(uid)).Err()
}
