package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lashstudio/models"

	"github.com/go-redis/redis/v8"
)

const publicSettingsKey = "siteSettings:public"

// Cache holds the sanitized public settings document.
type Cache interface {
	// Get returns nil without error on a miss.
	Get(ctx context.Context) (models.SiteSettings, error)
	Set(ctx context.Context, s models.SiteSettings) error
	Invalidate(ctx context.Context) error
}

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func (c *RedisCache) Get(ctx context.Context) (models.SiteSettings, error) {
	data, err := c.Client.Get(ctx, publicSettingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s models.SiteSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *RedisCache) Set(ctx context.Context, s models.SiteSettings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, publicSettingsKey, data, c.TTL).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, publicSettingsKey).Err()
}
