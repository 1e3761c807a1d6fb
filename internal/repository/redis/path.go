package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/regcomments/registry-comments/domain"
	"github.com/regcomments/registry-comments/internal/repository/cache"
)

const (
	KeyPath = "registry:tenant:%d:path:%d"

	DefaultPathTTL = 10 * time.Minute
)

type pathCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ domain.PathCache = (*pathCache)(nil)

// NewPathCache caches collection paths for ttl.
func NewPathCache(client *redis.Client, ttl time.Duration) *pathCache {
	if ttl <= 0 {
		ttl = DefaultPathTTL
	}
	return &pathCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *pathCache) GetPath(ctx context.Context, tenantID, pathID int64) (string, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(KeyPath, tenantID, pathID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	} else if err != nil {
		return "", err
	}

	var entry cache.PathEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", err
	}
	if entry.PathID != pathID {
		return "", domain.ErrNotFound
	}
	return entry.Path, nil
}

func (c *pathCache) SetPath(ctx context.Context, tenantID, pathID int64, path string) error {
	data, err := json.Marshal(cache.NewPathEntry(pathID, path))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fmt.Sprintf(KeyPath, tenantID, pathID), data, c.ttl).Err()
}
