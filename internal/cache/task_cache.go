package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyTasks = "tasks:"

// TaskCache caches per-user task lists in Redis.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list for username or nil if miss.
func (c *TaskCache) GetList(ctx context.Context, username string) ([]string, error) {
	b, err := c.rdb.Get(ctx, Key(username)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := []string{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list for username.
func (c *TaskCache) SetList(ctx context.Context, username string, list []string) error {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Key(username), b, c.ttl).Err()
}

// Invalidate drops the cached list for username.
func (c *TaskCache) Invalidate(ctx context.Context, username string) error {
	return c.rdb.Del(ctx, Key(username)).Err()
}

// Ping checks the Redis connection.
func (c *TaskCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Key returns the Redis key holding username's list.
func Key(username string) string {
	return keyTasks + username
}
