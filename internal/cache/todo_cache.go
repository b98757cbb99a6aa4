package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dom "github.com/Jaco-Potgieter/todo/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList   = "todo:list"
	keyStatus = "todo:status:"
)

// TodoCache caches the full todo list and per-status lists in Redis.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache. A zero ttl keeps entries until invalidated.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list; hit is false on a miss.
func (c *TodoCache) GetList(ctx context.Context) (list []dom.Todo, hit bool, err error) {
	return c.get(ctx, keyList)
}

// SetList stores the list in cache.
func (c *TodoCache) SetList(ctx context.Context, list []dom.Todo) error {
	return c.set(ctx, keyList, list)
}

// GetByStatus returns the cached list for status; hit is false on a miss.
func (c *TodoCache) GetByStatus(ctx context.Context, status dom.Status) ([]dom.Todo, bool, error) {
	return c.get(ctx, keyStatus+string(status))
}

// SetByStatus stores the list for status in cache.
func (c *TodoCache) SetByStatus(ctx context.Context, status dom.Status, list []dom.Todo) error {
	return c.set(ctx, keyStatus+string(status), list)
}

// InvalidateAll removes the list and all status keys (cache invalidation on write).
func (c *TodoCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Del(ctx, keyList).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, keyStatus+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *TodoCache) get(ctx context.Context, key string) ([]dom.Todo, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	list := []dom.Todo{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, err
	}
	return list, true, nil
}

func (c *TodoCache) set(ctx context.Context, key string, list []dom.Todo) error {
	if list == nil {
		list = []dom.Todo{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
