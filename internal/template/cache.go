// internal/template/cache.go
package template

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"certificate-service/internal/common/database"
	"certificate-service/internal/common/logger"
)

// Cache keeps template file bytes in Redis so repeated generations against
// the same template skip the disk read. Keys include the file's modification
// time, so replacing a template on disk invalidates its cached copy without
// any explicit flush.
type Cache struct {
	client *database.RedisClient
	ttl    time.Duration
	log    logger.Logger
}

// NewCache wraps a Redis client. A nil client disables caching: Read always
// goes to disk.
func NewCache(client *database.RedisClient, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log}
}

// Read returns the template bytes for path, from cache when possible. Cache
// failures are never fatal; they degrade to a plain file read.
func (c *Cache) Read(ctx context.Context, path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if c.client == nil {
		return os.ReadFile(path)
	}

	key := fmt.Sprintf("template:%s:%d", path, info.ModTime().UnixNano())
	cached, err := c.client.Get(ctx, key)
	if err == nil {
		return []byte(cached), nil
	}
	if err != redis.Nil {
		c.log.WithError(err).Warn("Template cache read failed", map[string]interface{}{
			"key": key,
		})
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
		c.log.WithError(err).Warn("Template cache write failed", map[string]interface{}{
			"key": key,
		})
	}
	return data, nil
}
