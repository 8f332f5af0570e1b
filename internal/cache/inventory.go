package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%s"
	PropertyKeyPrefix = "property:%s"
)

// EntityTTL bounds the staleness window of cached users and properties.
const EntityTTL = 3600 * time.Second

// UserKey returns the cache key for a user document by hex id.
func UserKey(id string) string {
	return fmt.Sprintf(UserKeyPrefix, id)
}

// PropertyKey returns the cache key for a property document by hex id.
func PropertyKey(id string) string {
	return fmt.Sprintf(PropertyKeyPrefix, id)
}

// InvalidateUser deletes the cached user entry.
func (c *Cache) InvalidateUser(ctx context.Context, id string) {
	c.Invalidate(ctx, UserKey(id))
}

// InvalidateProperty deletes the cached property entry.
func (c *Cache) InvalidateProperty(ctx context.Context, id string) {
	c.Invalidate(ctx, PropertyKey(id))
}
