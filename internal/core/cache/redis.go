package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

// GetOrLoad 读缓存，未命中时 singleflight 合并回源
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Version 命名空间版本号。key 里带上版本，Bump 后旧 key 自然失效，
// 避免对列表缓存做前缀删除。
func (c *Cache) Version(ctx context.Context, ns string) int64 {
	v, err := c.RDB.Get(ctx, ns+":ver").Int64()
	if err != nil {
		return 0
	}
	return v
}

func (c *Cache) Bump(ctx context.Context, ns string) {
	_ = c.RDB.Incr(ctx, ns+":ver").Err()
}

// VersionedKey 组装带版本的缓存 key
func (c *Cache) VersionedKey(ctx context.Context, ns, suffix string) string {
	return fmt.Sprintf("%s:v%d:%s", ns, c.Version(ctx, ns), suffix)
}
