package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/lockparse/pkg/observability"
)

// Instrument wraps c so that every lookup and write is reported to the
// registered observability cache hooks. The key type reported is the key's
// first colon-separated segment ("doc", "artifact").
func Instrument(c Cache) Cache {
	return &instrumented{inner: c}
}

type instrumented struct {
	inner Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func (c *instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *instrumented) Close() error {
	return c.inner.Close()
}

// keyType skips scope prefixes by looking for the first known segment.
func keyType(key string) string {
	for _, seg := range strings.Split(key, ":") {
		switch seg {
		case "doc", "artifact":
			return seg
		}
	}
	return "other"
}
