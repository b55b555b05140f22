package cache

import (
	"context"
	"errors"
)

// instrumentedCache records hit, miss and error counters for one group and
// exposes the entry count through a collector read at scrape time.
type instrumentedCache struct {
	inner Cache
	group string
}

func newInstrumentedCache(inner Cache, group string) *instrumentedCache {
	registerEntriesCollector(group, func() int { return inner.Len(context.Background()) })
	return &instrumentedCache{inner: inner, group: group}
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.inner.Get(ctx, key)
	switch {
	case err == nil:
		HitsTotal.WithLabelValues(c.group).Inc()
	case errors.Is(err, ErrMiss):
		MissesTotal.WithLabelValues(c.group).Inc()
	default:
		ErrorsTotal.WithLabelValues(c.group, "get").Inc()
	}
	return val, err
}

func (c *instrumentedCache) Set(ctx context.Context, key string, value []byte) error {
	err := c.inner.Set(ctx, key, value)
	if err != nil {
		ErrorsTotal.WithLabelValues(c.group, "set").Inc()
	}
	return err
}

func (c *instrumentedCache) Delete(ctx context.Context, key string) error {
	err := c.inner.Delete(ctx, key)
	if err != nil {
		ErrorsTotal.WithLabelValues(c.group, "delete").Inc()
	}
	return err
}

func (c *instrumentedCache) Len(ctx context.Context) int {
	return c.inner.Len(ctx)
}

func (c *instrumentedCache) Close() error {
	unregisterEntriesCollector(c.group)
	return c.inner.Close()
}
