package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

type memoryCache struct {
	entries *lru.LRU[string, []byte]
}

func newMemoryCache(opts Options) (Cache, error) {
	var onEvict func(string, []byte)
	if opts.OnEvict != nil {
		onEvict = func(key string, value []byte) { opts.OnEvict(key, value) }
	}
	return &memoryCache{entries: lru.NewLRU[string, []byte](opts.Size, onEvict, opts.TTL)}, nil
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := m.entries.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return value, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) error {
	m.entries.Add(key, value)
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

func (m *memoryCache) Len(context.Context) int {
	return m.entries.Len()
}

func (m *memoryCache) Close() error {
	return nil
}
