package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Options configures a backend.
type Options struct {
	Size    int
	TTL     time.Duration
	OnEvict EvictCallback
	Logger  Logger

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// Group labels the cache_* metrics. Empty disables instrumentation.
	Group string
}

// Provider builds a backend from Options.
type Provider func(opts Options) (Cache, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register makes a backend available under name. It panics on a nil provider or a duplicate name.
func Register(name string, p Provider) {
	mu.Lock()
	defer mu.Unlock()

	if p == nil {
		panic("cache: Register provider is nil")
	}
	if _, exists := providers[name]; exists {
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	providers[name] = p
}

// New opens the named backend. A non-empty Group wraps it with metrics.
func New(name string, opts Options) (Cache, error) {
	mu.RLock()
	p, ok := providers[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("cache: size must be positive, got %d", opts.Size)
	}
	if opts.Group == "" {
		return p(opts)
	}

	group := opts.Group
	next := opts.OnEvict
	opts.OnEvict = func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if next != nil {
			next(key, value)
		}
	}

	inner, err := p(opts)
	if err != nil {
		return nil, err
	}
	return newInstrumentedCache(inner, group), nil
}

// RegisteredProviders returns the provider names in sorted order.
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
