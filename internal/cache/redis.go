package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix carries a hash tag so every key of the store lands in the same
// cluster slot, which the Lua scripts below require.
const keyPrefix = "{showsearch}:"

const opTimeout = 2 * time.Second

func init() {
	Register("redis", newRedisCache)
}

// redisCache stores each value under its own key with a PX expiry and keeps
// access order in one sorted set scored by last access in milliseconds.
// Because the expiry slides with every access, an index member whose score is
// older than now-TTL belongs to a key Redis already expired; the scripts drop
// those before counting.
type redisCache struct {
	client  *redis.Client
	ttl     time.Duration
	maxSize int
	onEvict EvictCallback
	logger  Logger
	index   string
}

// touch reads a value and slides its expiry.
//
// KEYS[1] = value key, KEYS[2] = index
// ARGV[1] = now ms, ARGV[2] = member, ARGV[3] = ttl ms
var touch = redis.NewScript(`
local val = redis.call('GET', KEYS[1])
if val then
    redis.call('PEXPIRE', KEYS[1], ARGV[3])
    redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
end
return val
`)

// store writes a value, prunes expired index members and evicts the least
// recently used keys above maxSize. Returns the evicted members.
//
// KEYS[1] = value key, KEYS[2] = index
// ARGV[1] = value, ARGV[2] = now ms, ARGV[3] = member, ARGV[4] = maxSize,
// ARGV[5] = ttl ms, ARGV[6] = key prefix
var store = redis.NewScript(`
local now = tonumber(ARGV[2])
local ttl = tonumber(ARGV[5])
redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
redis.call('ZADD', KEYS[2], now, ARGV[3])
redis.call('ZREMRANGEBYSCORE', KEYS[2], '-inf', '(' .. (now - ttl))

local evicted = {}
local size = redis.call('ZCARD', KEYS[2])
local maxSize = tonumber(ARGV[4])
while size > maxSize do
    local oldest = redis.call('ZPOPMIN', KEYS[2], 1)
    if #oldest == 0 then break end
    if redis.call('DEL', ARGV[6] .. oldest[1]) == 1 then
        table.insert(evicted, oldest[1])
    end
    size = size - 1
end
return evicted
`)

func newRedisCache(opts Options) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddress,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisCache{
		client:  client,
		ttl:     opts.TTL,
		maxSize: opts.Size,
		onEvict: opts.OnEvict,
		logger:  opts.Logger,
		index:   keyPrefix + "lru",
	}, nil
}

func (r *redisCache) valueKey(key string) string {
	return keyPrefix + "page:" + key
}

func (r *redisCache) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, err)
	}
}

func nowMillis() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ttl := strconv.FormatInt(r.ttl.Milliseconds(), 10)
	val, err := touch.Run(ctx, r.client, []string{r.valueKey(key), r.index}, nowMillis(), key, ttl).Text()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return []byte(val), nil
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	evicted, err := store.Run(ctx, r.client, []string{r.valueKey(key), r.index},
		value,
		nowMillis(),
		key,
		strconv.Itoa(r.maxSize),
		strconv.FormatInt(r.ttl.Milliseconds(), 10),
		keyPrefix+"page:",
	).StringSlice()
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	if r.onEvict != nil {
		for _, k := range evicted {
			r.onEvict(k, nil)
		}
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.valueKey(key))
		pipe.ZRem(ctx, r.index, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Len counts index members accessed within the last TTL.
func (r *redisCache) Len(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cutoff := strconv.FormatInt(time.Now().Add(-r.ttl).UnixMilli(), 10)
	n, err := r.client.ZCount(ctx, r.index, cutoff, "+inf").Result()
	if err != nil {
		r.logError("redis cache Len failed", err)
		return 0
	}
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
