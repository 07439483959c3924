package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeu5/keyword-rl/adenv"
)

// Cache stores organized datasets so that the keyword-major input does not
// have to be re-organized on every start
type Cache interface {
	Get(ctx context.Context, key string) (adenv.Dataset, bool, error)
	Put(ctx context.Context, key string, d adenv.Dataset) error
}

// RedisCacheConfig configures the connection of a RedisCache
type RedisCacheConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisCache keeps organized datasets as JSON values in Redis
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Cache = &RedisCache{}

func NewRedisCache(config *RedisCacheConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:        config.Addr,
			Password:    config.Password,
			DB:          config.DB,
			DialTimeout: 2 * time.Second,
		}),
		prefix: config.Prefix,
		ttl:    config.TTL,
	}
}

// Ping checks that the server is reachable
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) key(key string) string {
	return r.prefix + ":organized:" + key
}

func (r *RedisCache) Get(ctx context.Context, key string) (adenv.Dataset, bool, error) {
	bs, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	d := make(adenv.Dataset, 0)
	if err := json.Unmarshal(bs, &d); err != nil {
		return nil, false, fmt.Errorf("decoding cached dataset %s: %w", key, err)
	}
	return d, true, nil
}

func (r *RedisCache) Put(ctx context.Context, key string, d adenv.Dataset) error {
	bs, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), bs, r.ttl).Err()
}

// FileKey identifies the organized form of the file at path for the given
// step bound, by content hash
func FileKey(path string, maxSteps int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)) + ":" + strconv.Itoa(maxSteps), nil
}
