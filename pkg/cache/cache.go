package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yockii/md2docx/pkg/config"
)

// ErrCache 缓存读写失败
var ErrCache = errors.New("cache: operation failed")

// Cache 文档缓存，按内容键存取docx数据
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, blob []byte) error
	Close() error
}

// Options Redis缓存配置
type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	Prefix   string
	TTL      time.Duration
}

// OptionsFromConfig 从配置中读取缓存参数
func OptionsFromConfig() Options {
	return Options{
		Addr:     config.GetRedisAddress(),
		Password: config.GetString("cache.redis.password"),
		DB:       config.GetInt("cache.redis.db"),
		PoolSize: config.GetInt("cache.redis.pool_size"),
		Prefix:   config.GetString("cache.prefix"),
		TTL:      time.Duration(config.GetInt64("cache.ttl")) * time.Second,
	}
}

// RedisCache 基于Redis的缓存
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache 创建Redis缓存
func NewRedisCache(opts Options) *RedisCache {
	return &RedisCache{
		rdb: redis.NewClient(&redis.Options{
			Addr:         opts.Addr,
			Password:     opts.Password,
			DB:           opts.DB,
			PoolSize:     opts.PoolSize,
			MinIdleConns: opts.PoolSize / 2,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
		prefix: opts.Prefix,
		ttl:    opts.TTL,
	}
}

// Ping 检查Redis是否可用
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCache, err)
	}
	return nil
}

// Get 读取缓存，未命中时返回false
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrCache, key, err)
	}
	return data, true, nil
}

// Set 写入缓存，过期时间取配置的TTL
func (c *RedisCache) Set(ctx context.Context, key string, blob []byte) error {
	if err := c.rdb.Set(ctx, c.prefix+key, blob, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrCache, key, err)
	}
	return nil
}

// Close 关闭连接
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// Noop 不做任何缓存
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, []byte) error { return nil }

func (Noop) Close() error { return nil }

// New 根据cache.enabled选择实现
func New() Cache {
	if !config.GetBool("cache.enabled") {
		return Noop{}
	}
	return NewRedisCache(OptionsFromConfig())
}
