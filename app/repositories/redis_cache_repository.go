package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zettaboard/app/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCacheRepository implements CacheRepository on a shared redis instance.
type RedisCacheRepository struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisCacheRepository(cfg config.Redis, log *zap.Logger) (*RedisCacheRepository, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Connected to redis",
		zap.String("address", cfg.Address),
		zap.Int("port", cfg.Port),
		zap.Int("db", cfg.DB))

	return &RedisCacheRepository{client: rdb, log: log}, nil
}

func (r *RedisCacheRepository) Driver() string {
	return "redis"
}

func (r *RedisCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, CacheKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.log.Debug("Cache miss", zap.String("key", key))
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}
	r.log.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, CacheKeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (r *RedisCacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, CacheKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}

// Purge removes every cache key from redis.
func (r *RedisCacheRepository) Purge(ctx context.Context) (int, error) {
	var deleted int
	iter := r.client.Scan(ctx, 0, CacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return deleted, nil
}

func (r *RedisCacheRepository) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis connection: %w", err)
	}
	return nil
}
