package kv

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"opuluxe-go/internal/config"
	"opuluxe-go/pkg/database"
)

const redisKeyPrefix = "opuluxe:client:"

// RedisStore 把客户端状态保存在 Redis 中，便于多台设备共享同一份状态。
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore 初始化 Redis 客户端连接并测试连通性。
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	rdb, err := database.NewRedis(cfg)
	if err != nil {
		return nil, err
	}
	return &RedisStore{rdb: rdb}, nil
}

// NewRedisStoreFromClient 复用已有连接。
func NewRedisStoreFromClient(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
