// Package kv 提供客户端本地持久化的键值存储，对应浏览器中的 localStorage。
package kv

import (
	"context"
	"fmt"

	"opuluxe-go/internal/config"
)

// Store 是一个简单的字符串键值存储，重启后仍然保留。
type Store interface {
	// Get 返回 key 对应的值；不存在时 ok 为 false。
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open 根据配置创建存储驱动。
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileStore(cfg.Path)
	case "redis":
		return NewRedisStore(cfg.Redis)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
