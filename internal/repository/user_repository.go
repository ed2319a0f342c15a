package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"opuluxe-go/internal/model"
)

// ErrUserExists 表示邮箱已经注册。
var ErrUserExists = errors.New("user already exists")

// UserRepository 接口定义了用户数据的持久化操作。
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type redisUserRepository struct {
	redisClient *redis.Client
}

// NewUserRepository 创建一个新的 UserRepository 实例。
func NewUserRepository(redisClient *redis.Client) UserRepository {
	return &redisUserRepository{redisClient: redisClient}
}

func userKey(email string) string { return keyPrefix + "user:" + email }

// Create 保存新用户；邮箱已存在时返回 ErrUserExists。
func (r *redisUserRepository) Create(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	ok, err := r.redisClient.SetNX(ctx, userKey(user.Email), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if !ok {
		return ErrUserExists
	}
	return nil
}

func (r *redisUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	data, err := r.redisClient.Get(ctx, userKey(email)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	var user model.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}
