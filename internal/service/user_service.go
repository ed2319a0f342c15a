package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"opuluxe-go/internal/model"
	"opuluxe-go/internal/repository"
	"opuluxe-go/pkg/hash"
	"opuluxe-go/pkg/log"
	"opuluxe-go/pkg/token"
)

// UserService 接口定义了所有与账号相关的业务操作。
// 注册与登录成功后都返回会话 token，由 handler 写入 cookie。
type UserService interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type userService struct {
	userRepo   repository.UserRepository
	jwtManager *token.JWTManager
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo repository.UserRepository, jwtManager *token.JWTManager) UserService {
	return &userService{userRepo: userRepo, jwtManager: jwtManager}
}

// Register 处理用户注册的业务逻辑。
func (s *userService) Register(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrMissingFields
	}

	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return "", err
	}
	err = s.userRepo.Create(ctx, &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, repository.ErrUserExists) {
		return "", ErrUserExists
	}
	if err != nil {
		return "", err
	}
	log.Infow("user registered", "email", email)
	return s.jwtManager.GenerateToken(email)
}

// Login 校验密码；用户不存在与密码错误返回同一个错误。
func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !hash.CheckPasswordHash(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.jwtManager.GenerateToken(email)
}
