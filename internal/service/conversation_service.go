package service

import (
	"context"
	"errors"

	"opuluxe-go/internal/model"
	"opuluxe-go/internal/repository"
)

// ConversationService 定义了已保存会话的查询与删除。
type ConversationService interface {
	List(ctx context.Context, email string) ([]model.SessionSummary, error)
	Messages(ctx context.Context, email, sessionID string) ([]model.StoredMessage, error)
	Delete(ctx context.Context, email, sessionID string) error
}

type conversationService struct {
	repo repository.ConversationRepository
}

// NewConversationService 创建一个新的 ConversationService。
func NewConversationService(repo repository.ConversationRepository) ConversationService {
	return &conversationService{repo: repo}
}

func (s *conversationService) List(ctx context.Context, email string) ([]model.SessionSummary, error) {
	return s.repo.List(ctx, email)
}

func (s *conversationService) Messages(ctx context.Context, email, sessionID string) ([]model.StoredMessage, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.repo.Get(ctx, email, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.Messages == nil {
		return []model.StoredMessage{}, nil
	}
	return session.Messages, nil
}

// Delete 删除不存在的会话也视为成功。
func (s *conversationService) Delete(ctx context.Context, email, sessionID string) error {
	if sessionID == "" {
		return ErrSessionNotFound
	}
	return s.repo.Delete(ctx, email, sessionID)
}
