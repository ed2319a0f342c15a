package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"opuluxe-go/internal/model"
	"opuluxe-go/internal/repository"
	"opuluxe-go/pkg/llm"
	"opuluxe-go/pkg/log"
)

const titleLength = 30

// ChatService 定义了聊天操作的接口。
type ChatService interface {
	// Chat 生成回复。email 非空时保存对话并返回会话 id，未登录时 sessionID 为空。
	Chat(ctx context.Context, email string, req model.ChatRequest) (reply, sessionID string, err error)
}

type chatService struct {
	llmClient        llm.Client
	conversationRepo repository.ConversationRepository
	now              func() time.Time
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(llmClient llm.Client, conversationRepo repository.ConversationRepository) ChatService {
	return &chatService{llmClient: llmClient, conversationRepo: conversationRepo, now: time.Now}
}

func (s *chatService) Chat(ctx context.Context, email string, req model.ChatRequest) (string, string, error) {
	if req.Message == "" {
		return "", "", ErrEmptyMessage
	}

	reply, err := s.llmClient.Reply(ctx, req.History, req.Message)
	if err != nil {
		return "", "", err
	}
	if email == "" {
		return reply, "", nil
	}

	// 保存失败不影响本次回复，只是不返回 session_id
	sessionID, err := s.save(ctx, email, req, reply)
	if err != nil {
		log.Errorf("Failed to save chat session: %v", err)
		return reply, "", nil
	}
	return reply, sessionID, nil
}

func (s *chatService) save(ctx context.Context, email string, req model.ChatRequest, reply string) (string, error) {
	turn := []model.StoredMessage{
		{Role: model.RoleUser, Text: req.Message, Image: deref(req.Image)},
		{Role: model.RoleAssistant, Text: reply},
	}

	sessionID := deref(req.SessionID)
	if sessionID != "" {
		session, err := s.conversationRepo.Get(ctx, email, sessionID)
		switch {
		case err == nil:
			session.Messages = append(session.Messages, turn...)
			return sessionID, s.conversationRepo.Save(ctx, session)
		case !errors.Is(err, repository.ErrNotFound):
			return "", err
		}
		// 客户端持有的 id 已被删除，按该 id 重新建一个会话
	} else {
		sessionID = strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	}

	session := &model.ChatSession{
		SessionID: sessionID,
		UserEmail: email,
		Title:     Title(req.Message),
		Messages:  turn,
		CreatedAt: s.now().UTC(),
	}
	return sessionID, s.conversationRepo.Save(ctx, session)
}

// Title 取首条消息的前 30 个字符加省略号作为会话标题。
func Title(message string) string {
	r := []rune(message)
	if len(r) > titleLength {
		r = r[:titleLength]
	}
	return string(r) + "..."
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
