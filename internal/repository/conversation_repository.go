package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"opuluxe-go/internal/model"
)

// ConversationRepository 定义了对话会话的操作接口。
type ConversationRepository interface {
	Save(ctx context.Context, session *model.ChatSession) error
	Get(ctx context.Context, email, sessionID string) (*model.ChatSession, error)
	// List 按创建时间倒序返回用户的会话摘要。
	List(ctx context.Context, email string) ([]model.SessionSummary, error)
	Delete(ctx context.Context, email, sessionID string) error
}

type redisConversationRepository struct {
	redisClient *redis.Client
}

// NewConversationRepository 创建一个新的 ConversationRepository 实例。
func NewConversationRepository(redisClient *redis.Client) ConversationRepository {
	return &redisConversationRepository{redisClient: redisClient}
}

// 会话正文按 "邮箱+会话" 存储，其他用户无法通过猜测 id 读取
func sessionKey(email, sessionID string) string {
	return fmt.Sprintf("%ssession:%s:%s", keyPrefix, email, sessionID)
}

func sessionIndexKey(email string) string {
	return fmt.Sprintf("%suser:%s:sessions", keyPrefix, email)
}

// Save 写入完整会话，并在索引中以创建时间排序。
func (r *redisConversationRepository) Save(ctx context.Context, session *model.ChatSession) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal chat session: %w", err)
	}
	pipe := r.redisClient.TxPipeline()
	pipe.Set(ctx, sessionKey(session.UserEmail, session.SessionID), jsonData, 0)
	pipe.ZAdd(ctx, sessionIndexKey(session.UserEmail), &redis.Z{
		Score:  float64(session.CreatedAt.UnixNano()),
		Member: session.SessionID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save chat session: %w", err)
	}
	return nil
}

func (r *redisConversationRepository) Get(ctx context.Context, email, sessionID string) (*model.ChatSession, error) {
	jsonData, err := r.redisClient.Get(ctx, sessionKey(email, sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	var session model.ChatSession
	if err := json.Unmarshal([]byte(jsonData), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat session: %w", err)
	}
	return &session, nil
}

func (r *redisConversationRepository) List(ctx context.Context, email string) ([]model.SessionSummary, error) {
	ids, err := r.redisClient.ZRevRange(ctx, sessionIndexKey(email), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	summaries := make([]model.SessionSummary, 0, len(ids))
	for _, id := range ids {
		session, err := r.Get(ctx, email, id)
		if err == ErrNotFound {
			// 索引残留，跳过
			continue
		}
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, model.SessionSummary{SessionID: session.SessionID, Title: session.Title})
	}
	return summaries, nil
}

func (r *redisConversationRepository) Delete(ctx context.Context, email, sessionID string) error {
	pipe := r.redisClient.TxPipeline()
	pipe.Del(ctx, sessionKey(email, sessionID))
	pipe.ZRem(ctx, sessionIndexKey(email), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	return nil
}
