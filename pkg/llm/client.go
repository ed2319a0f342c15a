// Package llm provides the reply generators used by the local backend.
package llm

import (
	"context"
	"fmt"

	"opuluxe-go/internal/config"
	"opuluxe-go/internal/model"
)

// SystemPrompt 限定助手只讨论穿搭，并约定两个界面标记的使用时机。
const SystemPrompt = "You are the Opuluxe AI Fashion Consultant. " +
	"CRITICAL RULE: You ONLY answer questions related to fashion, style, clothing, accessories, and grooming. " +
	"If the user asks about anything else (e.g., math, coding, politics, general knowledge), " +
	"politely explain that you are specialized in fashion and can only assist with style-related queries. " +
	"Keep your tone elegant, premium, and helpful. " +
	"PERSONALIZATION RULE: If the user is asking for specific recommendations (like 'what should I wear?' or 'does this fit?'), " +
	"and you don't have their measurements yet, encourage them to select a profile by including the tag [NEED_PROFILE_SELECTION] at the very end of your response. " +
	"CONSULTATION FLOW: Once measurements ARE provided, you MUST ask for their shopping preferences (Budget, Platform, Brands) by including the tag [NEED_SHOPPING_DETAILS] at the very end of your response. " +
	"Do not give final clothing links until these preferences are clarified."

// HistoryWindow 是随请求发送给模型的历史消息条数上限。
const HistoryWindow = 5

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for an LLM client.
type Client interface {
	// Reply 基于最近的历史与当前消息生成一条完整回复。
	Reply(ctx context.Context, history []model.Message, message string) (string, error)
}

// BuildMessages 组装 system + 最近 HistoryWindow 条历史 + 当前消息。
func BuildMessages(history []model.Message, message string) []Message {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: SystemPrompt})
	for _, h := range history {
		messages = append(messages, Message{Role: string(h.Role), Content: h.Text})
	}
	return append(messages, Message{Role: "user", Content: message})
}

// NewClient creates a new LLM client based on the driver in the config.
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch cfg.Driver {
	case "", "scripted":
		return NewScriptedClient(), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("llm.api_key is required for the openai driver")
		}
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm driver %q", cfg.Driver)
	}
}
