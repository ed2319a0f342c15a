package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"opuluxe-go/internal/config"
	"opuluxe-go/internal/model"
)

// openaiClient 通过 OpenAI 兼容接口调用模型，默认指向 Groq。
type openaiClient struct {
	client *openai.Client
	cfg    config.LLMConfig
}

func NewOpenAIClient(cfg config.LLMConfig) Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &openaiClient{client: openai.NewClientWithConfig(oc), cfg: cfg}
}

func (c *openaiClient) Reply(ctx context.Context, history []model.Message, message string) (string, error) {
	messages := BuildMessages(history, message)
	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: float32(c.cfg.Temperature),
		MaxTokens:   c.cfg.MaxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat api: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat api returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
