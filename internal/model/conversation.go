// Package model 包含了客户端与后端共享的数据模型定义。
package model

import "time"

// Role 表示消息的发送方。
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 代表会话中的一条消息，创建后不再修改。
type Message struct {
	Role       Role   `json:"role"`
	Text       string `json:"text"`
	Attachment string `json:"file,omitempty"` // data: URL
}

// StoredMessage 是后端持久化的消息形态，图片字段名为 image。
type StoredMessage struct {
	Role  Role   `json:"role"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// ToMessage 转换为客户端消息。
func (m StoredMessage) ToMessage() Message {
	return Message{Role: m.Role, Text: m.Text, Attachment: m.Image}
}

// SessionSummary 是会话列表中的一项。
type SessionSummary struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
}

// ChatSession 代表后端保存的一次完整对话。
type ChatSession struct {
	SessionID string          `json:"session_id"`
	UserEmail string          `json:"user_email"`
	Title     string          `json:"title"`
	Messages  []StoredMessage `json:"messages"`
	CreatedAt time.Time       `json:"created_at"`
}
