package model

// 以下为后端 JSON 接口的请求与响应结构。

// Envelope 是所有响应共有的字段。
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChatRequest 携带截至目前的完整消息列表。SessionID 与 Image 为 nil 时序列化为 null。
type ChatRequest struct {
	Message   string    `json:"message"`
	History   []Message `json:"history"`
	SessionID *string   `json:"session_id"`
	Image     *string   `json:"image"`
}

type ChatResponse struct {
	Envelope
	Reply     string `json:"reply"`
	SessionID string `json:"session_id,omitempty"`
}

type ChatHistoryResponse struct {
	Envelope
	History []SessionSummary `json:"history"`
}

type ChatSessionResponse struct {
	Envelope
	Messages []StoredMessage `json:"messages"`
}

type DeleteRequest struct {
	ID string `json:"id"`
}

type DeleteProfileRequest struct {
	ID ProfileID `json:"id"`
}

type TryOnRequest struct {
	Item      string `json:"item"`
	Gender    string `json:"gender"`
	UserPhoto string `json:"user_photo"`
}

type TryOnResponse struct {
	Envelope
	Image string `json:"image,omitempty"`
}

type SaveProfileRequest struct {
	Profile *Profile `json:"profile"`
}

type ProfilesResponse struct {
	Envelope
	Profiles []Profile `json:"profiles"`
}

type ProfileResponse struct {
	Envelope
	Profile *Profile `json:"profile,omitempty"`
}
