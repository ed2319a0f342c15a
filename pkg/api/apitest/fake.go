// Package apitest 提供 api.Client 的内存替身，供依赖后端的包在测试中使用。
package apitest

import (
	"context"
	"sync"

	"opuluxe-go/internal/model"
	"opuluxe-go/pkg/api"
)

// Fake 实现 api.Client。未设置的函数字段返回成功的零值响应，所有调用都会被记录。
type Fake struct {
	LoginFunc         func(ctx context.Context, username, password string) error
	SignupFunc        func(ctx context.Context, email, password string) error
	LogoutFunc        func(ctx context.Context) error
	ChatFunc          func(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error)
	ChatHistoryFunc   func(ctx context.Context) ([]model.SessionSummary, error)
	ChatSessionFunc   func(ctx context.Context, id string) ([]model.StoredMessage, error)
	DeleteChatFunc    func(ctx context.Context, id string) error
	TryOnFunc         func(ctx context.Context, req model.TryOnRequest) (string, error)
	SaveProfileFunc   func(ctx context.Context, p *model.Profile) error
	GetProfilesFunc   func(ctx context.Context) ([]model.Profile, error)
	GetProfileFunc    func(ctx context.Context, id model.ProfileID) (*model.Profile, error)
	DeleteProfileFunc func(ctx context.Context, id model.ProfileID) error
	Base              string

	mu    sync.Mutex
	calls []string
	chats []model.ChatRequest
}

var _ api.Client = (*Fake)(nil)

func (f *Fake) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

// Calls 返回按顺序记录的方法名。
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Count 返回 name 被调用的次数。
func (f *Fake) Count(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

// ChatRequests 返回收到的全部对话请求。
func (f *Fake) ChatRequests() []model.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.ChatRequest, len(f.chats))
	copy(out, f.chats)
	return out
}

func (f *Fake) Login(ctx context.Context, username, password string) error {
	f.record("Login")
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, username, password)
	}
	return nil
}

func (f *Fake) Signup(ctx context.Context, email, password string) error {
	f.record("Signup")
	if f.SignupFunc != nil {
		return f.SignupFunc(ctx, email, password)
	}
	return nil
}

func (f *Fake) Logout(ctx context.Context) error {
	f.record("Logout")
	if f.LogoutFunc != nil {
		return f.LogoutFunc(ctx)
	}
	return nil
}

func (f *Fake) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "Chat")
	f.chats = append(f.chats, req)
	f.mu.Unlock()
	if f.ChatFunc != nil {
		return f.ChatFunc(ctx, req)
	}
	return &model.ChatResponse{Envelope: model.Envelope{Success: true}}, nil
}

func (f *Fake) ChatHistory(ctx context.Context) ([]model.SessionSummary, error) {
	f.record("ChatHistory")
	if f.ChatHistoryFunc != nil {
		return f.ChatHistoryFunc(ctx)
	}
	return []model.SessionSummary{}, nil
}

func (f *Fake) ChatSession(ctx context.Context, id string) ([]model.StoredMessage, error) {
	f.record("ChatSession")
	if f.ChatSessionFunc != nil {
		return f.ChatSessionFunc(ctx, id)
	}
	return nil, &api.AppError{Endpoint: "/api/chat-session/", Message: "Session not found"}
}

func (f *Fake) DeleteChat(ctx context.Context, id string) error {
	f.record("DeleteChat")
	if f.DeleteChatFunc != nil {
		return f.DeleteChatFunc(ctx, id)
	}
	return nil
}

func (f *Fake) TryOn(ctx context.Context, req model.TryOnRequest) (string, error) {
	f.record("TryOn")
	if f.TryOnFunc != nil {
		return f.TryOnFunc(ctx, req)
	}
	return req.UserPhoto, nil
}

func (f *Fake) SaveProfile(ctx context.Context, p *model.Profile) error {
	f.record("SaveProfile")
	if f.SaveProfileFunc != nil {
		return f.SaveProfileFunc(ctx, p)
	}
	return nil
}

func (f *Fake) GetProfiles(ctx context.Context) ([]model.Profile, error) {
	f.record("GetProfiles")
	if f.GetProfilesFunc != nil {
		return f.GetProfilesFunc(ctx)
	}
	return []model.Profile{}, nil
}

func (f *Fake) GetProfile(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	f.record("GetProfile")
	if f.GetProfileFunc != nil {
		return f.GetProfileFunc(ctx, id)
	}
	return nil, &api.AppError{Endpoint: "/api/get-profile/", Message: "Profile not found"}
}

func (f *Fake) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	f.record("DeleteProfile")
	if f.DeleteProfileFunc != nil {
		return f.DeleteProfileFunc(ctx, id)
	}
	return nil
}

func (f *Fake) BaseURL() string {
	if f.Base == "" {
		return "http://localhost:8000"
	}
	return f.Base
}
