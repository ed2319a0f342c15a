// Package api provides a typed client for the shopping-assistant backend endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"opuluxe-go/internal/config"
	"opuluxe-go/internal/model"
	"opuluxe-go/pkg/log"
)

// Client defines every backend call the client side makes.
type Client interface {
	Login(ctx context.Context, username, password string) error
	Signup(ctx context.Context, email, password string) error
	// Logout 让后端清除会话 cookie。
	Logout(ctx context.Context) error
	Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error)
	ChatHistory(ctx context.Context) ([]model.SessionSummary, error)
	ChatSession(ctx context.Context, sessionID string) ([]model.StoredMessage, error)
	DeleteChat(ctx context.Context, sessionID string) error
	TryOn(ctx context.Context, req model.TryOnRequest) (string, error)
	SaveProfile(ctx context.Context, profile *model.Profile) error
	GetProfiles(ctx context.Context) ([]model.Profile, error)
	GetProfile(ctx context.Context, id model.ProfileID) (*model.Profile, error)
	DeleteProfile(ctx context.Context, id model.ProfileID) error
	// BaseURL 返回后端根地址，用于拼接分享链接。
	BaseURL() string
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for cfg.BaseURL. The client keeps the backend session cookie in
// an in-memory jar, so login and later calls must share one Client.
func NewClient(cfg config.BackendConfig) Client {
	jar, _ := cookiejar.New(nil)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Jar: jar, Timeout: timeout})
}

// NewClientWithHTTP 使用调用方提供的 http.Client，测试中用于注入 httptest 的客户端。
func NewClientWithHTTP(baseURL string, hc *http.Client) Client {
	if hc.Jar == nil {
		hc.Jar, _ = cookiejar.New(nil)
	}
	return &httpClient{baseURL: strings.TrimRight(baseURL, "/"), client: hc}
}

func (c *httpClient) BaseURL() string { return c.baseURL }

// do 发送请求并将 JSON 响应解码到 out。请求失败或响应无法解析时返回 *TransportError。
func (c *httpClient) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reqBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(reqBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		log.Warnw("backend request failed", "endpoint", endpoint, "error", err)
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	log.Debugw("backend request", "method", method, "endpoint", endpoint,
		"status", resp.StatusCode, "latency", time.Since(start).String())

	// 后端以 success 字段表达业务失败，非 200 但响应体仍是合法 JSON 时照常解析
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Endpoint: endpoint,
			Err: fmt.Errorf("malformed response (status %s): %w", resp.Status, err)}
	}
	return nil
}

func appError(endpoint string, env model.Envelope, fallback string) error {
	msg := env.Error
	if msg == "" {
		msg = fallback
	}
	return &AppError{Endpoint: endpoint, Message: msg}
}

func (c *httpClient) Login(ctx context.Context, username, password string) error {
	const endpoint = "/api/login/"
	var resp model.Envelope
	if err := c.do(ctx, http.MethodPost, endpoint, model.LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return appError(endpoint, resp, "")
	}
	return nil
}

func (c *httpClient) Signup(ctx context.Context, email, password string) error {
	const endpoint = "/api/signup/"
	var resp model.Envelope
	if err := c.do(ctx, http.MethodPost, endpoint, model.SignupRequest{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return appError(endpoint, resp, "")
	}
	return nil
}

func (c *httpClient) Logout(ctx context.Context) error {
	const endpoint = "/api/logout/"
	var resp model.Envelope
	if err := c.do(ctx, http.MethodPost, endpoint, nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return appError(endpoint, resp, "")
	}
	return nil
}

// Chat posts one chat turn. A success=false reply is returned as *AppError.
func (c *httpClient) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	const endpoint = "/api/chat/"
	if req.History == nil {
		req.History = []model.Message{}
	}
	var resp model.ChatResponse
	if err := c.do(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, appError(endpoint, resp.Envelope, "")
	}
	return &resp, nil
}

func (c *httpClient) ChatHistory(ctx context.Context) ([]model.SessionSummary, error) {
	const endpoint = "/api/chat-history/"
	var resp model.ChatHistoryResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, appError(endpoint, resp.Envelope, "")
	}
	return resp.History, nil
}

func (c *httpClient) ChatSession(ctx context.Context, sessionID string) ([]model.StoredMessage, error) {
	const endpoint = "/api/chat-session/"
	var resp model.ChatSessionResponse
	if err := c.do(ctx, http.MethodGet, endpoint+"?id="+url.QueryEscape(sessionID), nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, appError(endpoint, resp.Envelope, "Session not found")
	}
	return resp.Messages, nil
}

func (c *httpClient) DeleteChat(ctx context.Context, sessionID string) error {
	const endpoint = "/api/delete-chat/"
	var resp model.Envelope
	if err := c.do(ctx, http.MethodPost, endpoint, model.DeleteRequest{ID: sessionID}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return appError(endpoint, resp, "")
	}
	return nil
}

// TryOn returns the generated image as a data: URL.
func (c *httpClient) TryOn(ctx context.Context, req model.TryOnRequest) (string, error) {
	const endpoint = "/api/tryon/"
	var resp model.TryOnResponse
	if err := c.do(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.Image == "" {
		return "", appError(endpoint, resp.Envelope, "Generation failed")
	}
	return resp.Image, nil
}

func (c *httpClient) SaveProfile(ctx context.Context, profile *model.Profile) error {
	const endpoint = "/api/save-profile/"
	var resp model.Envelope
	if err := c.do(ctx, http.MethodPost, endpoint, model.SaveProfileRequest{Profile: profile}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return appError(endpoint, resp, "")
	}
	return nil
}

// GetProfiles 返回 profiles 列表；后端只带 profiles 字段也视为成功。
func (c *httpClient) GetProfiles(ctx context.Context) ([]model.Profile, error) {
	const endpoint = "/api/get-profiles/"
	var resp model.ProfilesResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, appError(endpoint, resp.Envelope, "")
	}
	if resp.Profiles == nil {
		return []model.Profile{}, nil
	}
	return resp.Profiles, nil
}

func (c *httpClient) GetProfile(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	endpoint := "/api/get-profile/" + url.PathEscape(string(id)) + "/"
	var resp model.ProfileResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Profile == nil {
		return nil, appError(endpoint, resp.Envelope, "Profile not found")
	}
	return resp.Profile, nil
}

func (c *httpClient) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	const endpoint = "/api/delete-profile/"
	var resp model.Envelope
	if err := c.do(ctx, http.MethodPost, endpoint, model.DeleteProfileRequest{ID: id}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return appError(endpoint, resp, "")
	}
	return nil
}
