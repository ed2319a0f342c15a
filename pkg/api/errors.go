package api

import (
	"errors"
	"fmt"
)

// NotLoggedInMessage 是后端在会话失效时返回的错误文本。
const NotLoggedInMessage = "Not logged in"

// ErrNotLoggedIn 可与 errors.Is 配合判断登录态失效。
var ErrNotLoggedIn = errors.New("not logged in")

// AppError 表示后端返回了格式正确但 success=false 的响应。
type AppError struct {
	Endpoint string
	Message  string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request rejected", e.Endpoint)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

// Is 让 errors.Is(err, ErrNotLoggedIn) 对 "Not logged in" 生效。
func (e *AppError) Is(target error) bool {
	return target == ErrNotLoggedIn && e.Message == NotLoggedInMessage
}

// TransportError 表示请求未完成或响应无法解析。
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotLoggedIn reports whether err carries the backend's "Not logged in" failure.
func IsNotLoggedIn(err error) bool {
	return errors.Is(err, ErrNotLoggedIn)
}

// AppMessage 返回应用层错误文本；非应用层错误返回 ok=false。
func AppMessage(err error) (msg string, ok bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message, true
	}
	return "", false
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
