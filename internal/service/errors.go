// Package service 包含了本地后端的业务逻辑层。
package service

import "errors"

// 错误文案直接作为 JSON 响应中的 error 字段返回给客户端。
var (
	ErrMissingFields      = errors.New("Missing fields")
	ErrUserExists         = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrEmptyMessage       = errors.New("Empty message")
	ErrSessionNotFound    = errors.New("Session not found")
	ErrInvalidProfile     = errors.New("Invalid profile")
	ErrProfileNotFound    = errors.New("Profile not found")
	ErrGenerationFailed   = errors.New("Generation failed")
)
