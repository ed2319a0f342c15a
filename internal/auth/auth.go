// Package auth 处理登录、注册与登出。
package auth

import (
	"context"
	"errors"
	"sync"

	"opuluxe-go/internal/clientstate"
	"opuluxe-go/internal/ui"
	"opuluxe-go/pkg/api"
	"opuluxe-go/pkg/log"
)

const (
	DashboardPage = "/dashboard/"
	LandingPage   = "/"
)

var (
	ErrMissingFields    = errors.New("missing fields")
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrSubmitting 表示同一个表单已有请求在进行中。
	ErrSubmitting = errors.New("request already in flight")
)

// FailureError 携带要展示给用户的失败文本。
type FailureError struct {
	Message string
	Err     error
}

func (e *FailureError) Error() string { return e.Message }

func (e *FailureError) Unwrap() error { return e.Err }

// Submitter 记录表单的提交状态；请求进行中时提交按钮不可用。
type Submitter struct {
	mu       sync.Mutex
	inFlight bool
}

func (s *Submitter) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrSubmitting
	}
	s.inFlight = true
	return nil
}

func (s *Submitter) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// Disabled 报告提交按钮当前是否应被禁用。
func (s *Submitter) Disabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

type Controller struct {
	client   api.Client
	state    *clientstate.State
	renderer ui.Renderer

	LoginForm  Submitter
	SignupForm Submitter
}

func NewController(client api.Client, state *clientstate.State, renderer ui.Renderer) *Controller {
	if renderer == nil {
		renderer = ui.Discard
	}
	return &Controller{client: client, state: state, renderer: renderer}
}

// Login 校验表单并登录，成功后跳转到控制台。
func (c *Controller) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return c.fail(&FailureError{Message: "Please fill in both username and password.", Err: ErrMissingFields})
	}
	if err := c.LoginForm.begin(); err != nil {
		return err
	}
	defer c.LoginForm.end()

	err := c.client.Login(ctx, username, password)
	if err != nil {
		log.Warnw("login failed", "username", username, "error", err)
		if msg, ok := api.AppMessage(err); ok {
			if msg == "" {
				msg = "Check credentials"
			}
			return c.fail(&FailureError{Message: "Login Failed: " + msg, Err: err})
		}
		return c.fail(&FailureError{Message: "Network Error: Could not connect to authentication server.", Err: err})
	}
	return c.succeed(ctx)
}

// Signup 校验表单并注册，成功后直接视为已登录。
func (c *Controller) Signup(ctx context.Context, email, password, confirm string) error {
	if email == "" || password == "" || confirm == "" {
		return c.fail(&FailureError{Message: "Please complete all signup fields.", Err: ErrMissingFields})
	}
	if password != confirm {
		return c.fail(&FailureError{Message: "Passwords do not match. Please verify.", Err: ErrPasswordMismatch})
	}
	if err := c.SignupForm.begin(); err != nil {
		return err
	}
	defer c.SignupForm.end()

	err := c.client.Signup(ctx, email, password)
	if err != nil {
		log.Warnw("signup failed", "email", email, "error", err)
		if msg, ok := api.AppMessage(err); ok {
			if msg == "" {
				msg = "Server rejected the request"
			}
			return c.fail(&FailureError{Message: "Signup Error: " + msg, Err: err})
		}
		return c.fail(&FailureError{Message: "Check your internet connection and try again.", Err: err})
	}
	return c.succeed(ctx)
}

// Logout 先让后端清除会话 cookie，再清除本地登录标记并回到首页。
// 后端调用失败只记录日志，本地仍然登出。
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.client.Logout(ctx); err != nil {
		log.Warnw("backend logout failed", "error", err)
	}
	if err := c.state.SetLoggedIn(ctx, false); err != nil {
		return err
	}
	c.renderer.Render(ui.Redirect{Target: LandingPage})
	return nil
}

func (c *Controller) succeed(ctx context.Context) error {
	if err := c.state.SetLoggedIn(ctx, true); err != nil {
		log.Error("failed to persist login flag", err)
	}
	c.renderer.Render(ui.Redirect{Target: DashboardPage})
	return nil
}

func (c *Controller) fail(err *FailureError) error {
	c.renderer.Render(ui.InlineError{Text: err.Message})
	return err
}
