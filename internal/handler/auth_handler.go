package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opuluxe-go/internal/model"
	"opuluxe-go/internal/service"
	"opuluxe-go/pkg/log"
	"opuluxe-go/pkg/token"
)

// AuthHandler 负责注册、登录与登出，成功后通过 cookie 维持会话。
type AuthHandler struct {
	userService service.UserService
	jwtManager  *token.JWTManager
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(userService service.UserService, jwtManager *token.JWTManager) *AuthHandler {
	return &AuthHandler{userService: userService, jwtManager: jwtManager}
}

// Signup 处理注册请求，成功后直接登录。
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Signup: Invalid request payload, error: %v", err)
		fail(c, err)
		return
	}
	tok, err := h.userService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		log.Warnf("Signup: registration failed for '%s', error: %v", req.Email, err)
		fail(c, err)
		return
	}
	h.setSession(c, tok)
	ok(c, nil)
}

// Login 的 username 字段即邮箱。
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: Invalid request payload, error: %v", err)
		fail(c, err)
		return
	}
	tok, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		log.Warnf("Login: failed for '%s', error: %v", req.Username, err)
		fail(c, err)
		return
	}
	log.Infof("User '%s' logged in successfully", req.Username)
	h.setSession(c, tok)
	ok(c, nil)
}

// Logout 清除会话 cookie。
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(token.CookieName, "", -1, "/", "", false, true)
	ok(c, nil)
}

func (h *AuthHandler) setSession(c *gin.Context, tok string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(token.CookieName, tok, int(h.jwtManager.Duration().Seconds()), "/", "", false, true)
}
