// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opuluxe-go/pkg/log"
	"opuluxe-go/pkg/token"
)

// ContextUserEmail 是存放当前登录邮箱的 gin context key。
const ContextUserEmail = "user_email"

// NotLoggedIn 是大多数需要登录的接口在未登录时的响应体。
var NotLoggedIn = gin.H{"success": false, "error": "Not logged in"}

// SessionMiddleware 从会话 cookie 中解析登录邮箱。
// cookie 缺失或无效时不拦截请求，只是不设置 user_email，由具体接口决定如何处理。
func SessionMiddleware(jwtManager *token.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(token.CookieName)
		if err != nil || tokenString == "" {
			c.Next()
			return
		}
		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			log.Debugw("ignoring invalid session cookie", "error", err)
			c.Next()
			return
		}
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// RequireLogin 在未登录时以 200 返回 body 并中止请求。
// 客户端按 success 字段判断失败，因此这里不使用 401。
func RequireLogin(body gin.H) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserEmail(c) == "" {
			c.AbortWithStatusJSON(http.StatusOK, body)
			return
		}
		c.Next()
	}
}

// UserEmail 返回当前请求的登录邮箱，未登录时为空。
func UserEmail(c *gin.Context) string {
	return c.GetString(ContextUserEmail)
}
