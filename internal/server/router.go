// Package server 组装本地后端的依赖并注册路由。
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"opuluxe-go/internal/handler"
	"opuluxe-go/internal/middleware"
	"opuluxe-go/internal/repository"
	"opuluxe-go/internal/service"
	"opuluxe-go/pkg/llm"
	"opuluxe-go/pkg/token"
)

// Deps 是构建路由所需的外部依赖。
type Deps struct {
	Redis      *redis.Client
	JWT        *token.JWTManager
	LLM        llm.Client
	Images     llm.ImageGenerator
	LogRequest bool
}

// NewRouter 创建 gin 引擎并注册全部 /api 路由。
func NewRouter(d Deps) *gin.Engine {
	// 1. Repository
	userRepo := repository.NewUserRepository(d.Redis)
	conversationRepo := repository.NewConversationRepository(d.Redis)
	profileRepo := repository.NewProfileRepository(d.Redis)

	// 2. Service
	userService := service.NewUserService(userRepo, d.JWT)
	chatService := service.NewChatService(d.LLM, conversationRepo)
	conversationService := service.NewConversationService(conversationRepo)
	profileService := service.NewProfileService(profileRepo)
	tryOnService := service.NewTryOnService(d.Images)

	// 3. Handler
	authHandler := handler.NewAuthHandler(userService, d.JWT)
	chatHandler := handler.NewChatHandler(chatService, tryOnService)
	conversationHandler := handler.NewConversationHandler(conversationService)
	profileHandler := handler.NewProfileHandler(profileService)

	r := gin.New()
	if d.LogRequest {
		r.Use(middleware.RequestLogger())
	}
	r.Use(gin.Recovery(), middleware.SessionMiddleware(d.JWT))

	api := r.Group("/api")
	{
		api.POST("/signup/", authHandler.Signup)
		api.POST("/login/", authHandler.Login)
		api.POST("/logout/", authHandler.Logout)

		// 未登录也可以聊天和试穿，只是不保存
		api.POST("/chat/", chatHandler.Chat)
		api.POST("/tryon/", chatHandler.TryOn)

		api.GET("/chat-history/", middleware.RequireLogin(middleware.NotLoggedIn), conversationHandler.History)
		api.GET("/chat-session/", middleware.RequireLogin(gin.H{"success": false}), conversationHandler.SessionDetail)
		api.POST("/delete-chat/", middleware.RequireLogin(gin.H{"success": false}), conversationHandler.Delete)

		api.POST("/save-profile/", middleware.RequireLogin(middleware.NotLoggedIn), profileHandler.Save)
		api.GET("/get-profiles/", middleware.RequireLogin(gin.H{"success": false, "history": []string{}}), profileHandler.List)
		api.GET("/get-profile/:id/", middleware.RequireLogin(middleware.NotLoggedIn), profileHandler.Get)
		api.POST("/delete-profile/", middleware.RequireLogin(middleware.NotLoggedIn), profileHandler.Delete)
	}
	return r
}
