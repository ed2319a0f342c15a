package handler

import (
	"github.com/gin-gonic/gin"

	"opuluxe-go/internal/middleware"
	"opuluxe-go/internal/model"
	"opuluxe-go/internal/service"
	"opuluxe-go/pkg/log"
)

// ChatHandler 处理聊天与试穿请求，两者都不要求登录。
type ChatHandler struct {
	chatService  service.ChatService
	tryOnService service.TryOnService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService, tryOnService service.TryOnService) *ChatHandler {
	return &ChatHandler{chatService: chatService, tryOnService: tryOnService}
}

// Chat 生成一条回复；登录用户的对话会被保存，响应中带上 session_id。
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	reply, sessionID, err := h.chatService.Chat(c.Request.Context(), middleware.UserEmail(c), req)
	if err != nil {
		log.Warnf("Chat: failed to generate reply, error: %v", err)
		fail(c, err)
		return
	}
	resp := model.ChatResponse{Envelope: model.Envelope{Success: true}, Reply: reply, SessionID: sessionID}
	c.JSON(200, resp)
}

func (h *ChatHandler) TryOn(c *gin.Context) {
	var req model.TryOnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	image, err := h.tryOnService.Generate(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"image": image})
}
