package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opuluxe-go/internal/middleware"
	"opuluxe-go/internal/model"
	"opuluxe-go/internal/service"
	"opuluxe-go/pkg/log"
)

// ConversationHandler 处理已保存会话的列表、详情与删除。
type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler。
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// History 按创建时间倒序返回会话摘要。
func (h *ConversationHandler) History(c *gin.Context) {
	history, err := h.service.List(c.Request.Context(), middleware.UserEmail(c))
	if err != nil {
		log.Errorf("History: failed to list sessions: %v", err)
		fail(c, err)
		return
	}
	ok(c, gin.H{"history": history})
}

// SessionDetail 读取 ?id= 指定的会话；找不到时只返回 success=false。
func (h *ConversationHandler) SessionDetail(c *gin.Context) {
	messages, err := h.service.Messages(c.Request.Context(), middleware.UserEmail(c), c.Query("id"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	ok(c, gin.H{"messages": messages})
}

func (h *ConversationHandler) Delete(c *gin.Context) {
	var req model.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.UserEmail(c), req.ID); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	ok(c, nil)
}
