package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"opuluxe-go/internal/middleware"
	"opuluxe-go/internal/model"
	"opuluxe-go/internal/service"
	"opuluxe-go/pkg/log"
)

// ProfileHandler 处理尺寸档案的增删查。
type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Save(c *gin.Context) {
	var req model.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	if err := h.service.Save(c.Request.Context(), middleware.UserEmail(c), req.Profile); err != nil {
		if errors.Is(err, service.ErrInvalidProfile) {
			c.JSON(http.StatusOK, gin.H{"success": false})
			return
		}
		log.Errorf("SaveProfile: %v", err)
		fail(c, err)
		return
	}
	ok(c, nil)
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.service.List(c.Request.Context(), middleware.UserEmail(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"profiles": profiles})
}

// Get 读取路径参数 :id 指定的档案。
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), middleware.UserEmail(c), model.ProfileID(c.Param("id")))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"profile": profile})
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	var req model.DeleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.UserEmail(c), req.ID); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
