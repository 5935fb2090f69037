package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"humansonly/internal/service"
)

type EmailHandler struct {
	svc *service.EmailService
}

type SendCodeReq struct {
	Email string `json:"email" binding:"required,email"`
	Scope string `json:"scope" binding:"required,oneof=register reset"`
}

func NewEmailHandler(svc *service.EmailService) *EmailHandler {
	return &EmailHandler{svc: svc}
}

// SendCode 发送邮箱验证码，scope区分注册/重置
func (h *EmailHandler) SendCode(c *gin.Context) {
	var req SendCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.SendCode(c.Request.Context(), req.Scope, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "send failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "code sent"})
}
