package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"humansonly/internal/service"
)

type ModerationHandler struct {
	svc *service.ModerationService
}

type ChangeRoleReq struct {
	TargetID uint64 `json:"target_id" binding:"required"`
	Role     *int   `json:"role" binding:"required"`
}

type KickReq struct {
	TargetID uint64 `json:"target_id" binding:"required"`
}

type BanReq struct {
	TargetID uint64 `json:"target_id" binding:"required"`
	Reason   string `json:"reason"`
}

func NewModerationHandler(db *gorm.DB) *ModerationHandler {
	return &ModerationHandler{svc: service.NewModerationService(db)}
}

// ChangeRole 仅admin；自己降级时必须还有其他admin
func (h *ModerationHandler) ChangeRole(c *gin.Context) {
	actorID := currentUserID(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req ChangeRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.ChangeRole(c.Request.Context(), actorID, req.TargetID, communityID, *req.Role); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Kick 踢出成员，moderator及以上；被踢的人可以再加入
func (h *ModerationHandler) Kick(c *gin.Context) {
	actorID := currentUserID(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req KickReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.Kick(c.Request.Context(), actorID, req.TargetID, communityID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Ban 封禁，仅admin；踢出+封禁记录一个事务落库
func (h *ModerationHandler) Ban(c *gin.Context) {
	actorID := currentUserID(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req BanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.Ban(c.Request.Context(), actorID, req.TargetID, communityID, req.Reason); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ModerationHandler) Unban(c *gin.Context) {
	actorID := currentUserID(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req KickReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.Unban(c.Request.Context(), actorID, req.TargetID, communityID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ModerationHandler) ListBans(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	list, err := h.svc.ListBans(c.Request.Context(), communityID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

type UpdateDescriptionReq struct {
	Description string `json:"description"`
}

func (h *ModerationHandler) UpdateDescription(c *gin.Context) {
	actorID := currentUserID(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req UpdateDescriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.UpdateDescription(c.Request.Context(), actorID, communityID, req.Description); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
