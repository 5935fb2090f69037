package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"humansonly/internal/service"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

type CommunityCreateReq struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func NewCommunityHandler(db *gorm.DB) *CommunityHandler {
	return &CommunityHandler{svc: service.NewCommunityService(db)}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	userID := currentUserID(c)

	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	community, err := h.svc.CreateCommunity(c.Request.Context(), userID, req.Slug, req.Name, req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           community.ID,
		"slug":         community.Slug,
		"name":         community.Name,
		"description":  community.Description,
		"member_count": community.MemberCount,
	})
}

func (h *CommunityHandler) Join(c *gin.Context) {
	userID := currentUserID(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	res, err := h.svc.JoinCommunity(c.Request.Context(), userID, communityID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member_count": res.MemberCount, "changed": res.Changed})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	userID := currentUserID(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	res, err := h.svc.LeaveCommunity(c.Request.Context(), userID, communityID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member_count": res.MemberCount, "changed": res.Changed})
}

// GetBySlug 社区主页数据，登录用户顺带返回自己的角色
func (h *CommunityHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	community, err := h.svc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		fail(c, err)
		return
	}

	resp := gin.H{
		"id":           community.ID,
		"slug":         community.Slug,
		"name":         community.Name,
		"description":  community.Description,
		"member_count": community.MemberCount,
	}
	if userID := currentUserID(c); userID > 0 {
		role, isMember, err := h.svc.MyRole(c.Request.Context(), userID, community.ID)
		if err == nil {
			resp["is_member"] = isMember
			if isMember {
				resp["my_role"] = role
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListCommunities(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *CommunityHandler) ListMembers(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListMembers(c.Request.Context(), communityID, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
