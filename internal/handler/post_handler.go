package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"humansonly/internal/service"
)

type PostHandler struct {
	svc *service.PostService
}

type CreatePostReq struct {
	CommunityID uint64 `json:"community_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content"`
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{svc: service.NewPostService(db)}
}

// CreatePost 发帖，仅社区成员
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := currentUserID(c)

	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), userID, req.CommunityID, req.Title, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": post.ID})
}

func (h *PostHandler) GetPost(c *gin.Context) {
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	post, err := h.svc.GetPost(c.Request.Context(), postID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// ListRecent 全站feed，按时间
func (h *PostHandler) ListRecent(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListRecent(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// ListByCommunity 社区帖子列表（优先游标分页，兼容页码）
func (h *PostHandler) ListByCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || communityID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	lastIDStr := c.Query("last_id")
	lastTSStr := c.Query("last_created_at")

	if lastIDStr != "" || lastTSStr != "" {
		var lastID uint64
		var lastTS int64
		if lastIDStr != "" {
			if v, e := strconv.ParseUint(lastIDStr, 10, 64); e == nil {
				lastID = v
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid last_id"})
				return
			}
		}
		if lastTSStr != "" {
			if v, e := strconv.ParseInt(lastTSStr, 10, 64); e == nil {
				lastTS = v
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid last_created_at"})
				return
			}
		}
		size, _ := strconv.Atoi(c.Query("size"))

		list, nextID, nextTS, err := h.svc.ListByCommunityCursor(c.Request.Context(), communityID, lastID, lastTS, size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"list":            list,
			"next_last_id":    nextID,
			"next_created_at": nextTS,
		})
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err2 := h.svc.ListByCommunity(c.Request.Context(), communityID, page, size)
	if err2 != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "page": page, "size": size})
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID := currentUserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}
