package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"humansonly/internal/service"
)

type CommentHandler struct {
	svc *service.CommentService
}

type CreateCommentReq struct {
	PostID   uint64 `json:"post_id" binding:"required"`
	ParentID uint64 `json:"parent_id"`
	Content  string `json:"content" binding:"required"`
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{svc: service.NewCommentService(db)}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID := currentUserID(c)

	var req CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), userID, req.PostID, req.ParentID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": comment.ID})
}

// ListByPost 评论按时间正序
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListByPost(c.Request.Context(), postID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID := currentUserID(c)
	commentID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}
