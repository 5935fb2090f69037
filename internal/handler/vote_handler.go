package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"humansonly/internal/service"
)

type VoteHandler struct {
	svc *service.VoteService
}

type VoteReq struct {
	Value int8 `json:"value" binding:"required,oneof=1 -1"`
}

func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{svc: service.NewVoteService(db)}
}

// VotePost 投票接口：再点一次同方向即撤销，反方向即切换
func (h *VoteHandler) VotePost(c *gin.Context) {
	userID := currentUserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req VoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	res, err := h.svc.VotePost(c.Request.Context(), userID, postID, req.Value)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"upvotes":   res.Upvotes,
		"downvotes": res.Downvotes,
		"my_vote":   res.MyVote,
	})
}

func (h *VoteHandler) VoteComment(c *gin.Context) {
	userID := currentUserID(c)
	commentID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req VoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	res, err := h.svc.VoteComment(c.Request.Context(), userID, commentID, req.Value)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"upvotes":   res.Upvotes,
		"downvotes": res.Downvotes,
		"my_vote":   res.MyVote,
	})
}

// PostScore 读帖子计数和自己的投票状态
func (h *VoteHandler) PostScore(c *gin.Context) {
	userID := currentUserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	up, down, err := h.svc.GetPostScore(c.Request.Context(), userID, postID)
	if err != nil {
		fail(c, err)
		return
	}
	var myVote int8
	if userID > 0 {
		myVote, err = h.svc.MyPostVote(c.Request.Context(), userID, postID)
		if err != nil {
			fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"upvotes":   up,
		"downvotes": down,
		"my_vote":   myVote,
	})
}
