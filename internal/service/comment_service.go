package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/repository/mysql"
)

type CommentService struct {
	repo *mysql.CommentRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		repo: &mysql.CommentRepository{DB: db},
	}
}

// CreateComment parentID为0表示顶层评论
func (s *CommentService) CreateComment(ctx context.Context, userID, postID, parentID uint64, content string) (*model.Comment, error) {
	if userID == 0 || postID == 0 {
		return nil, errors.New("invalid id")
	}
	if content == "" {
		return nil, errors.New("content required")
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}
	if parentID > 0 {
		comment.ParentID = &parentID
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost 帖子评论，时间正序
func (s *CommentService) ListByPost(ctx context.Context, postID uint64, page, size int) ([]model.Comment, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size
	return s.repo.ListByPost(ctx, postID, offset, size)
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	if userID == 0 || commentID == 0 {
		return errors.New("invalid id")
	}
	return s.repo.Delete(ctx, commentID, userID)
}
