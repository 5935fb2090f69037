package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
)

type CommentRepository struct {
	DB *gorm.DB
}

// Create 插入评论并在同一事务里给帖子的comment_count加1
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("id").First(&post, "id = ? AND status = 0", comment.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}
		if comment.ParentID != nil {
			var parent model.Comment
			if err := tx.Select("id").
				First(&parent, "id = ? AND post_id = ? AND status = 0", *comment.ParentID, comment.PostID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkg.ErrNotFound
				}
				return err
			}
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.WithContext(ctx).First(&comment, "id = ? AND status = 0", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &comment, err
}

// ListByPost 帖子下的评论，按时间正序
func (r *CommentRepository) ListByPost(ctx context.Context, postID uint64, offset, limit int) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Where("post_id = ? AND status = 0", postID).
		Order("created_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}

// Delete 作者本人的软删除，同一事务里comment_count减1
func (r *CommentRepository) Delete(ctx context.Context, id, authorID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.Select("id", "post_id").
			First(&comment, "id = ? AND author_id = ? AND status = 0", id, authorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&model.Comment{}).Where("id = ?", comment.ID).
			Update("status", 1).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error
	})
}
