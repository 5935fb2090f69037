package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, "id = ? AND status = 0", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &post, err
}

// ListByCommunity 基础分页查询，按时间倒序
func (r *PostRepository) ListByCommunity(ctx context.Context, communityID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND status = 0", communityID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}

// ListRecent 全站最新帖子（feed页）
func (r *PostRepository) ListRecent(ctx context.Context, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}

// ListByCommunityCursor 时间游标分页：先比时间，同一时间点用id打破并列
func (r *PostRepository) ListByCommunityCursor(ctx context.Context, communityID uint64, lastID uint64, lastCreatedAt int64, limit int) ([]model.Post, error) {
	var list []model.Post
	q := r.DB.WithContext(ctx).Where("community_id = ? AND status = 0", communityID)
	if lastCreatedAt > 0 {
		q = q.Where("(created_at < FROM_UNIXTIME(?) OR (created_at = FROM_UNIXTIME(?) AND id < ?))", lastCreatedAt, lastCreatedAt, lastID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// Delete 作者本人的软删除
func (r *PostRepository) Delete(ctx context.Context, id, authorID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND author_id = ? AND status = 0", id, authorID).
		Update("status", 1)
	return res.RowsAffected, res.Error
}

// DeleteWithPermission 一步带权限的软删除：作者或社区staff(role>=moderator)。
// 幂等，已删除返回affected=0。
func (r *PostRepository) DeleteWithPermission(ctx context.Context, postID, operatorID uint64) (int64, error) {
	tx := r.DB.WithContext(ctx).Exec(`
		UPDATE posts SET status = 1
		WHERE id = ? AND status = 0
		  AND (author_id = ? OR EXISTS (
		       SELECT 1 FROM community_members m
		       WHERE m.community_id = posts.community_id AND m.user_id = ? AND m.role >= ?
		  ))`,
		postID, operatorID, operatorID, model.RoleModerator,
	)
	return tx.RowsAffected, tx.Error
}
