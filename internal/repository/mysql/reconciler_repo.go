package mysql

import (
	"context"

	"gorm.io/gorm"

	"humansonly/internal/model"
)

// CounterReconcilerRepo 对账仓储：票表/成员表是真实来源，
// 缓存计数（karma、member_count）定期批量核对修正。
type CounterReconcilerRepo struct {
	DB *gorm.DB
}

// KarmaPair 对账用的用户计数快照
type KarmaPair struct {
	ID           uint64
	PostKarma    int64
	CommentKarma int64
	Karma        int64
}

// MemberPair 对账用的社区计数快照
type MemberPair struct {
	ID          uint64
	MemberCount int64
}

// ListUsers 按id游标批量取用户计数
func (r *CounterReconcilerRepo) ListUsers(ctx context.Context, batchSize int, lastID uint64) ([]KarmaPair, uint64, error) {
	var list []KarmaPair
	if err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("id", "post_karma", "comment_karma", "karma").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealPostKarma 从票表算作者帖子的真实净得票
func (r *CounterReconcilerRepo) RealPostKarma(ctx context.Context, userID uint64) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(v.value), 0) FROM post_votes v
		JOIN posts p ON p.id = v.post_id
		WHERE p.author_id = ?`, userID).Scan(&total).Error
	return total, err
}

// RealCommentKarma 评论侧真实净得票
func (r *CounterReconcilerRepo) RealCommentKarma(ctx context.Context, userID uint64) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(v.value), 0) FROM comment_votes v
		JOIN comments c ON c.id = v.comment_id
		WHERE c.author_id = ?`, userID).Scan(&total).Error
	return total, err
}

// FixKarma 三个karma桶一次写回，保持 karma = post + comment
func (r *CounterReconcilerRepo) FixKarma(ctx context.Context, userID uint64, postKarma, commentKarma int64) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumns(map[string]any{
			"post_karma":    postKarma,
			"comment_karma": commentKarma,
			"karma":         postKarma + commentKarma,
		}).Error
}

// ListCommunities 按id游标批量取社区计数
func (r *CounterReconcilerRepo) ListCommunities(ctx context.Context, batchSize int, lastID uint64) ([]MemberPair, uint64, error) {
	var list []MemberPair
	if err := r.DB.WithContext(ctx).Model(&model.Community{}).
		Select("id", "member_count").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealMemberCount 成员表里数真实成员数
func (r *CounterReconcilerRepo) RealMemberCount(ctx context.Context, communityID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityMember{}).
		Where("community_id = ?", communityID).
		Count(&n).Error
	return n, err
}

// FixMemberCount 修正社区成员数
func (r *CounterReconcilerRepo) FixMemberCount(ctx context.Context, communityID uint64, count int64) error {
	return r.DB.WithContext(ctx).Model(&model.Community{}).Where("id = ?", communityID).
		UpdateColumn("member_count", count).Error
}
