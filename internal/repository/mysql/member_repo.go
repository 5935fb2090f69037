package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
)

type CommunityMemberRepository struct {
	DB *gorm.DB
}

// MemberResult 返回事务后的最新成员数
type MemberResult struct {
	MemberCount int64 `json:"member_count"`
	Changed     bool  `json:"changed"`
}

// Join 加入社区。有封禁记录直接拒绝；重复加入幂等不报错，
// 只有真实插入才调成员数。
func (r *CommunityMemberRepository) Join(ctx context.Context, userID, communityID uint64) (*MemberResult, error) {
	res := &MemberResult{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comm model.Community
		if err := tx.Select("id", "member_count").First(&comm, communityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}

		// 封禁检查
		var banned int64
		if err := tx.Model(&model.CommunityBan{}).
			Where("community_id = ? AND user_id = ?", communityID, userID).
			Count(&banned).Error; err != nil {
			return err
		}
		if banned > 0 {
			return pkg.ErrAlreadyBanned
		}

		// 幂等插入：(community_id, user_id) 已存在则无事发生
		ins := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&model.CommunityMember{
			CommunityID: communityID,
			UserID:      userID,
			Role:        model.RoleMember,
		})
		if ins.Error != nil {
			return ins.Error
		}

		res.MemberCount = comm.MemberCount
		if ins.RowsAffected > 0 {
			if err := tx.Model(&model.Community{}).Where("id = ?", communityID).
				UpdateColumn("member_count", gorm.Expr("member_count + 1")).Error; err != nil {
				return err
			}
			res.MemberCount++
			res.Changed = true
			return insertOutbox(tx, "join", userID, communityID, map[string]any{
				"community_id": communityID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Leave 退出社区，不存在成员行时幂等
func (r *CommunityMemberRepository) Leave(ctx context.Context, userID, communityID uint64) (*MemberResult, error) {
	res := &MemberResult{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comm model.Community
		if err := tx.Select("id", "member_count").First(&comm, communityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}

		del := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&model.CommunityMember{})
		if del.Error != nil {
			return del.Error
		}

		res.MemberCount = comm.MemberCount
		if del.RowsAffected > 0 {
			if err := tx.Model(&model.Community{}).Where("id = ?", communityID).
				UpdateColumn("member_count", gorm.Expr("member_count - 1")).Error; err != nil {
				return err
			}
			res.MemberCount--
			res.Changed = true
			return insertOutbox(tx, "leave", userID, communityID, map[string]any{
				"community_id": communityID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *CommunityMemberRepository) IsMember(ctx context.Context, communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

// RoleOf 查询成员角色，第二个返回值表示是否是成员
func (r *CommunityMemberRepository) RoleOf(ctx context.Context, communityID, userID uint64) (int, bool, error) {
	var m model.CommunityMember
	err := r.DB.WithContext(ctx).Select("id", "role").
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return m.Role, true, nil
}

// ListMembers 社区成员列表，按加入时间
func (r *CommunityMemberRepository) ListMembers(ctx context.Context, communityID uint64, offset, limit int) ([]model.CommunityMember, error) {
	var list []model.CommunityMember
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}
