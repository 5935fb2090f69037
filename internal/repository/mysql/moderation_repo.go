package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
)

// ModerationRepository 包装需要权限的成员变更：改角色、踢出、封禁。
// 权限判断和写入在同一事务内，角色用序数比较。
type ModerationRepository struct {
	DB *gorm.DB
}

// ChangeRole 仅admin可改角色。管理员给自己降级时社区必须还有别的admin。
func (r *ModerationRepository) ChangeRole(ctx context.Context, actorID, targetID, communityID uint64, newRole int) error {
	if newRole < model.RoleMember || newRole > model.RoleAdmin {
		return errors.New("invalid role")
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actorRole, ok, err := roleInTx(tx, communityID, actorID)
		if err != nil {
			return err
		}
		if !ok || actorRole < model.RoleAdmin {
			return pkg.ErrForbidden
		}

		var target model.CommunityMember
		if err = tx.Where("community_id = ? AND user_id = ?", communityID, targetID).
			First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}

		// 自降级保护：社区不能没有管理员
		if actorID == targetID && newRole < model.RoleAdmin {
			var admins int64
			if err = tx.Model(&model.CommunityMember{}).
				Where("community_id = ? AND role = ?", communityID, model.RoleAdmin).
				Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return pkg.ErrForbidden
			}
		}

		if err = tx.Model(&model.CommunityMember{}).
			Where("id = ?", target.ID).
			Update("role", newRole).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "role_change", actorID, communityID, map[string]any{
			"community_id": communityID, "target": targetID, "role": newRole,
		})
	})
}

// Kick 踢出成员，moderator及以上可操作。不落封禁记录，之后可以再加入。
func (r *ModerationRepository) Kick(ctx context.Context, actorID, targetID, communityID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actorRole, ok, err := roleInTx(tx, communityID, actorID)
		if err != nil {
			return err
		}
		if !ok || actorRole < model.RoleModerator {
			return pkg.ErrForbidden
		}
		if err = removeMember(tx, communityID, targetID); err != nil {
			return err
		}
		return insertOutbox(tx, "kick", actorID, communityID, map[string]any{
			"community_id": communityID, "target": targetID,
		})
	})
}

// Ban 封禁，仅admin。先踢出再插封禁行，同一事务提交，
// 外部永远看不到"还在社区但已被封"的中间状态。
func (r *ModerationRepository) Ban(ctx context.Context, actorID, targetID, communityID uint64, reason string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actorRole, ok, err := roleInTx(tx, communityID, actorID)
		if err != nil {
			return err
		}
		if !ok || actorRole < model.RoleAdmin {
			return pkg.ErrForbidden
		}
		if err = removeMember(tx, communityID, targetID); err != nil {
			return err
		}
		if err = tx.Create(&model.CommunityBan{
			CommunityID: communityID,
			UserID:      targetID,
			BannedBy:    actorID,
			Reason:      reason,
		}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkg.ErrConflict
			}
			return err
		}
		return insertOutbox(tx, "ban", actorID, communityID, map[string]any{
			"community_id": communityID, "target": targetID, "reason": reason,
		})
	})
}

// Unban 解除封禁，仅admin；不存在封禁行时幂等
func (r *ModerationRepository) Unban(ctx context.Context, actorID, targetID, communityID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actorRole, ok, err := roleInTx(tx, communityID, actorID)
		if err != nil {
			return err
		}
		if !ok || actorRole < model.RoleAdmin {
			return pkg.ErrForbidden
		}
		return tx.Where("community_id = ? AND user_id = ?", communityID, targetID).
			Delete(&model.CommunityBan{}).Error
	})
}

// ListBans 社区封禁列表
func (r *ModerationRepository) ListBans(ctx context.Context, communityID uint64) ([]model.CommunityBan, error) {
	var list []model.CommunityBan
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// removeMember 删除成员行并减成员数；目标不是成员返回NotFound
func removeMember(tx *gorm.DB, communityID, targetID uint64) error {
	del := tx.Where("community_id = ? AND user_id = ?", communityID, targetID).
		Delete(&model.CommunityMember{})
	if del.Error != nil {
		return del.Error
	}
	if del.RowsAffected == 0 {
		return pkg.ErrNotFound
	}
	return tx.Model(&model.Community{}).Where("id = ?", communityID).
		UpdateColumn("member_count", gorm.Expr("member_count - 1")).Error
}

func roleInTx(tx *gorm.DB, communityID, userID uint64) (int, bool, error) {
	var m model.CommunityMember
	err := tx.Select("id", "role").
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
