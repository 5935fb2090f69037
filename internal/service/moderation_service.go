package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
	"humansonly/internal/repository/mysql"
)

// ModerationService 非自助的成员变更：改角色、踢出、封禁。
// 权限校验在仓储事务内完成，这里只做参数检查。
type ModerationService struct {
	repo          *mysql.ModerationRepository
	communityRepo *mysql.CommunityRepository
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{
		repo:          &mysql.ModerationRepository{DB: db},
		communityRepo: &mysql.CommunityRepository{DB: db},
	}
}

func (s *ModerationService) ChangeRole(ctx context.Context, actorID, targetID, communityID uint64, newRole int) error {
	if actorID == 0 || targetID == 0 || communityID == 0 {
		return errors.New("invalid id")
	}
	return s.repo.ChangeRole(ctx, actorID, targetID, communityID, newRole)
}

func (s *ModerationService) Kick(ctx context.Context, actorID, targetID, communityID uint64) error {
	if actorID == 0 || targetID == 0 || communityID == 0 {
		return errors.New("invalid id")
	}
	if actorID == targetID {
		return errors.New("cannot kick self, use leave")
	}
	return s.repo.Kick(ctx, actorID, targetID, communityID)
}

func (s *ModerationService) Ban(ctx context.Context, actorID, targetID, communityID uint64, reason string) error {
	if actorID == 0 || targetID == 0 || communityID == 0 {
		return errors.New("invalid id")
	}
	if actorID == targetID {
		return errors.New("cannot ban self")
	}
	return s.repo.Ban(ctx, actorID, targetID, communityID, reason)
}

func (s *ModerationService) Unban(ctx context.Context, actorID, targetID, communityID uint64) error {
	if actorID == 0 || targetID == 0 || communityID == 0 {
		return errors.New("invalid id")
	}
	return s.repo.Unban(ctx, actorID, targetID, communityID)
}

func (s *ModerationService) ListBans(ctx context.Context, communityID uint64) ([]model.CommunityBan, error) {
	if communityID == 0 {
		return nil, errors.New("invalid id")
	}
	return s.repo.ListBans(ctx, communityID)
}

// UpdateDescription 社区简介只有admin能改
func (s *ModerationService) UpdateDescription(ctx context.Context, actorID, communityID uint64, description string) error {
	if actorID == 0 || communityID == 0 {
		return errors.New("invalid id")
	}
	memberRepo := &mysql.CommunityMemberRepository{DB: s.communityRepo.DB}
	role, ok, err := memberRepo.RoleOf(ctx, communityID, actorID)
	if err != nil {
		return err
	}
	if !ok || role < model.RoleAdmin {
		return pkg.ErrForbidden
	}
	return s.communityRepo.UpdateDescription(ctx, communityID, description)
}
