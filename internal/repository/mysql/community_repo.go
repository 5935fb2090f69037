package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 建社区和创建者的admin成员行在同一事务里落库。
// 初始member_count=1直接写死，成员行不再额外+1，避免双计。
// 创建者不走Join的封禁检查：社区此刻才存在，不可能有封禁记录。
func (r *CommunityRepository) Create(ctx context.Context, c *model.Community) (*model.Community, error) {
	c.MemberCount = 1
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkg.ErrConflict
			}
			return err
		}
		if err := tx.Create(&model.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
			Role:        model.RoleAdmin,
		}).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "join", c.CreatorID, c.ID, map[string]any{
			"community_id": c.ID, "role": model.RoleAdmin,
		})
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommunityRepository) FindByID(ctx context.Context, id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).First(&community, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &community, err
}

func (r *CommunityRepository) FindBySlug(ctx context.Context, slug string) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&community).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &community, err
}

// List 按成员数排序的社区列表
func (r *CommunityRepository) List(ctx context.Context, offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).
		Order("member_count DESC, id ASC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *CommunityRepository) UpdateDescription(ctx context.Context, id uint64, description string) error {
	return r.DB.WithContext(ctx).Model(&model.Community{}).
		Where("id = ?", id).
		Update("description", description).Error
}
