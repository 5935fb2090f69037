package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.DB.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkg.ErrConflict
	}
	return err
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).
		Where("username = ? OR email = ?", username, username).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &user, err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &user, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, user *model.User, newPassword string) error {
	return r.DB.WithContext(ctx).Model(user).Update("password", newPassword).Error
}

// UpdateProfile 只允许改展示字段，username和email不动
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uint64, displayName, bio string) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"display_name": displayName, "bio": bio}).Error
}

// SetVerifiedHuman 人机验证通过后置位，只由验证入口调用
func (r *UserRepository) SetVerifiedHuman(ctx context.Context, userID uint64) error {
	res := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("is_verified_human", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.DB.WithContext(ctx).Model(&model.User{}).
			Where("id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return pkg.ErrNotFound
		}
	}
	return nil
}
