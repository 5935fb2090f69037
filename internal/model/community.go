package model

import "time"

// 角色序数比较：member < moderator < admin
const (
	RoleMember    = 0
	RoleModerator = 1
	RoleAdmin     = 2
)

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Slug        string `gorm:"uniqueIndex;size:64;not null"` // h/前缀后的唯一标识，创建后不可修改
	Name        string `gorm:"size:64;not null"`
	Description string `gorm:"type:text"`
	CreatorID   uint64 `gorm:"not null;index"`
	MemberCount int64  `gorm:"not null;default:0"` // 派生缓存，对账任务兜底
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        int    `gorm:"not null;default:0"` // 0=member 1=moderator 2=admin
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
