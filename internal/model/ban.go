package model

import "time"

// CommunityBan 封禁记录。与 CommunityMember 互斥：
// 封禁时先删成员行再插封禁行（同一事务），封禁存在期间拒绝加入。
type CommunityBan struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_ban"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_ban"`
	BannedBy    uint64 `gorm:"not null"`
	Reason      string `gorm:"size:255"`
	CreatedAt   time.Time
}

func (CommunityBan) TableName() string {
	return "community_bans"
}
