package model

import "time"

type Comment struct {
	ID        uint64  `gorm:"primaryKey"`
	PostID    uint64  `gorm:"not null;index"`
	AuthorID  uint64  `gorm:"not null;index"`
	ParentID  *uint64 `gorm:"index"` // 为空表示顶层评论
	Content   string  `gorm:"type:text;not null"`
	Status    int     `gorm:"not null;default:0"` // 0=normal 1=deleted
	Upvotes   int64   `gorm:"not null;default:0"`
	Downvotes int64   `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
