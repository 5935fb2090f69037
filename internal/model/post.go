package model

import "time"

type Post struct {
	ID           uint64 `gorm:"primaryKey"`
	CommunityID  uint64 `gorm:"not null;index:idx_comm_time,priority:1"`
	AuthorID     uint64 `gorm:"not null;index:idx_author_time"`
	Title        string `gorm:"size:200;not null"`
	Content      string `gorm:"type:text"`
	Status       int    `gorm:"not null;default:0"` // 0=normal 1=deleted 2=banned
	Upvotes      int64  `gorm:"not null;default:0"` // 派生缓存，真实来源是 post_votes
	Downvotes    int64  `gorm:"not null;default:0"`
	CommentCount int64  `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"index:idx_comm_time,priority:2,sort:desc"`
	UpdatedAt    time.Time
}
