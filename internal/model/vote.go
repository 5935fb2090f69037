package model

import "time"

// 投票值只有 +1/-1；没投票就没有行，不存0值。
// 帖子票和评论票是两张表，互不影响。

type PostVote struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_user_post"`
	PostID    uint64 `gorm:"not null;index;uniqueIndex:uk_user_post"`
	Value     int8   `gorm:"not null"` // +1=up -1=down
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PostVote) TableName() string {
	return "post_votes"
}

type CommentVote struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_user_comment"`
	CommentID uint64 `gorm:"not null;index;uniqueIndex:uk_user_comment"`
	Value     int8   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CommentVote) TableName() string {
	return "comment_votes"
}
