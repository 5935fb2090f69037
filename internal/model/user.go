package model

import "time"

type User struct {
	ID              uint64 `gorm:"primaryKey"`
	Username        string `gorm:"uniqueIndex;size:32;not null"` // 注册时统一小写，创建后不可修改
	Email           string `gorm:"uniqueIndex;size:64;not null"`
	Password        string `gorm:"size:255;not null"`
	DisplayName     string `gorm:"size:64"`
	Bio             string `gorm:"type:text"`
	IsVerifiedHuman bool   `gorm:"not null;default:false"`
	Karma           int64  `gorm:"not null;default:0"` // karma = post_karma + comment_karma
	PostKarma       int64  `gorm:"not null;default:0"`
	CommentKarma    int64  `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
