package model

import "time"

// EventOutbox 投票/成员变更事件表，与业务写入同一事务，由relayer异步投递kafka
type EventOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // vote / unvote / join / leave / kick / ban / role_change
	ActorID   uint64 `gorm:"not null"`
	SubjectID uint64 `gorm:"not null"` // 帖子/评论/社区ID，含义由事件类型决定
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EventOutbox) TableName() string { return "event_outbox" }
