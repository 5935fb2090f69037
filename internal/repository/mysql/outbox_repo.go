package mysql

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"humansonly/internal/model"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// insertOutbox 事件与业务写入同一事务，保证不丢事件
func insertOutbox(tx *gorm.DB, event string, actorID, subjectID uint64, payload map[string]any) error {
	payload["event_time"] = time.Now().UTC().Format(time.RFC3339Nano)
	payload["actor"] = actorID
	raw, _ := json.Marshal(payload)
	ob := &model.EventOutbox{
		EventType: event,
		ActorID:   actorID,
		SubjectID: subjectID,
		Payload:   string(raw),
		Status:    0,
	}
	return tx.Create(ob).Error
}

// List 批量取pending事件
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.EventOutbox, error) {
	var list []model.EventOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败记录重试次数
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.EventOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate 投递成功标记
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.EventOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
