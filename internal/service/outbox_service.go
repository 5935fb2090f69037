package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
	"humansonly/internal/repository/mysql"
)

type Sender func(ctx context.Context, ob *model.EventOutbox) error

// OutboxRelayer 从event_outbox批量捞pending事件投递出去，
// 失败记retry等下一轮，成功标记sent。
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	logger    *zap.Logger
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, logger *zap.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		logger:    logger,
	}
}

// KafkaSender 按actor做key保证同一用户的事件有序
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.EventOutbox) error {
		return producer.Send(ctx, pkg.MakeKeyFromID(ob.ActorID), []byte(ob.Payload))
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		r.logger.Warn("outbox query failed", zap.Error(err))
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			r.logger.Warn("outbox send failed",
				zap.Uint64("id", ob.ID), zap.String("event", ob.EventType), zap.Error(err))
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// CounterReconciler 定期对账：karma三桶和社区成员数以票表/成员表为准修正。
// 正常路径下增量更新已经保证一致，这里兜底人为改库或历史bug造成的漂移。
type CounterReconciler struct {
	repo      *mysql.CounterReconcilerRepo
	batchSize int
	interval  time.Duration
	logger    *zap.Logger
}

func NewCounterReconciler(db *gorm.DB, logger *zap.Logger) *CounterReconciler {
	return &CounterReconciler{
		repo:      &mysql.CounterReconcilerRepo{DB: db},
		batchSize: 500,
		interval:  5 * time.Minute,
		logger:    logger,
	}
}

func (r *CounterReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.ReconcileOnce(ctx)
		}
	}
}

// ReconcileOnce 单轮全量对账，批次间用id游标推进
func (r *CounterReconciler) ReconcileOnce(ctx context.Context) {
	var lastID uint64
	for {
		users, next, err := r.repo.ListUsers(ctx, r.batchSize, lastID)
		if err != nil {
			r.logger.Warn("reconcile list users failed", zap.Error(err))
			return
		}
		if len(users) == 0 {
			break
		}
		for _, u := range users {
			realPost, err := r.repo.RealPostKarma(ctx, u.ID)
			if err != nil {
				continue
			}
			realComment, err := r.repo.RealCommentKarma(ctx, u.ID)
			if err != nil {
				continue
			}
			if realPost != u.PostKarma || realComment != u.CommentKarma || u.Karma != realPost+realComment {
				if err = r.repo.FixKarma(ctx, u.ID, realPost, realComment); err != nil {
					r.logger.Warn("reconcile karma failed", zap.Uint64("user", u.ID), zap.Error(err))
				}
			}
		}
		lastID = next
	}

	lastID = 0
	for {
		comms, next, err := r.repo.ListCommunities(ctx, r.batchSize, lastID)
		if err != nil {
			r.logger.Warn("reconcile list communities failed", zap.Error(err))
			return
		}
		if len(comms) == 0 {
			break
		}
		for _, c := range comms {
			real, err := r.repo.RealMemberCount(ctx, c.ID)
			if err != nil {
				continue
			}
			if real != c.MemberCount {
				if err = r.repo.FixMemberCount(ctx, c.ID, real); err != nil {
					r.logger.Warn("reconcile member count failed", zap.Uint64("community", c.ID), zap.Error(err))
				}
			}
		}
		lastID = next
	}
}
