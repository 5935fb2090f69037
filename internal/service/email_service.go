package service

import (
	"context"

	"humansonly/internal/pkg"
	"humansonly/internal/repository/redis"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &redis.EmailRepository{}}
}

// SendCode 发送验证码。先写pending键，邮件发送成功后才转confirmed，
// 发送失败清掉pending，避免校验到没发出去的码。
func (s *EmailService) SendCode(ctx context.Context, scope, email string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err = s.rds.PutPending(ctx, scope, email, code); err != nil {
		return err
	}

	subject := "注册验证码"
	action := "注册验证"
	if scope == "reset" {
		subject = "密码重置验证码"
		action = "重置密码"
	}
	html := pkg.EmailCodeHTML(action, code, redis.DefaultEmailCodeTTL)
	if err = pkg.SendEmail(s.emailCfg, email, subject, html); err != nil {
		_ = s.rds.DeletePending(ctx, scope, email)
		return err
	}

	if err = s.rds.Confirm(ctx, scope, email); err != nil {
		_ = s.rds.DeletePending(ctx, scope, email)
		return err
	}
	return nil
}

// VerifyCode 校验验证码，通过后一次性删除
func (s *EmailService) VerifyCode(ctx context.Context, scope, email, code string) (bool, error) {
	val, err := s.rds.GetConfirmed(ctx, scope, email)
	if err != nil {
		// 不存在或已过期
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.DeleteConfirmed(ctx, scope, email); err != nil {
		return false, err
	}
	return true, nil
}
