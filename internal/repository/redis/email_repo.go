package redis

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultEmailCodeTTL = 5 * time.Minute
	EmailCodePrefix     = "email:code"

	// 两阶段键：邮件真正发出去之前code只在pending，校验只认confirmed
	PendingSuffix   = "pending"
	ConfirmedSuffix = "confirmed"
)

var (
	ErrEmailNotFound       = errors.New("email code not found")
	ErrEmailCodeDelFailed  = errors.New("email code delete failed")
	ErrCodePendingFailed   = errors.New("code pending failed")
	ErrCodeConfirmedFailed = errors.New("code confirmed failed")
)

// EmailRepository 验证码存取，scope区分register/reset
type EmailRepository struct{}

func codeKey(scope, phase, email string) string {
	return fmt.Sprintf("%s:%s:%s:%s", EmailCodePrefix, scope, phase, email)
}

// PutPending 写入pending验证码
func (e *EmailRepository) PutPending(ctx context.Context, scope, email, code string) error {
	key := codeKey(scope, PendingSuffix, email)
	if err := Client.Set(ctx, key, code, DefaultEmailCodeTTL).Err(); err != nil {
		return ErrCodePendingFailed
	}
	return nil
}

// Confirm 把pending原子地转成confirmed：取值+写目标+设TTL+删源，lua一步完成
func (e *EmailRepository) Confirm(ctx context.Context, scope, email string) error {
	srcKey := codeKey(scope, PendingSuffix, email)
	dstKey := codeKey(scope, ConfirmedSuffix, email)

	script := `
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
redis.call("SET", KEYS[2], val, "PX", ARGV[1])
redis.call("DEL", KEYS[1])
return 1
`
	px := int64(DefaultEmailCodeTTL / time.Millisecond)
	res := Client.Eval(ctx, script, []string{srcKey, dstKey}, px)
	if err := res.Err(); err != nil {
		return ErrCodeConfirmedFailed
	}
	ok, _ := res.Int()
	if ok != 1 {
		return ErrCodeConfirmedFailed
	}
	return nil
}

// DeletePending 删pending键（幂等），发送失败时回滚用
func (e *EmailRepository) DeletePending(ctx context.Context, scope, email string) error {
	key := codeKey(scope, PendingSuffix, email)
	if err := Client.Del(ctx, key).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}

// GetConfirmed 校验时取confirmed验证码
func (e *EmailRepository) GetConfirmed(ctx context.Context, scope, email string) (string, error) {
	key := codeKey(scope, ConfirmedSuffix, email)
	val, err := Client.Get(ctx, key).Result()
	if err != nil {
		return "", ErrEmailNotFound
	}
	return val, nil
}

// DeleteConfirmed 验证码一次性使用，校验通过后删除
func (e *EmailRepository) DeleteConfirmed(ctx context.Context, scope, email string) error {
	key := codeKey(scope, ConfirmedSuffix, email)
	if err := Client.Del(ctx, key).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}
