package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	UserTokenPrefix = "session:user:token"
	UserTokenTTL    = 30 * time.Minute
)

// UserRepository 单端登录：一个用户只保留最后一次登录的access token
type UserRepository struct{}

func userTokenKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserTokenPrefix, userID)
}

func (r *UserRepository) AddUserToken(ctx context.Context, userID uint64, token string) error {
	if err := Client.Set(ctx, userTokenKey(userID), token, UserTokenTTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *UserRepository) GetUserToken(ctx context.Context, userID uint64) (string, error) {
	token, err := Client.Get(ctx, userTokenKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// ExtendUserToken 校验通过后顺延过期时间
func (r *UserRepository) ExtendUserToken(ctx context.Context, userID uint64) error {
	if _, err := Client.Expire(ctx, userTokenKey(userID), UserTokenTTL).Result(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *UserRepository) DeleteUserToken(ctx context.Context, userID uint64) error {
	if err := Client.Del(ctx, userTokenKey(userID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}
