package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ScoreTTL       = 24 * time.Hour
	MyVoteTTL      = 24 * time.Hour
	LockTTL        = 300 * time.Millisecond
	ScoreKeyPrefix = "score:post"    // hash：某个帖子的up/down计数
	VoteKeyPrefix  = "vote:set:post" // hash：userID -> 投票值
	LockKeyPrefix  = "lock:score:post"
)

// VoteCacheRepository 读侧缓存。写路径永远先落MySQL，缓存失败不影响投票结果；
// 缓存脏了就删Key，交给读侧加锁重建。
type VoteCacheRepository struct {
	scoreTTL  time.Duration
	myVoteTTL time.Duration
}

type DistLock struct {
	RDB *redis.Client
}

func NewVoteCacheRepository() *VoteCacheRepository {
	return &VoteCacheRepository{
		scoreTTL:  ScoreTTL,
		myVoteTTL: MyVoteTTL,
	}
}

func (r *VoteCacheRepository) scoreKey(postID uint64) string {
	return fmt.Sprintf("%s:%d", ScoreKeyPrefix, postID)
}
func (r *VoteCacheRepository) voteKey(postID uint64) string {
	return fmt.Sprintf("%s:%d", VoteKeyPrefix, postID)
}

// SetScore 写后强更新up/down
func (r *VoteCacheRepository) SetScore(ctx context.Context, postID uint64, up, down int64) error {
	k := r.scoreKey(postID)
	if err := Client.HSet(ctx, k, "up", up, "down", down).Err(); err != nil {
		return err
	}
	return Client.Expire(ctx, k, r.scoreTTL).Err()
}

// GetScoreCached 命中返回true；miss交给调用方回源
func (r *VoteCacheRepository) GetScoreCached(ctx context.Context, postID uint64) (up, down int64, ok bool, err error) {
	k := r.scoreKey(postID)
	vals, err := Client.HMGet(ctx, k, "up", "down").Result()
	if err != nil {
		return 0, 0, false, err
	}
	if vals[0] == nil || vals[1] == nil {
		return 0, 0, false, nil
	}
	up, _ = strconv.ParseInt(vals[0].(string), 10, 64)
	down, _ = strconv.ParseInt(vals[1].(string), 10, 64)
	return up, down, true, nil
}

// DeleteScore 删计数Key，可选延迟二删，抵消并发回填窗口
func (r *VoteCacheRepository) DeleteScore(ctx context.Context, postID uint64, delay ...time.Duration) error {
	key := r.scoreKey(postID)
	if err := Client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(delay) > 0 && delay[0] > 0 {
		d := delay[0]
		go func() {
			t := time.NewTimer(d)
			defer t.Stop()
			<-t.C
			_ = Client.Del(context.Background(), key).Err()
		}()
	}
	return nil
}

// SetMyVote 记录用户对帖子的当前投票值；0表示撤销，直接删字段
func (r *VoteCacheRepository) SetMyVote(ctx context.Context, userID, postID uint64, value int8) error {
	k := r.voteKey(postID)
	field := strconv.FormatUint(userID, 10)
	if value == 0 {
		return Client.HDel(ctx, k, field).Err()
	}
	if err := Client.HSet(ctx, k, field, int64(value)).Err(); err != nil {
		return err
	}
	return Client.Expire(ctx, k, r.myVoteTTL).Err()
}

// GetMyVoteCached 第二个bool表示缓存是否命中
func (r *VoteCacheRepository) GetMyVoteCached(ctx context.Context, userID, postID uint64) (int8, bool, error) {
	k := r.voteKey(postID)
	val, err := Client.HGet(ctx, k, strconv.FormatUint(userID, 10)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, _ := strconv.ParseInt(val, 10, 8)
	return int8(n), true, nil
}

// WarmMyVote 惰性回填：只在hash已存在时写，避免无界扩张
func (r *VoteCacheRepository) WarmMyVote(ctx context.Context, userID, postID uint64, value int8) {
	k := r.voteKey(postID)
	if ok, _ := Client.Exists(ctx, k).Result(); ok > 0 {
		_ = r.SetMyVote(ctx, userID, postID, value)
	}
}

// Acquire 请求分布式锁
func (l *DistLock) Acquire(ctx context.Context, postID uint64, token string) (bool, error) {
	key := fmt.Sprintf("%s:%d", LockKeyPrefix, postID)
	return l.RDB.SetNX(ctx, key, token, LockTTL).Result()
}

// Release 用lua保证只释放自己持有的锁
func (l *DistLock) Release(ctx context.Context, postID uint64, token string) error {
	key := fmt.Sprintf("%s:%d", LockKeyPrefix, postID)
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.RDB, []string{key}, token).Result()
	return err
}
