package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"humansonly/internal/repository/mysql"
	"humansonly/internal/repository/redis"
)

// VoteService 投票入口。写路径永远先过MySQL事务，缓存尽力而为，
// 拿不到锁就删Key交给读侧重建。cache可为nil（测试或redis不可用时直接跳过）。
type VoteService struct {
	repo  *mysql.VoteRepository
	cache *redis.VoteCacheRepository
	lock  *redis.DistLock
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{
		repo:  &mysql.VoteRepository{DB: db},
		cache: redis.NewVoteCacheRepository(),
		lock:  &redis.DistLock{RDB: redis.Client},
	}
}

// NewVoteServiceWithCache cache/lock传nil则只走数据库
func NewVoteServiceWithCache(db *gorm.DB, cache *redis.VoteCacheRepository, lock *redis.DistLock) *VoteService {
	return &VoteService{repo: &mysql.VoteRepository{DB: db}, cache: cache, lock: lock}
}

// VotePost direction只接受+1/-1；重复同方向=撤销，反方向=切换
func (s *VoteService) VotePost(ctx context.Context, userID, postID uint64, value int8) (*mysql.VoteResult, error) {
	if userID == 0 || postID == 0 {
		return nil, errors.New("invalid id")
	}
	if value != 1 && value != -1 {
		return nil, errors.New("vote value must be +1 or -1")
	}

	res, err := s.repo.VotePost(ctx, userID, postID, value)
	if err != nil {
		return nil, err
	}
	s.refreshPostCache(ctx, userID, postID, res)
	return res, nil
}

func (s *VoteService) VoteComment(ctx context.Context, userID, commentID uint64, value int8) (*mysql.VoteResult, error) {
	if userID == 0 || commentID == 0 {
		return nil, errors.New("invalid id")
	}
	if value != 1 && value != -1 {
		return nil, errors.New("vote value must be +1 or -1")
	}
	// 评论热度低，不走缓存
	return s.repo.VoteComment(ctx, userID, commentID, value)
}

// MyPostVote 先查缓存，miss回源并惰性回填
func (s *VoteService) MyPostVote(ctx context.Context, userID, postID uint64) (int8, error) {
	if userID == 0 || postID == 0 {
		return 0, errors.New("invalid id")
	}
	if s.cache != nil {
		if v, ok, err := s.cache.GetMyVoteCached(ctx, userID, postID); err == nil && ok {
			return v, nil
		}
	}
	v, err := s.repo.MyPostVote(ctx, userID, postID)
	if err == nil && s.cache != nil {
		s.cache.WarmMyVote(ctx, userID, postID, v)
	}
	return v, err
}

func (s *VoteService) MyCommentVote(ctx context.Context, userID, commentID uint64) (int8, error) {
	if userID == 0 || commentID == 0 {
		return 0, errors.New("invalid id")
	}
	return s.repo.MyCommentVote(ctx, userID, commentID)
}

// GetPostScore 读计数：缓存命中直接返回，miss加锁回源重建
func (s *VoteService) GetPostScore(ctx context.Context, userID, postID uint64) (up, down int64, err error) {
	if s.cache == nil || s.lock == nil {
		return s.scoreFromDB(ctx, postID)
	}
	if u, d, ok, e := s.cache.GetScoreCached(ctx, postID); e == nil && ok {
		return u, d, nil
	}

	token := fmt.Sprintf("%d-%d-%d", userID, postID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, postID, token)
	if got {
		defer func() { _ = s.lock.Release(ctx, postID, token) }()

		// 双检，拿锁期间可能已有别人重建
		if u, d, ok, e := s.cache.GetScoreCached(ctx, postID); e == nil && ok {
			return u, d, nil
		}
		up, down, err = s.scoreFromDB(ctx, postID)
		if err != nil {
			return 0, 0, err
		}
		_ = s.cache.SetScore(ctx, postID, up, down)
		return up, down, nil
	}

	// 没拿到锁，短暂退避后再读一次缓存，避免全体打DB
	time.Sleep(50 * time.Millisecond)
	if u, d, ok, e := s.cache.GetScoreCached(ctx, postID); e == nil && ok {
		return u, d, nil
	}
	return s.scoreFromDB(ctx, postID)
}

func (s *VoteService) scoreFromDB(ctx context.Context, postID uint64) (int64, int64, error) {
	postRepo := &mysql.PostRepository{DB: s.repo.DB}
	post, err := postRepo.FindByID(ctx, postID)
	if err != nil {
		return 0, 0, err
	}
	return post.Upvotes, post.Downvotes, nil
}

// refreshPostCache 写库成功后尽力更新缓存；拿不到锁删Key降级
func (s *VoteService) refreshPostCache(ctx context.Context, userID, postID uint64, res *mysql.VoteResult) {
	if s.cache == nil {
		return
	}
	_ = s.cache.SetMyVote(ctx, userID, postID, res.MyVote)

	if s.lock == nil {
		_ = s.cache.DeleteScore(ctx, postID)
		return
	}
	token := fmt.Sprintf("%d-%d-%d", userID, postID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, postID, token)
	if got {
		defer func() { _ = s.lock.Release(ctx, postID, token) }()
		_ = s.cache.SetScore(ctx, postID, res.Upvotes, res.Downvotes)
	} else {
		_ = s.cache.DeleteScore(ctx, postID, 200*time.Millisecond)
	}
}
