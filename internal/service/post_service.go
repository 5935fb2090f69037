package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
	"humansonly/internal/repository/mysql"
)

type PostService struct {
	repo       *mysql.PostRepository
	memberRepo *mysql.CommunityMemberRepository
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		repo:       &mysql.PostRepository{DB: db},
		memberRepo: &mysql.CommunityMemberRepository{DB: db},
	}
}

// CreatePost 只有社区成员能发帖
func (s *PostService) CreatePost(ctx context.Context, userID, communityID uint64, title, content string) (*model.Post, error) {
	if title == "" {
		return nil, errors.New("title required")
	}

	ok, err := s.memberRepo.IsMember(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkg.ErrForbidden
	}

	post := &model.Post{
		CommunityID: communityID,
		AuthorID:    userID,
		Title:       title,
		Content:     content,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, postID uint64) (*model.Post, error) {
	return s.repo.FindByID(ctx, postID)
}

// ListByCommunity 社区帖子列表，时间倒序
func (s *PostService) ListByCommunity(ctx context.Context, communityID uint64, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.ListByCommunity(ctx, communityID, offset, size)
}

// ListRecent 全站feed
func (s *PostService) ListRecent(ctx context.Context, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.ListRecent(ctx, offset, size)
}

// ListByCommunityCursor 游标分页：首次不传lastID/lastCreatedAt（或传0）
func (s *PostService) ListByCommunityCursor(ctx context.Context, communityID uint64, lastID uint64, lastCreatedAt int64, size int) ([]model.Post, uint64, int64, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	list, err := s.repo.ListByCommunityCursor(ctx, communityID, lastID, lastCreatedAt, size)
	if err != nil {
		return nil, 0, 0, err
	}
	var nextID uint64
	var nextTS int64
	if len(list) > 0 {
		last := list[len(list)-1]
		nextID = last.ID
		nextTS = last.CreatedAt.Unix()
	}
	return list, nextID, nextTS, nil
}

// DeletePost 幂等删除：成功/已删除均返回nil，仅无权限时报错
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint64) error {
	affected, err := s.repo.DeleteWithPermission(ctx, postID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		// 帖子已删或不存在视为幂等成功；还能读到说明是无权限
		if _, err := s.repo.FindByID(ctx, postID); err != nil {
			return nil
		}
		return pkg.ErrForbidden
	}
	return nil
}
