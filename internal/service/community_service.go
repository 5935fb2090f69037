package service

import (
	"context"
	"errors"
	"regexp"

	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/repository/mysql"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,62}[a-z0-9]$`)

type CommunityService struct {
	repo       *mysql.CommunityRepository
	memberRepo *mysql.CommunityMemberRepository
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{
		repo:       &mysql.CommunityRepository{DB: db},
		memberRepo: &mysql.CommunityMemberRepository{DB: db},
	}
}

// CreateCommunity slug全小写且唯一；创建者自动成为admin
func (s *CommunityService) CreateCommunity(ctx context.Context, userID uint64, slug, name, desc string) (*model.Community, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}
	if name == "" {
		return nil, errors.New("community name required")
	}
	if !slugPattern.MatchString(slug) {
		return nil, errors.New("invalid slug")
	}

	community := &model.Community{
		Slug:        slug,
		Name:        name,
		Description: desc,
		CreatorID:   userID,
	}
	return s.repo.Create(ctx, community)
}

func (s *CommunityService) JoinCommunity(ctx context.Context, userID, communityID uint64) (*mysql.MemberResult, error) {
	if userID == 0 || communityID == 0 {
		return nil, errors.New("invalid id")
	}
	return s.memberRepo.Join(ctx, userID, communityID)
}

func (s *CommunityService) LeaveCommunity(ctx context.Context, userID, communityID uint64) (*mysql.MemberResult, error) {
	if userID == 0 || communityID == 0 {
		return nil, errors.New("invalid id")
	}
	return s.memberRepo.Leave(ctx, userID, communityID)
}

func (s *CommunityService) GetBySlug(ctx context.Context, slug string) (*model.Community, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// MyRole 第二个返回值表示是否是成员
func (s *CommunityService) MyRole(ctx context.Context, userID, communityID uint64) (int, bool, error) {
	return s.memberRepo.RoleOf(ctx, communityID, userID)
}

func (s *CommunityService) ListCommunities(ctx context.Context, page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.List(ctx, offset, size)
}

func (s *CommunityService) ListMembers(ctx context.Context, communityID uint64, page, size int) ([]model.CommunityMember, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size
	return s.memberRepo.ListMembers(ctx, communityID, offset, size)
}
