package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
	"humansonly/internal/repository/mysql"
	"humansonly/internal/repository/redis"
)

type UserService struct {
	repo     *mysql.UserRepository
	rUser    *redis.UserRepository
	emailSvc *EmailService
}

func NewUserService(db *gorm.DB, emailSvc *EmailService) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		rUser:    &redis.UserRepository{},
		emailSvc: emailSvc,
	}
}

// Register 用户名统一小写存储；邮箱验证码先校验
func (s *UserService) Register(ctx context.Context, username, password, email, code string) error {
	if s.emailSvc != nil {
		ok, err := s.emailSvc.VerifyCode(ctx, "register", email, code)
		if err != nil || !ok {
			return errors.New("verification failed")
		}
	}

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return errors.New("username and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    strings.ToLower(strings.TrimSpace(email)),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, pkg.ErrConflict) {
			return errors.New("username or email already taken")
		}
		return err
	}
	return nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, errors.New("user not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errors.New("invalid password")
	}

	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	// 单端登录：最新token写入redis，旧会话失效
	if err = s.rUser.AddUserToken(ctx, user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	return s.rUser.DeleteUserToken(ctx, userID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// ResetPassword 忘记密码：邮箱验证码换新密码
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ok, err := s.emailSvc.VerifyCode(ctx, "reset", email, code)
	if err != nil || !ok {
		return errors.New("verification failed")
	}

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, user, string(hash))
}

// ChangePassword 登录态修改密码，成功后踢掉当前会话
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return errors.New("old password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err = s.repo.UpdatePassword(ctx, user, string(hash)); err != nil {
		return err
	}
	return s.Logout(ctx, userID)
}

// GetProfile karma计数随用户行返回
func (s *UserService) GetProfile(ctx context.Context, userID uint64) (*model.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *UserService) GetProfileByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.repo.FindByUsername(ctx, strings.ToLower(username))
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, displayName, bio string) error {
	if userID == 0 {
		return errors.New("invalid user id")
	}
	return s.repo.UpdateProfile(ctx, userID, displayName, bio)
}

// VerifyHuman 人机验证网关回调，只负责置位
func (s *UserService) VerifyHuman(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return pkg.ErrUnauthenticated
	}
	return s.repo.SetVerifiedHuman(ctx, userID)
}
