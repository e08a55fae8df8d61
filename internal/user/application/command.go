// Package application 提供用户模块的应用服务（注册/登录/会话/资料/角色管理）
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/autopartsmall/internal/user/domain"
	"github.com/wyfcoding/autopartsmall/pkg/logger"
	"github.com/wyfcoding/autopartsmall/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

// CodeSender 验证码发送接口，由通知模块实现
type CodeSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// UserCommandService 用户写操作服务
type UserCommandService struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	codeRepo    domain.VerifyCodeRepository
	sender      CodeSender
	bcryptCost  int
	sessionTTL  time.Duration
	codeTTL     time.Duration
}

// NewUserCommandService 创建用户写操作服务
func NewUserCommandService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	codeRepo domain.VerifyCodeRepository,
	sender CodeSender,
	bcryptCost int,
	sessionTTL, codeTTL time.Duration,
) *UserCommandService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserCommandService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		codeRepo:    codeRepo,
		sender:      sender,
		bcryptCost:  bcryptCost,
		sessionTTL:  sessionTTL,
		codeTTL:     codeTTL,
	}
}

// Register 注册新用户；邮箱唯一性在事务内检查
func (s *UserCommandService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(email, name, string(hash))

	err = s.userRepo.WithTx(ctx, func(txCtx context.Context) error {
		existing, err := s.userRepo.GetByEmail(txCtx, email)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyRegistered
		}
		return s.userRepo.Save(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "User registered", "user_id", user.ID, "email", email)

	// 验证码发送失败不影响注册结果
	if err := s.SendVerificationCode(ctx, email); err != nil {
		logger.Warn(ctx, "Failed to send verification code after register", "email", email, "error", err)
	}

	return user, nil
}

// Login 校验凭证并创建会话
func (s *UserCommandService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	logger.Info(ctx, "User logged in", "user_id", user.ID)
	return session, nil
}

// Logout 删除会话
func (s *UserCommandService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

// UpdateProfile 更新用户资料
func (s *UserCommandService) UpdateProfile(ctx context.Context, userID uint, name, phone string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword 修改密码，需要验证旧密码
func (s *UserCommandService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return s.userRepo.Save(ctx, user)
}

// SendVerificationCode 生成并发送邮箱验证码
func (s *UserCommandService) SendVerificationCode(ctx context.Context, email string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return err
	}

	code := utils.RandDigits(6)
	if err := s.codeRepo.Save(ctx, email, code, s.codeTTL); err != nil {
		return fmt.Errorf("failed to save verification code: %w", err)
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.codeTTL.Minutes()))
	if err := s.sender.Send(ctx, email, "Email verification code", body); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}

	logger.Info(ctx, "Verification code sent", "email", email)
	return nil
}

// VerifyEmail 校验验证码并标记邮箱已验证
func (s *UserCommandService) VerifyEmail(ctx context.Context, email, code string) error {
	stored, err := s.codeRepo.Get(ctx, email)
	if err != nil {
		return err
	}
	if stored == "" || stored != code {
		return domain.ErrInvalidVerifyCode
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	user.EmailVerified = true
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	if err := s.codeRepo.Delete(ctx, email); err != nil {
		logger.Warn(ctx, "Failed to delete used verification code", "email", email, "error", err)
	}
	return nil
}

// ChangeRole 变更用户角色（管理员操作）
func (s *UserCommandService) ChangeRole(ctx context.Context, userID uint, role domain.UserRole) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "User role changed", "user_id", userID, "role", role)
	return user, nil
}

// DeleteUser 删除用户（管理员操作）
func (s *UserCommandService) DeleteUser(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}
