package application

import (
	"context"

	"github.com/wyfcoding/autopartsmall/internal/user/domain"
	"github.com/wyfcoding/autopartsmall/pkg/utils"
)

// UserQueryService 用户读操作服务
type UserQueryService struct {
	userRepo domain.UserRepository
}

// NewUserQueryService 创建用户读操作服务
func NewUserQueryService(userRepo domain.UserRepository) *UserQueryService {
	return &UserQueryService{userRepo: userRepo}
}

// GetProfile 查询用户资料
func (s *UserQueryService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ListUsers 分页查询用户列表（管理员操作）
func (s *UserQueryService) ListUsers(ctx context.Context, page, pageSize int) ([]*domain.User, *utils.Pagination, error) {
	p := utils.NewPagination(page, pageSize, 0)
	users, total, err := s.userRepo.List(ctx, p.Offset(), p.Limit())
	if err != nil {
		return nil, nil, err
	}
	return users, utils.NewPagination(page, pageSize, total), nil
}
