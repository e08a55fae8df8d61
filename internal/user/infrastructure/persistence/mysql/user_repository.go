package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/autopartsmall/internal/user/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

// UserRepository 用户仓储的 MySQL 实现
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// getDB 从 ctx 中获取事务句柄，无事务时回退到默认连接
func (r *UserRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := contextx.GetTx(ctx); tx != nil {
		if db, ok := tx.(*gorm.DB); ok {
			return db
		}
	}
	return r.db.WithContext(ctx)
}

// WithTx 在事务中执行 fn，事务句柄通过 ctx 传递
func (r *UserRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

// Save 保存用户（插入或更新）
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	return r.getDB(ctx).Save(user).Error
}

// GetByID 根据 ID 查询用户
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.getDB(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱查询用户
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.getDB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List 分页查询用户
func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, int64, error) {
	var users []*domain.User
	var total int64

	db := r.getDB(ctx).Model(&domain.User{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("id DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Delete 删除用户（软删除）
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.getDB(ctx).Delete(&domain.User{}, id).Error
}
