// Package mysql 提供收货地址仓储的 MySQL 实现
package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/autopartsmall/internal/address/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

// AddressRepository 地址仓储的 MySQL 实现
type AddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓储
func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := contextx.GetTx(ctx); tx != nil {
		if db, ok := tx.(*gorm.DB); ok {
			return db
		}
	}
	return r.db.WithContext(ctx)
}

// WithTx 在事务中执行 fn
func (r *AddressRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

func (r *AddressRepository) Save(ctx context.Context, address *domain.Address) error {
	return r.getDB(ctx).Save(address).Error
}

func (r *AddressRepository) GetByID(ctx context.Context, id uint) (*domain.Address, error) {
	var address domain.Address
	if err := r.getDB(ctx).First(&address, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAddressNotFound
		}
		return nil, err
	}
	return &address, nil
}

func (r *AddressRepository) ListByUserID(ctx context.Context, userID uint) ([]*domain.Address, error) {
	var addresses []*domain.Address
	err := r.getDB(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, id DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// UnsetDefault 取消用户除 exceptID 外所有地址的默认标记
func (r *AddressRepository) UnsetDefault(ctx context.Context, userID, exceptID uint) error {
	return r.getDB(ctx).
		Model(&domain.Address{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, exceptID, true).
		Update("is_default", false).Error
}

func (r *AddressRepository) Delete(ctx context.Context, id uint) error {
	return r.getDB(ctx).Delete(&domain.Address{}, id).Error
}
