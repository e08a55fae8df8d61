// Package mysql 提供购物车仓储的 MySQL 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/autopartsmall/internal/cart/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车仓储的 MySQL 实现
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetByUserID 查询用户购物车（含条目）
func (r *CartRepository) GetByUserID(ctx context.Context, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// GetOrCreate 查询用户购物车，不存在时创建空车
func (r *CartRepository) GetOrCreate(ctx context.Context, userID uint) (*domain.Cart, error) {
	cart, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return nil, err
	}

	cart = &domain.Cart{UserID: userID}
	// 并发首次访问时唯一索引兜底，冲突则读回已有记录
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	if cart.ID == 0 {
		return r.GetByUserID(ctx, userID)
	}
	return cart, nil
}

// Save 保存购物车及条目
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(cart).Error
}

// SaveItem 保存单个条目
func (r *CartRepository) SaveItem(ctx context.Context, item *domain.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem 删除单个条目；cartID 限定归属
func (r *CartRepository) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	result := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&domain.CartItem{}, itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

// ClearItems 清空购物车条目
func (r *CartRepository) ClearItems(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&domain.CartItem{}).Error
}

// ReplaceItems 在单个事务内用给定条目整体替换购物车内容
func (r *CartRepository) ReplaceItems(ctx context.Context, userID uint, items []domain.CartItem) (*domain.Cart, error) {
	var cart *domain.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Cart
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			existing = domain.Cart{UserID: userID}
			if err := tx.Create(&existing).Error; err != nil {
				return fmt.Errorf("failed to create cart: %w", err)
			}
		}

		if err := tx.Where("cart_id = ?", existing.ID).Delete(&domain.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart items: %w", err)
		}

		for i := range items {
			items[i].ID = 0
			items[i].CartID = existing.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("failed to insert cart items: %w", err)
			}
		}

		existing.Items = items
		cart = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}
