package domain

import "context"

// CartRepository 购物车仓储
type CartRepository interface {
	// GetByUserID 查询用户购物车（含条目）；不存在返回 ErrCartNotFound
	GetByUserID(ctx context.Context, userID uint) (*Cart, error)
	// GetOrCreate 查询用户购物车，不存在时创建空车
	GetOrCreate(ctx context.Context, userID uint) (*Cart, error)
	// Save 保存购物车及条目（upsert）
	Save(ctx context.Context, cart *Cart) error
	// SaveItem 保存单个条目
	SaveItem(ctx context.Context, item *CartItem) error
	// DeleteItem 删除单个条目
	DeleteItem(ctx context.Context, cartID, itemID uint) error
	// ClearItems 清空购物车条目
	ClearItems(ctx context.Context, cartID uint) error
	// ReplaceItems 在单个事务内用给定条目整体替换购物车内容
	ReplaceItems(ctx context.Context, userID uint, items []CartItem) (*Cart, error)
}
