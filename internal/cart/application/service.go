// Package application 提供购物车的应用服务
package application

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/wyfcoding/autopartsmall/internal/catalog/domain"
	"github.com/wyfcoding/autopartsmall/internal/cart/domain"
	"github.com/wyfcoding/autopartsmall/pkg/logger"
	"github.com/wyfcoding/autopartsmall/pkg/metrics"
)

// ProductReader 商品读取接口，由目录模块实现
type ProductReader interface {
	GetProduct(ctx context.Context, id uint) (*catalogdomain.Product, error)
}

// CartService 购物车应用服务
type CartService struct {
	repo     domain.CartRepository
	products ProductReader
	metrics  *metrics.Metrics
}

// NewCartService 创建购物车应用服务
func NewCartService(repo domain.CartRepository, products ProductReader, m *metrics.Metrics) *CartService {
	return &CartService{repo: repo, products: products, metrics: m}
}

// GetCart 查询用户购物车；尚无购物车时返回空车（不落库）
func (s *CartService) GetCart(ctx context.Context, userID uint) (*domain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return &domain.Cart{UserID: userID}, nil
	}
	return cart, err
}

// AddItem 加入商品；已存在则累加数量
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(productID, qty); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CartItemsAdded.Inc()
	}
	logger.Debug(ctx, "Cart item added", "user_id", userID, "product_id", productID, "qty", qty)
	return cart, nil
}

// UpdateQuantity 覆盖条目数量；数量 ≤ 0 时移除该条目
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uint, qty int) (*domain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, err
	}

	item := cart.FindItem(itemID)
	if item == nil {
		return nil, domain.ErrCartItemNotFound
	}

	if qty <= 0 {
		if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
			return nil, err
		}
		_ = cart.RemoveItem(itemID)
		return cart, nil
	}

	item.Quantity = qty
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save cart item: %w", err)
	}
	return cart, nil
}

// RemoveItem 移除条目
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (*domain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, err
	}

	if cart.FindItem(itemID) == nil {
		return nil, domain.ErrCartItemNotFound
	}
	if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	_ = cart.RemoveItem(itemID)
	return cart, nil
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil
		}
		return err
	}
	return s.repo.ClearItems(ctx, cart.ID)
}

// SyncItem 客户端购物车快照条目
type SyncItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// Sync 用客户端快照整体替换服务端购物车。集合语义、幂等；
// 任一条目校验失败则整个调用失败，不做部分合并。
func (s *CartService) Sync(ctx context.Context, userID uint, items []SyncItem) (*domain.Cart, error) {
	merged := make(map[uint]int, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		if _, err := s.products.GetProduct(ctx, it.ProductID); err != nil {
			return nil, err
		}
		merged[it.ProductID] += it.Quantity
	}

	replacement := make([]domain.CartItem, 0, len(merged))
	for _, it := range items {
		if qty, ok := merged[it.ProductID]; ok {
			replacement = append(replacement, domain.CartItem{ProductID: it.ProductID, Quantity: qty})
			delete(merged, it.ProductID)
		}
	}

	cart, err := s.repo.ReplaceItems(ctx, userID, replacement)
	if err != nil {
		return nil, fmt.Errorf("failed to sync cart: %w", err)
	}

	logger.Info(ctx, "Cart synced", "user_id", userID, "items", len(replacement))
	return cart, nil
}
