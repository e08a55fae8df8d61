// Package domain 定义购物车领域模型
package domain

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

// Cart 购物车，每个用户至多一个
type Cart struct {
	gorm.Model
	UserID uint       `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string { return "carts" }

// CartItem 购物车条目；同一购物车内每个商品至多一条
type CartItem struct {
	gorm.Model
	CartID    uint `gorm:"column:cart_id;uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uint `gorm:"column:product_id;uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  int  `gorm:"column:quantity;not null" json:"quantity"`
}

func (CartItem) TableName() string { return "cart_items" }

// AddItem 添加商品；已存在则累加数量
func (c *Cart) AddItem(productID uint, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += qty
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{CartID: c.ID, ProductID: productID, Quantity: qty})
	return nil
}

// FindItem 按条目 ID 查找
func (c *Cart) FindItem(itemID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// RemoveItem 按条目 ID 移除；不存在返回 ErrCartItemNotFound
func (c *Cart) RemoveItem(itemID uint) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

// TotalQuantity 购物车内商品总件数
func (c *Cart) TotalQuantity() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Empty 购物车是否为空
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}
