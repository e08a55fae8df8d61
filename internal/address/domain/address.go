// Package domain 定义收货地址领域模型
package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

// Address 收货地址；每个用户至多一个默认地址
type Address struct {
	gorm.Model
	UserID     uint   `gorm:"column:user_id;index;not null" json:"user_id"`
	Street     string `gorm:"column:street;type:varchar(255);not null" json:"street"`
	City       string `gorm:"column:city;type:varchar(100);not null" json:"city"`
	State      string `gorm:"column:state;type:varchar(100)" json:"state"`
	Country    string `gorm:"column:country;type:varchar(100);not null" json:"country"`
	PostalCode string `gorm:"column:postal_code;type:varchar(20)" json:"postal_code"`
	IsDefault  bool   `gorm:"column:is_default;not null;default:false" json:"is_default"`
}

func (Address) TableName() string { return "addresses" }

// AddressRepository 地址仓储
type AddressRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Save(ctx context.Context, address *Address) error
	GetByID(ctx context.Context, id uint) (*Address, error)
	ListByUserID(ctx context.Context, userID uint) ([]*Address, error)
	// UnsetDefault 取消用户除 exceptID 外所有地址的默认标记
	UnsetDefault(ctx context.Context, userID, exceptID uint) error
	Delete(ctx context.Context, id uint) error
}
