// Package application 提供收货地址的应用服务
package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/autopartsmall/internal/address/domain"
	"github.com/wyfcoding/autopartsmall/pkg/logger"
)

// AddressService 地址应用服务
type AddressService struct {
	repo domain.AddressRepository
}

// NewAddressService 创建地址应用服务
func NewAddressService(repo domain.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

// AddressInput 地址创建/更新参数
type AddressInput struct {
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
	IsDefault  bool
}

func (in AddressInput) validate() error {
	if in.Street == "" || in.City == "" || in.Country == "" {
		return fmt.Errorf("street, city and country are required")
	}
	return nil
}

// List 查询用户地址列表，默认地址排在最前
func (s *AddressService) List(ctx context.Context, userID uint) ([]*domain.Address, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Get 查询单个地址并校验归属
func (s *AddressService) Get(ctx context.Context, userID, addressID uint) (*domain.Address, error) {
	address, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, domain.ErrAddressNotFound
	}
	return address, nil
}

// Create 创建地址；IsDefault=true 时在同一事务内取消旧默认地址
func (s *AddressService) Create(ctx context.Context, userID uint, in AddressInput) (*domain.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	address := &domain.Address{
		UserID:     userID,
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
		PostalCode: in.PostalCode,
		IsDefault:  in.IsDefault,
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, address); err != nil {
			return err
		}
		if address.IsDefault {
			return s.repo.UnsetDefault(txCtx, userID, address.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Address created", "user_id", userID, "address_id", address.ID, "default", address.IsDefault)
	return address, nil
}

// Update 更新地址；IsDefault=true 时在同一事务内取消旧默认地址
func (s *AddressService) Update(ctx context.Context, userID, addressID uint, in AddressInput) (*domain.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	address, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Street = in.Street
	address.City = in.City
	address.State = in.State
	address.Country = in.Country
	address.PostalCode = in.PostalCode
	address.IsDefault = in.IsDefault

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, address); err != nil {
			return err
		}
		if address.IsDefault {
			return s.repo.UnsetDefault(txCtx, userID, address.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Delete 删除地址并校验归属
func (s *AddressService) Delete(ctx context.Context, userID, addressID uint) error {
	if _, err := s.Get(ctx, userID, addressID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, addressID)
}
