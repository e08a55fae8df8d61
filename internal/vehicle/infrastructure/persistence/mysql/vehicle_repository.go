// Package mysql 提供车型仓储的 MySQL 实现
package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/autopartsmall/internal/vehicle/domain"
	"gorm.io/gorm"
)

// VehicleRepository 车型仓储的 MySQL 实现
type VehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository 创建车型仓储
func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Save(ctx context.Context, vehicle *domain.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uint) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) List(ctx context.Context, make, model string, offset, limit int) ([]*domain.Vehicle, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.Vehicle{})
	if make != "" {
		db = db.Where("make = ?", make)
	}
	if model != "" {
		db = db.Where("model_name = ?", model)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vehicles []*domain.Vehicle
	if err := db.Order("make ASC, model_name ASC, year_start DESC").
		Offset(offset).Limit(limit).Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Vehicle{}, id).Error
}
