// Package domain 定义车型领域模型
package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

// Vehicle 车型；YearStart/YearEnd 为适用年份区间
type Vehicle struct {
	gorm.Model
	Make       string `gorm:"column:make;type:varchar(100);not null;index" json:"make"`
	ModelName  string `gorm:"column:model_name;type:varchar(100);not null;index" json:"model"`
	YearStart  int    `gorm:"column:year_start" json:"year_start"`
	YearEnd    int    `gorm:"column:year_end" json:"year_end"`
	Generation string `gorm:"column:generation;type:varchar(50)" json:"generation"`
	ImageURL   string `gorm:"column:image_url;type:varchar(512)" json:"image_url"`
}

func (Vehicle) TableName() string { return "vehicles" }

// VehicleRepository 车型仓储
type VehicleRepository interface {
	Save(ctx context.Context, vehicle *Vehicle) error
	GetByID(ctx context.Context, id uint) (*Vehicle, error)
	List(ctx context.Context, make, model string, offset, limit int) ([]*Vehicle, int64, error)
	Delete(ctx context.Context, id uint) error
}
