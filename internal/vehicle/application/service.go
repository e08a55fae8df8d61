// Package application 提供车型模块的应用服务
package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/autopartsmall/internal/vehicle/domain"
	"github.com/wyfcoding/autopartsmall/pkg/utils"
)

// VehicleService 车型应用服务
type VehicleService struct {
	repo domain.VehicleRepository
}

// NewVehicleService 创建车型应用服务
func NewVehicleService(repo domain.VehicleRepository) *VehicleService {
	return &VehicleService{repo: repo}
}

// List 按品牌/型号过滤并分页查询车型
func (s *VehicleService) List(ctx context.Context, make, model string, page, pageSize int) ([]*domain.Vehicle, *utils.Pagination, error) {
	p := utils.NewPagination(page, pageSize, 0)
	vehicles, total, err := s.repo.List(ctx, make, model, p.Offset(), p.Limit())
	if err != nil {
		return nil, nil, err
	}
	return vehicles, utils.NewPagination(page, pageSize, total), nil
}

// Get 查询单个车型
func (s *VehicleService) Get(ctx context.Context, id uint) (*domain.Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

// VehicleInput 车型创建/更新参数
type VehicleInput struct {
	Make       string
	Model      string
	YearStart  int
	YearEnd    int
	Generation string
	ImageURL   string
}

func (in VehicleInput) validate() error {
	if in.Make == "" || in.Model == "" {
		return fmt.Errorf("vehicle make and model are required")
	}
	if in.YearEnd != 0 && in.YearEnd < in.YearStart {
		return fmt.Errorf("year_end cannot precede year_start")
	}
	return nil
}

// Create 创建车型（后台操作）
func (s *VehicleService) Create(ctx context.Context, in VehicleInput) (*domain.Vehicle, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	vehicle := &domain.Vehicle{
		Make:       in.Make,
		ModelName:  in.Model,
		YearStart:  in.YearStart,
		YearEnd:    in.YearEnd,
		Generation: in.Generation,
		ImageURL:   in.ImageURL,
	}
	if err := s.repo.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Update 更新车型（后台操作）
func (s *VehicleService) Update(ctx context.Context, id uint, in VehicleInput) (*domain.Vehicle, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vehicle.Make = in.Make
	vehicle.ModelName = in.Model
	vehicle.YearStart = in.YearStart
	vehicle.YearEnd = in.YearEnd
	vehicle.Generation = in.Generation
	vehicle.ImageURL = in.ImageURL

	if err := s.repo.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Delete 删除车型（后台操作）
func (s *VehicleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
