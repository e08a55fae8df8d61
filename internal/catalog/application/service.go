// Package application 提供商品目录的应用服务
package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/autopartsmall/internal/catalog/domain"
	"github.com/wyfcoding/autopartsmall/pkg/logger"
	"github.com/wyfcoding/autopartsmall/pkg/utils"
)

// CatalogService 商品目录应用服务
type CatalogService struct {
	productRepo  domain.ProductRepository
	categoryRepo domain.CategoryRepository
	brandRepo    domain.BrandRepository
	compatRepo   domain.CompatibilityRepository
}

// NewCatalogService 创建商品目录应用服务
func NewCatalogService(
	productRepo domain.ProductRepository,
	categoryRepo domain.CategoryRepository,
	brandRepo domain.BrandRepository,
	compatRepo domain.CompatibilityRepository,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		compatRepo:   compatRepo,
	}
}

// ListQuery 商品列表查询参数
type ListQuery struct {
	CategoryID uint
	BrandID    uint
	VehicleID  uint
	Search     string
	Sort       string
	Page       int
	PageSize   int
}

// ListProducts 按条件分页查询商品
func (s *CatalogService) ListProducts(ctx context.Context, q ListQuery) ([]*domain.Product, *utils.Pagination, error) {
	p := utils.NewPagination(q.Page, q.PageSize, 0)
	products, total, err := s.productRepo.List(ctx, domain.ListFilter{
		CategoryID: q.CategoryID,
		BrandID:    q.BrandID,
		VehicleID:  q.VehicleID,
		Search:     q.Search,
		Sort:       q.Sort,
		Offset:     p.Offset(),
		Limit:      p.Limit(),
	})
	if err != nil {
		return nil, nil, err
	}
	return products, utils.NewPagination(q.Page, q.PageSize, total), nil
}

// GetProduct 查询单个商品
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// ProductInput 商品创建/更新参数
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	CategoryID  uint
	BrandID     uint
	PartNumber  string
	CarBrand    string
	CarModel    string
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("product price cannot be negative")
	}
	if in.Stock < 0 {
		return fmt.Errorf("product stock cannot be negative")
	}
	return nil
}

// CreateProduct 创建商品（后台操作）
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
		BrandID:     in.BrandID,
		PartNumber:  in.PartNumber,
		CarBrand:    in.CarBrand,
		CarModel:    in.CarModel,
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// UpdateProduct 更新商品（后台操作）
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	product.ImageURL = in.ImageURL
	product.CategoryID = in.CategoryID
	product.BrandID = in.BrandID
	product.PartNumber = in.PartNumber
	product.CarBrand = in.CarBrand
	product.CarModel = in.CarModel

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct 删除商品（后台操作）
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// ListCategories 查询分类列表
func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// SaveCategory 创建或更新分类（后台操作）
func (s *CatalogService) SaveCategory(ctx context.Context, id uint, name, description string) (*domain.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	category := &domain.Category{Name: name, Description: description}
	if id > 0 {
		existing, err := s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		existing.Name = name
		existing.Description = description
		category = existing
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory 删除分类（后台操作）
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

// ListBrands 查询品牌列表
func (s *CatalogService) ListBrands(ctx context.Context) ([]*domain.Brand, error) {
	return s.brandRepo.List(ctx)
}

// SaveBrand 创建或更新品牌（后台操作）
func (s *CatalogService) SaveBrand(ctx context.Context, id uint, name, logoURL string) (*domain.Brand, error) {
	if name == "" {
		return nil, fmt.Errorf("brand name is required")
	}

	brand := &domain.Brand{Name: name, LogoURL: logoURL}
	if id > 0 {
		existing, err := s.brandRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		existing.Name = name
		existing.LogoURL = logoURL
		brand = existing
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// DeleteBrand 删除品牌（后台操作）
func (s *CatalogService) DeleteBrand(ctx context.Context, id uint) error {
	if _, err := s.brandRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.brandRepo.Delete(ctx, id)
}

// AddCompatibility 添加商品车型适配（后台操作）
func (s *CatalogService) AddCompatibility(ctx context.Context, productID, vehicleID uint) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return err
	}
	return s.compatRepo.Add(ctx, productID, vehicleID)
}

// RemoveCompatibility 删除商品车型适配（后台操作）
func (s *CatalogService) RemoveCompatibility(ctx context.Context, productID, vehicleID uint) error {
	return s.compatRepo.Remove(ctx, productID, vehicleID)
}

// ListCompatibleVehicles 查询商品适配的车型 ID 列表
func (s *CatalogService) ListCompatibleVehicles(ctx context.Context, productID uint) ([]uint, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.compatRepo.ListVehicleIDs(ctx, productID)
}
