// Package mysql 提供商品目录仓储的 MySQL 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/autopartsmall/internal/catalog/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository 商品仓储的 MySQL 实现
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Save 保存商品
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// GetByID 根据 ID 查询商品
func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetByIDs 批量查询商品
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []*domain.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// List 按过滤条件分页查询商品
func (r *ProductRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Product, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.Product{})

	if filter.CategoryID > 0 {
		db = db.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.BrandID > 0 {
		db = db.Where("products.brand_id = ?", filter.BrandID)
	}
	if filter.VehicleID > 0 {
		db = db.Joins("JOIN compatibilities ON compatibilities.product_id = products.id").
			Where("compatibilities.vehicle_id = ?", filter.VehicleID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("products.name LIKE ? OR products.description LIKE ? OR products.part_number LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	switch filter.Sort {
	case "price_asc":
		db = db.Order("products.price ASC")
	case "price_desc":
		db = db.Order("products.price DESC")
	case "newest":
		db = db.Order("products.created_at DESC")
	default:
		db = db.Order("products.id DESC")
	}

	var products []*domain.Product
	if err := db.Offset(filter.Offset).Limit(filter.Limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Delete 删除商品（软删除）
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error
}

// CategoryRepository 分类仓储的 MySQL 实现
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Category{}, id).Error
}

// BrandRepository 品牌仓储的 MySQL 实现
type BrandRepository struct {
	db *gorm.DB
}

// NewBrandRepository 创建品牌仓储
func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) Save(ctx context.Context, brand *domain.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *BrandRepository) GetByID(ctx context.Context, id uint) (*domain.Brand, error) {
	var brand domain.Brand
	if err := r.db.WithContext(ctx).First(&brand, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBrandNotFound
		}
		return nil, err
	}
	return &brand, nil
}

func (r *BrandRepository) List(ctx context.Context) ([]*domain.Brand, error) {
	var brands []*domain.Brand
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *BrandRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Brand{}, id).Error
}

// CompatibilityRepository 车型适配仓储的 MySQL 实现
type CompatibilityRepository struct {
	db *gorm.DB
}

// NewCompatibilityRepository 创建车型适配仓储
func NewCompatibilityRepository(db *gorm.DB) *CompatibilityRepository {
	return &CompatibilityRepository{db: db}
}

// Add 添加适配关系；重复添加幂等
func (r *CompatibilityRepository) Add(ctx context.Context, productID, vehicleID uint) error {
	compat := &domain.Compatibility{ProductID: productID, VehicleID: vehicleID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(compat).Error
}

// Remove 删除适配关系
func (r *CompatibilityRepository) Remove(ctx context.Context, productID, vehicleID uint) error {
	return r.db.WithContext(ctx).
		Where("product_id = ? AND vehicle_id = ?", productID, vehicleID).
		Delete(&domain.Compatibility{}).Error
}

// ListVehicleIDs 查询商品适配的车型 ID 列表
func (r *CompatibilityRepository) ListVehicleIDs(ctx context.Context, productID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&domain.Compatibility{}).
		Where("product_id = ?", productID).
		Pluck("vehicle_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
