package domain

import "context"

// ListFilter 商品列表过滤条件
type ListFilter struct {
	CategoryID uint
	BrandID    uint
	VehicleID  uint
	Search     string
	Sort       string // price_asc, price_desc, newest；空值按 ID 倒序
	Offset     int
	Limit      int
}

// ProductRepository 商品仓储
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Product, error)
	List(ctx context.Context, filter ListFilter) ([]*Product, int64, error)
	Delete(ctx context.Context, id uint) error
}

// CategoryRepository 分类仓储
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uint) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Delete(ctx context.Context, id uint) error
}

// BrandRepository 品牌仓储
type BrandRepository interface {
	Save(ctx context.Context, brand *Brand) error
	GetByID(ctx context.Context, id uint) (*Brand, error)
	List(ctx context.Context) ([]*Brand, error)
	Delete(ctx context.Context, id uint) error
}

// CompatibilityRepository 车型适配仓储
type CompatibilityRepository interface {
	Add(ctx context.Context, productID, vehicleID uint) error
	Remove(ctx context.Context, productID, vehicleID uint) error
	ListVehicleIDs(ctx context.Context, productID uint) ([]uint, error)
}
