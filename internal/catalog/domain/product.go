// Package domain 定义商品目录的领域模型（配件/分类/品牌/车型适配）
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrBrandNotFound    = errors.New("brand not found")
)

// Product 配件商品；Price 使用 decimal 精确表示
type Product struct {
	gorm.Model
	Name        string          `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	ImageURL    string          `gorm:"column:image_url;type:varchar(512)" json:"image_url"`
	CategoryID  uint            `gorm:"column:category_id;index" json:"category_id"`
	BrandID     uint            `gorm:"column:brand_id;index" json:"brand_id"`
	PartNumber  string          `gorm:"column:part_number;type:varchar(64);index" json:"part_number"`
	CarBrand    string          `gorm:"column:car_brand;type:varchar(100)" json:"car_brand"`
	CarModel    string          `gorm:"column:car_model;type:varchar(100)" json:"car_model"`
}

func (Product) TableName() string { return "products" }

// InStock 库存是否充足；目录层只做弱校验，不做预留
func (p *Product) InStock(quantity int) bool {
	return p.Stock >= quantity
}

// Category 商品分类
type Category struct {
	gorm.Model
	Name        string `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string `gorm:"column:description;type:varchar(512)" json:"description"`
}

func (Category) TableName() string { return "categories" }

// Brand 配件品牌
type Brand struct {
	gorm.Model
	Name    string `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	LogoURL string `gorm:"column:logo_url;type:varchar(512)" json:"logo_url"`
}

func (Brand) TableName() string { return "brands" }

// Compatibility 商品与车型的适配关系
type Compatibility struct {
	ID        uint `gorm:"primarykey" json:"id"`
	ProductID uint `gorm:"column:product_id;uniqueIndex:idx_product_vehicle;not null" json:"product_id"`
	VehicleID uint `gorm:"column:vehicle_id;uniqueIndex:idx_product_vehicle;not null" json:"vehicle_id"`
}

func (Compatibility) TableName() string { return "compatibilities" }
