// Package http 提供商品目录的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/autopartsmall/internal/catalog/application"
	"github.com/wyfcoding/autopartsmall/internal/catalog/domain"
	"github.com/wyfcoding/pkg/response"
)

type Handler struct {
	svc *application.CatalogService
}

func NewHandler(svc *application.CatalogService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册路由；staff 为后台角色中间件（经理/管理员）
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authn, staff gin.HandlerFunc) {
	g := r.Group("/v1")
	g.GET("/products", h.ListProducts)
	g.GET("/products/:id", h.GetProduct)
	g.GET("/products/:id/vehicles", h.ListCompatibleVehicles)
	g.GET("/categories", h.ListCategories)
	g.GET("/brands", h.ListBrands)

	admin := r.Group("/v1/admin", authn, staff)
	admin.POST("/products", h.CreateProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)
	admin.POST("/products/:id/vehicles/:vehicleId", h.AddCompatibility)
	admin.DELETE("/products/:id/vehicles/:vehicleId", h.RemoveCompatibility)
	admin.POST("/categories", h.SaveCategory)
	admin.PUT("/categories/:id", h.SaveCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)
	admin.POST("/brands", h.SaveBrand)
	admin.PUT("/brands/:id", h.SaveBrand)
	admin.DELETE("/brands/:id", h.DeleteBrand)
}

func (h *Handler) ListProducts(c *gin.Context) {
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	brandID, _ := strconv.ParseUint(c.Query("brand_id"), 10, 64)
	vehicleID, _ := strconv.ParseUint(c.Query("vehicle_id"), 10, 64)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	products, pagination, err := h.svc.ListProducts(c.Request.Context(), application.ListQuery{
		CategoryID: uint(categoryID),
		BrandID:    uint(brandID),
		VehicleID:  uint(vehicleID),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"products": products, "pagination": pagination})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	product, err := h.svc.GetProduct(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, product)
}

func (h *Handler) ListCompatibleVehicles(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	vehicleIDs, err := h.svc.ListCompatibleVehicles(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"vehicle_ids": vehicleIDs})
}

type productRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
	CategoryID  uint            `json:"category_id"`
	BrandID     uint            `json:"brand_id"`
	PartNumber  string          `json:"part_number"`
	CarBrand    string          `json:"car_brand"`
	CarModel    string          `json:"car_model"`
}

func (req productRequest) toInput() application.ProductInput {
	return application.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		PartNumber:  req.PartNumber,
		CarBrand:    req.CarBrand,
		CarModel:    req.CarModel,
	}
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	product, err := h.svc.CreateProduct(c.Request.Context(), req.toInput())
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	product, err := h.svc.UpdateProduct(c.Request.Context(), uint(id), req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	if err := h.svc.DeleteProduct(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "product deleted"})
}

func (h *Handler) AddCompatibility(c *gin.Context) {
	productID, err1 := strconv.ParseUint(c.Param("id"), 10, 64)
	vehicleID, err2 := strconv.ParseUint(c.Param("vehicleId"), 10, 64)
	if err1 != nil || err2 != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product or vehicle id", "")
		return
	}

	if err := h.svc.AddCompatibility(c.Request.Context(), uint(productID), uint(vehicleID)); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "compatibility added"})
}

func (h *Handler) RemoveCompatibility(c *gin.Context) {
	productID, err1 := strconv.ParseUint(c.Param("id"), 10, 64)
	vehicleID, err2 := strconv.ParseUint(c.Param("vehicleId"), 10, 64)
	if err1 != nil || err2 != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product or vehicle id", "")
		return
	}

	if err := h.svc.RemoveCompatibility(c.Request.Context(), uint(productID), uint(vehicleID)); err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "compatibility removed"})
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, categories)
}

func (h *Handler) SaveCategory(c *gin.Context) {
	var id uint64
	if raw := c.Param("id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid category id", "")
			return
		}
		id = parsed
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	category, err := h.svc.SaveCategory(c.Request.Context(), uint(id), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid category id", "")
		return
	}

	if err := h.svc.DeleteCategory(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "category deleted"})
}

func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.svc.ListBrands(c.Request.Context())
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, brands)
}

func (h *Handler) SaveBrand(c *gin.Context) {
	var id uint64
	if raw := c.Param("id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid brand id", "")
			return
		}
		id = parsed
	}

	var req struct {
		Name    string `json:"name" binding:"required"`
		LogoURL string `json:"logo_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	brand, err := h.svc.SaveBrand(c.Request.Context(), uint(id), req.Name, req.LogoURL)
	if err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, brand)
}

func (h *Handler) DeleteBrand(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid brand id", "")
		return
	}

	if err := h.svc.DeleteBrand(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "brand deleted"})
}
