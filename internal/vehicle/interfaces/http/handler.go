// Package http 提供车型模块的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/autopartsmall/internal/vehicle/application"
	"github.com/wyfcoding/autopartsmall/internal/vehicle/domain"
	"github.com/wyfcoding/pkg/response"
)

type Handler struct {
	svc *application.VehicleService
}

func NewHandler(svc *application.VehicleService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册路由；staff 为后台角色中间件
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authn, staff gin.HandlerFunc) {
	g := r.Group("/v1/vehicles")
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	admin := r.Group("/v1/admin/vehicles", authn, staff)
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	vehicles, pagination, err := h.svc.List(c.Request.Context(), c.Query("make"), c.Query("model"), page, pageSize)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"vehicles": vehicles, "pagination": pagination})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid vehicle id", "")
		return
	}

	vehicle, err := h.svc.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, vehicle)
}

type vehicleRequest struct {
	Make       string `json:"make" binding:"required"`
	Model      string `json:"model" binding:"required"`
	YearStart  int    `json:"year_start"`
	YearEnd    int    `json:"year_end"`
	Generation string `json:"generation"`
	ImageURL   string `json:"image_url"`
}

func (req vehicleRequest) toInput() application.VehicleInput {
	return application.VehicleInput{
		Make:       req.Make,
		Model:      req.Model,
		YearStart:  req.YearStart,
		YearEnd:    req.YearEnd,
		Generation: req.Generation,
		ImageURL:   req.ImageURL,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	vehicle, err := h.svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, vehicle)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid vehicle id", "")
		return
	}

	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	vehicle, err := h.svc.Update(c.Request.Context(), uint(id), req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, vehicle)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid vehicle id", "")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "vehicle deleted"})
}
