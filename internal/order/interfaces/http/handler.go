// Package http 提供订单模块的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	addressdomain "github.com/wyfcoding/autopartsmall/internal/address/domain"
	"github.com/wyfcoding/autopartsmall/internal/order/application"
	"github.com/wyfcoding/autopartsmall/internal/order/domain"
	userhttp "github.com/wyfcoding/autopartsmall/internal/user/interfaces/http"
	"github.com/wyfcoding/pkg/response"
)

type Handler struct {
	svc *application.OrderService
}

func NewHandler(svc *application.OrderService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册路由；staff 为后台角色中间件
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authn, staff gin.HandlerFunc) {
	g := r.Group("/v1/orders", authn)
	g.POST("", h.Create)
	g.GET("", h.ListMine)
	g.GET("/:id", h.Get)

	admin := r.Group("/v1/admin/orders", authn, staff)
	admin.GET("", h.ListAll)
	admin.PUT("/:id/status", h.UpdateStatus)
}

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, addressdomain.ErrAddressNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrMissingAddress),
		errors.Is(err, domain.ErrMissingPhone),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidTransition):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	default:
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal error", "")
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req struct {
		AddressID   uint   `json:"address_id" binding:"required"`
		PhoneNumber string `json:"phone_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id, _ := userhttp.CurrentIdentity(c)
	order, err := h.svc.CreateFromCart(c.Request.Context(), id.UserID, id.Email, req.AddressID, req.PhoneNumber)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

func (h *Handler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	id, _ := userhttp.CurrentIdentity(c)
	orders, pagination, err := h.svc.ListMine(c.Request.Context(), id.UserID, page, pageSize)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, gin.H{"orders": orders, "pagination": pagination})
}

func (h *Handler) Get(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "")
		return
	}

	id, _ := userhttp.CurrentIdentity(c)
	order, err := h.svc.Get(c.Request.Context(), uint(orderID), id.UserID, id.Role.Privileged())
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

func (h *Handler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	status := domain.OrderStatus(c.Query("status"))

	orders, pagination, err := h.svc.ListAll(c.Request.Context(), status, page, pageSize)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, gin.H{"orders": orders, "pagination": pagination})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := h.svc.UpdateStatus(c.Request.Context(), uint(orderID), domain.OrderStatus(req.Status))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}
