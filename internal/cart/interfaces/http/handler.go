// Package http 提供购物车的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/wyfcoding/autopartsmall/internal/catalog/domain"
	"github.com/wyfcoding/autopartsmall/internal/cart/application"
	"github.com/wyfcoding/autopartsmall/internal/cart/domain"
	userhttp "github.com/wyfcoding/autopartsmall/internal/user/interfaces/http"
	"github.com/wyfcoding/pkg/response"
)

type Handler struct {
	svc *application.CartService
}

func NewHandler(svc *application.CartService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册路由；全部接口需认证
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authn gin.HandlerFunc) {
	g := r.Group("/v1/cart", authn)
	g.GET("", h.GetCart)
	g.POST("/items", h.AddItem)
	g.PUT("/items/:itemId", h.UpdateQuantity)
	g.DELETE("/items/:itemId", h.RemoveItem)
	g.DELETE("", h.Clear)
	g.POST("/sync", h.Sync)
}

func (h *Handler) respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCartItemNotFound), errors.Is(err, catalogdomain.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrInvalidQuantity):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	default:
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}

func (h *Handler) GetCart(c *gin.Context) {
	id, _ := userhttp.CurrentIdentity(c)
	cart, err := h.svc.GetCart(c.Request.Context(), id.UserID)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *Handler) AddItem(c *gin.Context) {
	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id, _ := userhttp.CurrentIdentity(c)
	cart, err := h.svc.AddItem(c.Request.Context(), id.UserID, req.ProductID, req.Quantity)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid item id", "")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id, _ := userhttp.CurrentIdentity(c)
	cart, err := h.svc.UpdateQuantity(c.Request.Context(), id.UserID, uint(itemID), req.Quantity)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid item id", "")
		return
	}

	id, _ := userhttp.CurrentIdentity(c)
	cart, err := h.svc.RemoveItem(c.Request.Context(), id.UserID, uint(itemID))
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *Handler) Clear(c *gin.Context) {
	id, _ := userhttp.CurrentIdentity(c)
	if err := h.svc.Clear(c.Request.Context(), id.UserID); err != nil {
		h.respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "cart cleared"})
}

func (h *Handler) Sync(c *gin.Context) {
	var req struct {
		Items []application.SyncItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id, _ := userhttp.CurrentIdentity(c)
	cart, err := h.svc.Sync(c.Request.Context(), id.UserID, req.Items)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}
