// Package http 提供收货地址的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/autopartsmall/internal/address/application"
	"github.com/wyfcoding/autopartsmall/internal/address/domain"
	userhttp "github.com/wyfcoding/autopartsmall/internal/user/interfaces/http"
	"github.com/wyfcoding/pkg/response"
)

type Handler struct {
	svc *application.AddressService
}

func NewHandler(svc *application.AddressService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册路由；全部接口需认证
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authn gin.HandlerFunc) {
	g := r.Group("/v1/addresses", authn)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

type addressRequest struct {
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	Country    string `json:"country" binding:"required"`
	PostalCode string `json:"postal_code"`
	IsDefault  bool   `json:"is_default"`
}

func (req addressRequest) toInput() application.AddressInput {
	return application.AddressInput{
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}
}

func (h *Handler) List(c *gin.Context) {
	id, _ := userhttp.CurrentIdentity(c)
	addresses, err := h.svc.List(c.Request.Context(), id.UserID)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, addresses)
}

func (h *Handler) Create(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id, _ := userhttp.CurrentIdentity(c)
	address, err := h.svc.Create(c.Request.Context(), id.UserID, req.toInput())
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, address)
}

func (h *Handler) Update(c *gin.Context) {
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid address id", "")
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id, _ := userhttp.CurrentIdentity(c)
	address, err := h.svc.Update(c.Request.Context(), id.UserID, uint(addressID), req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrAddressNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, address)
}

func (h *Handler) Delete(c *gin.Context) {
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid address id", "")
		return
	}

	id, _ := userhttp.CurrentIdentity(c)
	if err := h.svc.Delete(c.Request.Context(), id.UserID, uint(addressID)); err != nil {
		if errors.Is(err, domain.ErrAddressNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "address deleted"})
}
