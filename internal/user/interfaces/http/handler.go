// Package http 提供用户模块的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/autopartsmall/internal/user/application"
	"github.com/wyfcoding/autopartsmall/internal/user/domain"
	"github.com/wyfcoding/pkg/response"
)

type Handler struct {
	cmd   *application.UserCommandService
	query *application.UserQueryService
}

func NewHandler(cmd *application.UserCommandService, query *application.UserQueryService) *Handler {
	return &Handler{cmd: cmd, query: query}
}

// RegisterRoutes 注册路由；authn 为认证中间件
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authn gin.HandlerFunc) {
	auth := r.Group("/v1/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/logout", authn, h.Logout)
	auth.POST("/verify/send", h.SendVerifyCode)
	auth.POST("/verify", h.VerifyEmail)

	users := r.Group("/v1/users")
	users.GET("/me", authn, h.GetMe)
	users.PUT("/me", authn, h.UpdateMe)
	users.PUT("/me/password", authn, h.ChangePassword)

	admin := users.Group("", authn, RequireRole(domain.RoleAdmin))
	admin.GET("", h.ListUsers)
	admin.PUT("/:id/role", h.ChangeRole)
	admin.DELETE("/:id", h.DeleteUser)
}

func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Name     string `json:"name"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.cmd.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.cmd.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.ErrorWithStatus(c, http.StatusUnauthorized, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{
		"token":      session.Token,
		"type":       "Bearer",
		"expires_at": session.ExpiresAt,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, _ := strings.CutPrefix(header, "Bearer ")
	if err := h.cmd.Logout(c.Request.Context(), token); err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "logged out"})
}

func (h *Handler) SendVerifyCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.cmd.SendVerificationCode(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "verification code sent"})
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.cmd.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		if errors.Is(err, domain.ErrInvalidVerifyCode) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "email verified"})
}

func (h *Handler) GetMe(c *gin.Context) {
	id, _ := CurrentIdentity(c)
	user, err := h.query.GetProfile(c.Request.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, user)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id, _ := CurrentIdentity(c)
	user, err := h.cmd.UpdateProfile(c.Request.Context(), id.UserID, req.Name, req.Phone)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, user)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id, _ := CurrentIdentity(c)
	if err := h.cmd.ChangePassword(c.Request.Context(), id.UserID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.ErrorWithStatus(c, http.StatusUnauthorized, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "password changed"})
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, pagination, err := h.query.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"users": users, "pagination": pagination})
}

func (h *Handler) ChangeRole(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid user id", "")
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.cmd.ChangeRole(c.Request.Context(), uint(userID), domain.UserRole(req.Role))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid user id", "")
		return
	}

	if err := h.cmd.DeleteUser(c.Request.Context(), uint(userID)); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"message": "user deleted"})
}
