package domain

import (
	"errors"

	"gorm.io/gorm"
)

// UserRole 用户角色
type UserRole string

const (
	RoleUser    UserRole = "USER"
	RoleManager UserRole = "MANAGER"
	RoleAdmin   UserRole = "ADMIN"
)

// Valid 校验角色取值
func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Privileged 是否为后台角色（经理/管理员）
func (r UserRole) Privileged() bool {
	return r == RoleManager || r == RoleAdmin
}

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidVerifyCode      = errors.New("invalid or expired verification code")
)

// User 用户账户
type User struct {
	gorm.Model
	Email         string   `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Name          string   `gorm:"column:name;type:varchar(100)" json:"name"`
	Phone         string   `gorm:"column:phone;type:varchar(20)" json:"phone"`
	PasswordHash  string   `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Role          UserRole `gorm:"column:role;type:varchar(20);not null;default:'USER'" json:"role"`
	EmailVerified bool     `gorm:"column:email_verified;not null;default:false" json:"email_verified"`
}

func (User) TableName() string { return "users" }

// NewUser 创建普通用户
func NewUser(email, name, passwordHash string) *User {
	return &User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         RoleUser,
	}
}
