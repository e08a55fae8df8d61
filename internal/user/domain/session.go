package domain

import (
	"context"
	"time"
)

// Session 登录会话，token 为不透明随机串，存储于 Redis
type Session struct {
	Token     string    `json:"token"`
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired 会话是否已过期
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionRepository 会话仓储
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// VerifyCodeRepository 邮箱验证码仓储
type VerifyCodeRepository interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}
