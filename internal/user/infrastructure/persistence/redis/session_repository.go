// Package redis 提供会话与验证码的 Redis 存储实现
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/autopartsmall/internal/user/domain"
	"github.com/wyfcoding/autopartsmall/pkg/cache"
)

const (
	sessionKeyPrefix    = "session:"
	verifyCodeKeyPrefix = "verify:code:"
)

// SessionRepository 会话仓储的 Redis 实现
type SessionRepository struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewSessionRepository 创建会话仓储
func NewSessionRepository(cache *cache.RedisCache, ttl time.Duration) *SessionRepository {
	return &SessionRepository{cache: cache, ttl: ttl}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Save 保存会话，TTL 内有效
func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	return r.cache.SetJSON(ctx, sessionKey(session.Token), session, r.ttl)
}

// Get 根据 token 查询会话；不存在或过期返回 nil
func (r *SessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	if err := r.cache.GetJSON(ctx, sessionKey(token), &session); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.Token == "" {
		return nil, nil
	}
	return &session, nil
}

// Delete 删除会话（登出）
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	return r.cache.Delete(ctx, sessionKey(token))
}

// VerifyCodeRepository 邮箱验证码仓储的 Redis 实现
type VerifyCodeRepository struct {
	cache *cache.RedisCache
}

// NewVerifyCodeRepository 创建验证码仓储
func NewVerifyCodeRepository(cache *cache.RedisCache) *VerifyCodeRepository {
	return &VerifyCodeRepository{cache: cache}
}

func verifyCodeKey(email string) string {
	return verifyCodeKeyPrefix + email
}

// Save 保存验证码
func (r *VerifyCodeRepository) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	return r.cache.Set(ctx, verifyCodeKey(email), code, ttl)
}

// Get 查询验证码；不存在返回空串
func (r *VerifyCodeRepository) Get(ctx context.Context, email string) (string, error) {
	return r.cache.Get(ctx, verifyCodeKey(email))
}

// Delete 删除验证码（验证成功后）
func (r *VerifyCodeRepository) Delete(ctx context.Context, email string) error {
	return r.cache.Delete(ctx, verifyCodeKey(email))
}
