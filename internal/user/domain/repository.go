package domain

import "context"

// UserRepository 用户仓储
type UserRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Save(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, int64, error)
	Delete(ctx context.Context, id uint) error
}
