package repository

import (
	"context"
	"time"

	"cinema/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	SetActive(ctx context.Context, userID int64, active bool) error
	UpdatePassword(ctx context.Context, userID int64, hashed string) error
}

// 有効化・リフレッシュトークンの永続化
type TokenRepository interface {
	CreateActivation(ctx context.Context, t model.ActivationToken) error
	FindActivation(ctx context.Context, token string) (model.ActivationToken, error)
	DeleteActivation(ctx context.Context, id int64) error
	DeleteExpiredActivations(ctx context.Context, now time.Time) (int64, error)

	CreateReset(ctx context.Context, t model.PasswordResetToken) error
	FindReset(ctx context.Context, token string) (model.PasswordResetToken, error)
	DeleteReset(ctx context.Context, id int64) error

	CreateRefresh(ctx context.Context, t model.RefreshToken) error
	FindRefresh(ctx context.Context, token string) (model.RefreshToken, error)
	DeleteRefresh(ctx context.Context, id int64) error
}
