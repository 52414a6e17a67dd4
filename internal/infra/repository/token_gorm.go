package repository

import (
	"context"
	"errors"
	"time"

	"cinema/internal/domain/model"
	repo "cinema/internal/repository"

	"gorm.io/gorm"
)

type TokenGormRepository struct {
	db *gorm.DB
}

// DI
func NewTokenGormRepository(db *gorm.DB) *TokenGormRepository {
	return &TokenGormRepository{db: db}
}

func (r *TokenGormRepository) CreateActivation(ctx context.Context, t model.ActivationToken) error {
	return r.db.WithContext(ctx).Create(&t).Error
}

func (r *TokenGormRepository) FindActivation(ctx context.Context, token string) (model.ActivationToken, error) {
	var t model.ActivationToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ActivationToken{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ActivationToken{}, err
	}
	return t, nil
}

func (r *TokenGormRepository) DeleteActivation(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ActivationToken{}, id).Error
}

// 期限切れトークンの定期削除
func (r *TokenGormRepository) DeleteExpiredActivations(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.ActivationToken{})
	return res.RowsAffected, res.Error
}

func (r *TokenGormRepository) CreateReset(ctx context.Context, t model.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(&t).Error
}

func (r *TokenGormRepository) FindReset(ctx context.Context, token string) (model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PasswordResetToken{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PasswordResetToken{}, err
	}
	return t, nil
}

func (r *TokenGormRepository) DeleteReset(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.PasswordResetToken{}, id).Error
}

func (r *TokenGormRepository) CreateRefresh(ctx context.Context, t model.RefreshToken) error {
	return r.db.WithContext(ctx).Create(&t).Error
}

func (r *TokenGormRepository) FindRefresh(ctx context.Context, token string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RefreshToken{}, repo.ErrNotFound
	}
	if err != nil {
		return model.RefreshToken{}, err
	}
	return t, nil
}

func (r *TokenGormRepository) DeleteRefresh(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.RefreshToken{}, id).Error
}
