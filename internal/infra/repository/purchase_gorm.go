package repository

import (
	"context"

	"cinema/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseGormRepository struct {
	db *gorm.DB
}

// DI
func NewPurchaseGormRepository(db *gorm.DB) *PurchaseGormRepository {
	return &PurchaseGormRepository{db: db}
}

func (r *PurchaseGormRepository) Exists(ctx context.Context, userID int64, movieID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// unique制約に衝突した行はスキップ。successコールバック再送対策。
func (r *PurchaseGormRepository) CreateBulkIgnoreDuplicates(ctx context.Context, purchases []model.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&purchases).Error
}

func (r *PurchaseGormRepository) DeleteByUserAndMovieIDs(ctx context.Context, userID int64, movieIDs []int64) error {
	if len(movieIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id IN ?", userID, movieIDs).
		Delete(&model.Purchase{}).Error
}

func (r *PurchaseGormRepository) ExistsByMovieID(ctx context.Context, movieID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("movie_id = ?", movieID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PurchaseGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Purchase, error) {
	var items []model.Purchase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Purchase{}, err
	}
	return items, nil
}
