package repository

import (
	"context"
	"errors"

	"cinema/internal/domain/model"
	repo "cinema/internal/repository"

	"gorm.io/gorm"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

// DI
func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) FindByID(ctx context.Context, paymentID int64) (model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).Where("id = ?", paymentID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Payment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

func (r *PaymentGormRepository) Create(ctx context.Context, p model.Payment) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *PaymentGormRepository) UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", paymentID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PaymentGormRepository) SetExternalSessionID(ctx context.Context, paymentID int64, sessionID string) error {
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", paymentID).
		Update("external_session_id", sessionID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PaymentGormRepository) FindLatestByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id desc").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Payment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

func (r *PaymentGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Payment, error) {
	var items []model.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.Payment{}, err
	}
	return items, nil
}

func (r *PaymentGormRepository) ListAdmin(ctx context.Context, f repo.AdminPaymentListFilter) ([]model.Payment, error) {
	q := r.db.WithContext(ctx).Model(&model.Payment{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Date != nil {
		q = q.Where("DATE(created_at) = DATE(?)", *f.Date)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var items []model.Payment
	if err := q.Order("id desc").Find(&items).Error; err != nil {
		return []model.Payment{}, err
	}
	return items, nil
}

type PaymentItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewPaymentItemGormRepository(db *gorm.DB) *PaymentItemGormRepository {
	return &PaymentItemGormRepository{db: db}
}

func (r *PaymentItemGormRepository) CreateBulk(ctx context.Context, items []model.PaymentItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *PaymentItemGormRepository) ListByPaymentID(ctx context.Context, paymentID int64) ([]model.PaymentItem, error) {
	var items []model.PaymentItem
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.PaymentItem{}, err
	}
	return items, nil
}
