package repository

import (
	"context"
	"time"

	"cinema/internal/domain/model"
)

type AdminPaymentListFilter struct {
	UserID *int64
	Date   *time.Time
	Status string
}

type PaymentRepository interface {
	FindByID(ctx context.Context, paymentID int64) (model.Payment, error)
	Create(ctx context.Context, p model.Payment) (int64, error)
	UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus) error
	SetExternalSessionID(ctx context.Context, paymentID int64, sessionID string) error
	// 同一注文への複数決済のうち最新を返す
	FindLatestByOrderID(ctx context.Context, orderID int64) (model.Payment, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Payment, error)
	ListAdmin(ctx context.Context, f AdminPaymentListFilter) ([]model.Payment, error)
}

type PaymentItemRepository interface {
	CreateBulk(ctx context.Context, items []model.PaymentItem) error
	ListByPaymentID(ctx context.Context, paymentID int64) ([]model.PaymentItem, error)
}
