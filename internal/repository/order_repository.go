package repository

import (
	"context"
	"time"

	"cinema/internal/domain/model"
)

// 管理者一覧の絞り込み
type AdminOrderListFilter struct {
	UserID *int64
	Date   *time.Time
	Status string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	// 重複チェックで使う
	ListPendingByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, error)
}

type OrderItemRepository interface {
	// 採番されたIDを返す（PaymentItem作成で使う）
	CreateBulk(ctx context.Context, items []model.OrderItem) ([]model.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
