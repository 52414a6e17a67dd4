package model

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusCanceled OrderStatus = "canceled"
)

type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// price_at_order は作成後不変。カタログの値上げ値下げに影響されない。
type OrderItem struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64     `gorm:"not null;index" json:"order_id"`
	MovieID      int64     `gorm:"not null;index" json:"movie_id"`
	PriceAtOrder float64   `gorm:"type:decimal(10,2);not null" json:"price_at_order"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
