package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusSuccessful PaymentStatus = "successful"
	PaymentStatusCanceled   PaymentStatus = "canceled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// order_id はuniqueではない。決済のやり直しで同一注文に複数行が出来る。
type Payment struct {
	ID                int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            int64         `gorm:"not null;index" json:"user_id"`
	OrderID           int64         `gorm:"not null;index" json:"order_id"`
	Status            PaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Amount            float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	ExternalSessionID string        `gorm:"type:varchar(255)" json:"external_session_id"`
	CreatedAt         time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type PaymentItem struct {
	ID             int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID      int64   `gorm:"not null;index" json:"payment_id"`
	OrderItemID    int64   `gorm:"not null;index" json:"order_item_id"`
	PriceAtPayment float64 `gorm:"type:decimal(10,2);not null" json:"price_at_payment"`
}
