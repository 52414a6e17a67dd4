package model

import "time"

// 1ユーザーにつきカートは1つ
type Cart struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 同じ映画は1カートに1明細まで
type CartItem struct {
	ID      int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID  int64     `gorm:"not null;uniqueIndex:uq_cart_movie,priority:1" json:"cart_id"`
	MovieID int64     `gorm:"not null;uniqueIndex:uq_cart_movie,priority:2" json:"movie_id"`
	AddedAt time.Time `gorm:"not null;autoCreateTime" json:"added_at"`
}
