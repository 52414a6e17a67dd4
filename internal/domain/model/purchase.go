package model

import "time"

// 追記専用の所有権台帳。行があれば永続アクセス権を持つ。
// 返金時のみ削除される。
type Purchase struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_movie,priority:1" json:"user_id"`
	MovieID   int64     `gorm:"not null;uniqueIndex:uq_user_movie,priority:2" json:"movie_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
