package model

import "time"

type UserGroup string

const (
	GroupUser      UserGroup = "user"
	GroupModerator UserGroup = "moderator"
	GroupAdmin     UserGroup = "admin"
)

type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"column:hashed_password;type:varchar(255);not null" json:"-"`
	Group          UserGroup `gorm:"type:varchar(20);not null;default:'user'" json:"group"`
	IsActive       bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (u User) HasGroup(g UserGroup) bool {
	return u.Group == g
}
