package models

import "time"

// Users 用户表
type Users struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Username     string     `gorm:"column:username;type:varchar(64);uniqueIndex:uk_users_username;not null" json:"username"`
	Email        string     `gorm:"column:email;type:varchar(128);uniqueIndex:uk_users_email;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(128);not null" json:"-"`
	Nickname     string     `gorm:"column:nickname;type:varchar(64);default:''" json:"nickname"`
	Avatar       string     `gorm:"column:avatar;type:varchar(255);default:''" json:"avatar"`
	Bio          string     `gorm:"column:bio;type:varchar(255);default:''" json:"bio"`
	Role         string     `gorm:"column:role;type:varchar(16);default:'subscriber'" json:"role"`   // subscriber / admin
	Status       string     `gorm:"column:status;type:varchar(16);default:'active'" json:"status"`   // active / disabled
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
}

func (Users) TableName() string {
	return "users"
}

// DisplayName 昵称优先，为空时退回用户名
func (u *Users) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}
