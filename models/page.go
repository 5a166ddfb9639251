package models

import "time"

// Page 独立页面表
type Page struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	UserID      uint64    `gorm:"column:user_id;not null;index:idx_pages_user" json:"user_id"`
	Title       string    `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Slug        string    `gorm:"column:slug;type:varchar(128);uniqueIndex:uk_pages_slug;not null" json:"slug"`
	Content     string    `gorm:"column:content;type:text" json:"content"`
	Description string    `gorm:"column:description;type:varchar(255);default:''" json:"description"`
	CoverImage  string    `gorm:"column:cover_image;type:varchar(255);default:''" json:"cover_image"`
	Status      string    `gorm:"column:status;type:varchar(16);not null;default:'draft'" json:"status"` // draft / published / hidden
	SortOrder   int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Page) TableName() string {
	return "pages"
}
