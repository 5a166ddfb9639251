package models

import "time"

// Note 笔记表
type Note struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	UserID     uint64    `gorm:"column:user_id;not null;index:idx_notes_user_status" json:"user_id"`
	Title      string    `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Content    string    `gorm:"column:content;type:text" json:"content"`
	CoverImage string    `gorm:"column:cover_image;type:varchar(255);default:''" json:"cover_image"`
	IsSlide    bool      `gorm:"column:is_slide;not null;default:false;index:idx_notes_slide" json:"is_slide"`
	SlideOrder int       `gorm:"column:slide_order;not null;default:0" json:"slide_order"`
	Status     string    `gorm:"column:status;type:varchar(16);not null;default:'draft';index:idx_notes_user_status" json:"status"` // draft / published
	ViewCount  int64     `gorm:"column:view_count;not null;default:0" json:"view_count"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index:idx_notes_created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Note) TableName() string {
	return "notes"
}
