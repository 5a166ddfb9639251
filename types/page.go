package types

import "time"

// 页面状态
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
	PageStatusHidden    = "hidden"
)

// PageRequest 创建/更新页面请求
type PageRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Content     string `json:"content"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
	Status      string `json:"status"`
	SortOrder   int    `json:"sortOrder"`
}

// PageResponse 页面响应
type PageResponse struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	CoverImage  string    `json:"cover_image"`
	Status      string    `json:"status"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
