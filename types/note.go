package types

import "time"

// 笔记状态
const (
	NoteStatusDraft     = "draft"
	NoteStatusPublished = "published"
)

// 公开榜单的默认条数
const (
	DefaultRecentLimit  = 5
	DefaultPopularLimit = 10
	SlideLimit          = 10
)

// CreateNoteRequest 创建/更新笔记请求，字段名沿用前端约定
type CreateNoteRequest struct {
	Title      string   `json:"title" binding:"required"`
	Content    string   `json:"content"`
	TagIDs     []uint64 `json:"tagIds"`
	CoverImage string   `json:"coverImage"`
	IsSlide    bool     `json:"isSlide"`
	SlideOrder int      `json:"slideOrder"`
	Status     string   `json:"status"`
}

// TagBrief 笔记上挂载的标签
type TagBrief struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// NoteWithTags 带作者与标签的笔记
type NoteWithTags struct {
	ID         uint64     `json:"id"`
	UserID     uint64     `json:"user_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CoverImage string     `json:"cover_image"`
	IsSlide    bool       `json:"is_slide"`
	SlideOrder int        `json:"slide_order"`
	Status     string     `json:"status"`
	ViewCount  int64      `json:"view_count"`
	CreatedAt  time.Time  `json:"created_at"`
	Username   string     `json:"username"`
	Nickname   string     `json:"nickname"`
	Author     string     `json:"author"`
	Tags       []TagBrief `json:"tags"`
}

// BlogStats 博客统计信息
type BlogStats struct {
	Articles int64 `json:"articles"`
	Users    int64 `json:"users"`
	Tags     int64 `json:"tags"`
	Comments int64 `json:"comments"`
	Views    int64 `json:"views"`
}
