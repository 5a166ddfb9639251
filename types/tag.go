package types

// TagRequest 创建/编辑标签请求
type TagRequest struct {
	Name string `json:"name" binding:"required"`
}

// TagWithCount 标签与关联文章数
type TagWithCount struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	ArticleCount int64  `json:"articleCount"`
}
