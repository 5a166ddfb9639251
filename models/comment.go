package models

import "time"

// Comment 评论表，parent_id 为空表示顶级评论
type Comment struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	ArticleID uint64    `gorm:"column:article_id;not null;index:idx_comments_article" json:"article_id"`
	UserID    uint64    `gorm:"column:user_id;not null;index:idx_comments_user" json:"user_id"`
	ParentID  *uint64   `gorm:"column:parent_id;index:idx_comments_parent" json:"parent_id,omitempty"`
	Content   string    `gorm:"column:content;type:varchar(500);not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentLike 评论点赞表
type CommentLike struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	CommentID uint64    `gorm:"index:idx_comment_user,unique" json:"comment_id"`
	UserID    uint64    `gorm:"index:idx_comment_user,unique" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
