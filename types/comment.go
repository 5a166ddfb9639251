package types

import "time"

// 评论正文长度上限（按字符数）
const CommentMaxLen = 500

// CreateCommentRequest 发表评论请求，parent_id 省略时为顶级评论
type CreateCommentRequest struct {
	ArticleID uint64  `json:"article_id" binding:"required"`
	Content   string  `json:"content" binding:"required"`
	ParentID  *uint64 `json:"parent_id"`
}

// CommentNode 评论树节点
type CommentNode struct {
	ID             uint64         `json:"id"`
	ArticleID      uint64         `json:"article_id"`
	UserID         uint64         `json:"user_id"`
	ParentID       *uint64        `json:"parent_id,omitempty"`
	Content        string         `json:"content"`
	CreatedAt      time.Time      `json:"created_at"`
	UserName       string         `json:"user_name"`
	UserAvatar     string         `json:"user_avatar"`
	Likes          int64          `json:"likes"`
	IsLiked        bool           `json:"is_liked"`
	ParentUserName string         `json:"parent_user_name,omitempty"`
	Replies        []*CommentNode `json:"replies"`
}

// CommentDetail 评论详情：原评论 + 两层内的全部回复（平铺）
type CommentDetail struct {
	Comment    *CommentNode   `json:"comment"`
	AllReplies []*CommentNode `json:"allReplies"`
}

// LikeToggleResponse 点赞开关结果
type LikeToggleResponse struct {
	IsLiked bool  `json:"is_liked"`
	Likes   int64 `json:"likes"`
}
