package service

import (
	"MoeMemo/dao"
	"MoeMemo/models"
	"MoeMemo/pkg/response"
	"MoeMemo/pkg/snowflake"
	"MoeMemo/types"
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

var _ ICommentsService = (*CommentsService)(nil)

type CommentsService struct {
	CommentDAO     *dao.Comment
	CommentLikeDAO *dao.CommentLike
	NoteDAO        *dao.NoteDAO
	UsersDAO       *dao.Users
}

type ICommentsService interface {
	GetTree(ctx context.Context, articleID uint64, viewer *types.Identity) ([]*types.CommentNode, error)
	GetDetail(ctx context.Context, commentID uint64, viewer *types.Identity) (*types.CommentDetail, error)
	Create(ctx context.Context, viewer *types.Identity, req *types.CreateCommentRequest) (*types.CommentNode, error)
	ToggleLike(ctx context.Context, viewer *types.Identity, commentID uint64) (*types.LikeToggleResponse, error)
	Delete(ctx context.Context, viewer *types.Identity, commentID uint64) error
}

// decorate 为一批评论批量挂载作者、点赞数、当前用户点赞态与父评论作者名。
// 关联数据各走一次 IN 查询。
func (s *CommentsService) decorate(ctx context.Context, comments []*models.Comment, viewer *types.Identity) (map[uint64]*types.CommentNode, error) {
	nodes := make(map[uint64]*types.CommentNode, len(comments))
	if len(comments) == 0 {
		return nodes, nil
	}

	commentIDs := make([]uint64, 0, len(comments))
	userIDs := make([]uint64, 0, len(comments))
	byID := make(map[uint64]*models.Comment, len(comments))
	for _, comment := range comments {
		commentIDs = append(commentIDs, comment.ID)
		userIDs = append(userIDs, comment.UserID)
		byID[comment.ID] = comment
	}

	likeCounts, err := s.CommentLikeDAO.CountByComments(ctx, commentIDs)
	if err != nil {
		return nil, err
	}

	likedSet := make(map[uint64]bool)
	if viewer != nil {
		likedSet, err = s.CommentLikeDAO.BatchCheckExists(ctx, commentIDs, viewer.ID)
		if err != nil {
			return nil, err
		}
	}

	// 父评论可能不在本批里（详情页只取两层），作者名需要补查
	parentUserIDs := make([]uint64, 0)
	parentByChild := make(map[uint64]uint64)
	missingParents := make([]uint64, 0)
	for _, comment := range comments {
		if comment.ParentID == nil {
			continue
		}
		if parent, ok := byID[*comment.ParentID]; ok {
			parentByChild[comment.ID] = parent.UserID
			parentUserIDs = append(parentUserIDs, parent.UserID)
		} else {
			missingParents = append(missingParents, *comment.ParentID)
		}
	}
	if len(missingParents) > 0 {
		parents, err := s.CommentDAO.FindByIDsList(ctx, missingParents)
		if err != nil {
			return nil, err
		}
		for _, comment := range comments {
			if comment.ParentID == nil {
				continue
			}
			if parent, ok := parents[*comment.ParentID]; ok {
				parentByChild[comment.ID] = parent.UserID
				parentUserIDs = append(parentUserIDs, parent.UserID)
			}
		}
	}

	userMap, err := s.UsersDAO.FindByIDs(ctx, append(userIDs, parentUserIDs...))
	if err != nil {
		return nil, err
	}

	for _, comment := range comments {
		node := &types.CommentNode{
			ID:        comment.ID,
			ArticleID: comment.ArticleID,
			UserID:    comment.UserID,
			ParentID:  comment.ParentID,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
			Likes:     likeCounts[comment.ID],
			IsLiked:   likedSet[comment.ID],
			Replies:   make([]*types.CommentNode, 0),
		}
		if user, ok := userMap[comment.UserID]; ok {
			node.UserName = user.Username
			node.UserAvatar = user.Avatar
		}
		if parentUserID, ok := parentByChild[comment.ID]; ok {
			if parentUser, exists := userMap[parentUserID]; exists {
				node.ParentUserName = parentUser.Username
			}
		}
		nodes[comment.ID] = node
	}
	return nodes, nil
}

// GetTree 文章的嵌套评论树。一次取平坦结果集，内存里按 parent_id
// 建索引再自顶向下物化，访问过的节点打标防止坏数据成环。
func (s *CommentsService) GetTree(ctx context.Context, articleID uint64, viewer *types.Identity) ([]*types.CommentNode, error) {
	comments, err := s.CommentDAO.FindByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	nodes, err := s.decorate(ctx, comments, viewer)
	if err != nil {
		return nil, err
	}

	children := make(map[uint64][]*models.Comment)
	roots := make([]*models.Comment, 0)
	byID := make(map[uint64]*models.Comment, len(comments))
	for _, comment := range comments {
		byID[comment.ID] = comment
	}
	for _, comment := range comments {
		if comment.ParentID == nil {
			roots = append(roots, comment)
			continue
		}
		if _, ok := byID[*comment.ParentID]; !ok {
			// 父评论不在本文下（数据损坏），按顶级处理而不是丢弃
			roots = append(roots, comment)
			continue
		}
		children[*comment.ParentID] = append(children[*comment.ParentID], comment)
	}

	visited := make(map[uint64]bool, len(comments))
	var build func(comment *models.Comment) *types.CommentNode
	build = func(comment *models.Comment) *types.CommentNode {
		visited[comment.ID] = true
		node := nodes[comment.ID]
		for _, child := range children[comment.ID] {
			if visited[child.ID] {
				continue
			}
			node.Replies = append(node.Replies, build(child))
		}
		return node
	}

	tree := make([]*types.CommentNode, 0, len(roots))
	for _, root := range roots {
		if visited[root.ID] {
			continue
		}
		tree = append(tree, build(root))
	}
	// parent_id 互指成环时没有任何根，剩余节点按顶级兜底输出
	for _, comment := range comments {
		if !visited[comment.ID] {
			tree = append(tree, build(comment))
		}
	}
	return tree, nil
}

// GetDetail 评论详情：原评论 + 两层以内的全部回复平铺（直接回复与
// 直接回复的回复），不继续向下展开，时间正序。
func (s *CommentsService) GetDetail(ctx context.Context, commentID uint64, viewer *types.Identity) (*types.CommentDetail, error) {
	comment, err := s.CommentDAO.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, response.NewNotFound("评论不存在")
	}

	direct, err := s.CommentDAO.FindByParentIDs(ctx, []uint64{commentID})
	if err != nil {
		return nil, err
	}

	directIDs := make([]uint64, 0, len(direct))
	for _, reply := range direct {
		directIDs = append(directIDs, reply.ID)
	}
	grand, err := s.CommentDAO.FindByParentIDs(ctx, directIDs)
	if err != nil {
		return nil, err
	}

	replies := make([]*models.Comment, 0, len(direct)+len(grand))
	replies = append(replies, direct...)
	replies = append(replies, grand...)
	sort.SliceStable(replies, func(i, j int) bool {
		if replies[i].CreatedAt.Equal(replies[j].CreatedAt) {
			return replies[i].ID < replies[j].ID
		}
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})

	all := append([]*models.Comment{comment}, replies...)
	nodes, err := s.decorate(ctx, all, viewer)
	if err != nil {
		return nil, err
	}

	flat := make([]*types.CommentNode, 0, len(replies))
	for _, reply := range replies {
		flat = append(flat, nodes[reply.ID])
	}

	return &types.CommentDetail{
		Comment:    nodes[comment.ID],
		AllReplies: flat,
	}, nil
}

// Create 发表评论。校验顺序：正文 → 文章 → 父评论 → 父子同文。
func (s *CommentsService) Create(ctx context.Context, viewer *types.Identity, req *types.CreateCommentRequest) (*types.CommentNode, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, response.NewValidation("留言内容不能为空")
	}
	if utf8.RuneCountInString(content) > types.CommentMaxLen {
		return nil, response.NewValidation("留言内容不能超过500字符")
	}

	article, err := s.NoteDAO.FindByID(ctx, req.ArticleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, response.NewNotFound("文章不存在")
	}

	if req.ParentID != nil {
		parent, err := s.CommentDAO.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, response.NewNotFound("回复的评论不存在")
		}
		if parent.ArticleID != req.ArticleID {
			return nil, response.NewValidation("回复的评论不属于该文章")
		}
	}

	comment := &models.Comment{
		ID:        snowflake.GenID(),
		ArticleID: req.ArticleID,
		UserID:    viewer.ID,
		ParentID:  req.ParentID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.CommentDAO.Create(ctx, comment); err != nil {
		return nil, err
	}

	nodes, err := s.decorate(ctx, []*models.Comment{comment}, viewer)
	if err != nil {
		return nil, err
	}
	return nodes[comment.ID], nil
}

// isDuplicateKey 唯一键冲突（MySQL / SQLite 文案不同）
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// ToggleLike 点赞开关。存在即删（取消），否则插入；并发重复插入
// 由 (user_id, comment_id) 唯一键兜底，冲突按「已点赞」处理。
func (s *CommentsService) ToggleLike(ctx context.Context, viewer *types.Identity, commentID uint64) (*types.LikeToggleResponse, error) {
	comment, err := s.CommentDAO.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, response.NewNotFound("留言不存在")
	}

	liked := false
	var count int64
	err = s.CommentDAO.Transaction(ctx, func(tx *gorm.DB) error {
		result := tx.Where("comment_id = ? AND user_id = ?", commentID, viewer.ID).
			Delete(&models.CommentLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			like := &models.CommentLike{
				CommentID: commentID,
				UserID:    viewer.ID,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(like).Error; err != nil && !isDuplicateKey(err) {
				return err
			}
			liked = true
		}

		// 计数和开关同一事务，返回的 likes 与 is_liked 一定对应同一时刻
		return tx.Model(&models.CommentLike{}).
			Where("comment_id = ?", commentID).
			Count(&count).Error
	})
	if err != nil {
		return nil, err
	}
	return &types.LikeToggleResponse{IsLiked: liked, Likes: count}, nil
}

// Delete 删除评论：作者或管理员。整棵回复子树与相关点赞在同一
// 事务内一并删除，不留悬空的 parent_id。
func (s *CommentsService) Delete(ctx context.Context, viewer *types.Identity, commentID uint64) error {
	comment, err := s.CommentDAO.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return response.NewNotFound("留言不存在")
	}
	if !canModify(viewer, comment.UserID) {
		return response.NewForbidden("无权限删除此留言")
	}

	// 逐层收集子树，收集过的节点跳过，parent_id 成环也能收敛
	toDelete := []uint64{commentID}
	seen := map[uint64]bool{commentID: true}
	frontier := []uint64{commentID}
	for len(frontier) > 0 {
		replies, err := s.CommentDAO.FindByParentIDs(ctx, frontier)
		if err != nil {
			return err
		}
		frontier = frontier[:0]
		for _, reply := range replies {
			if seen[reply.ID] {
				continue
			}
			seen[reply.ID] = true
			toDelete = append(toDelete, reply.ID)
			frontier = append(frontier, reply.ID)
		}
	}

	return s.CommentDAO.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.CommentLikeDAO.DeleteByComments(tx, toDelete); err != nil {
			return err
		}
		return tx.Where("id IN ?", toDelete).Delete(&models.Comment{}).Error
	})
}
