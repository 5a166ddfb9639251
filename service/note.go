package service

import (
	"MoeMemo/dao"
	"MoeMemo/models"
	"MoeMemo/pkg/log"
	"MoeMemo/pkg/response"
	"MoeMemo/pkg/snowflake"
	"MoeMemo/types"
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	BlogStatsKey = "moememo:blog:stats"
	StatsTTL     = 60 * time.Second
)

var _ INoteService = (*NoteService)(nil)

type NoteService struct {
	NoteDAO    *dao.NoteDAO
	NoteTagDAO *dao.NoteTag
	TagDAO     *dao.Tag
	UsersDAO   *dao.Users
	CommentDAO *dao.Comment
	Redis      *redis.Client
}

type INoteService interface {
	List(ctx context.Context, viewer *types.Identity) ([]*types.NoteWithTags, error)
	Published(ctx context.Context) ([]*types.NoteWithTags, error)
	Search(ctx context.Context, keyword, tag string) ([]*types.NoteWithTags, error)
	Slides(ctx context.Context) ([]*types.NoteWithTags, error)
	SlidesAll(ctx context.Context, viewer *types.Identity) ([]*types.NoteWithTags, error)
	Recent(ctx context.Context, limit int) ([]*types.NoteWithTags, error)
	Popular(ctx context.Context, limit int) ([]*types.NoteWithTags, error)
	ByTag(ctx context.Context, tagID uint64) ([]*types.NoteWithTags, error)
	Get(ctx context.Context, noteID uint64, viewer *types.Identity) (*types.NoteWithTags, error)
	Create(ctx context.Context, viewer *types.Identity, req *types.CreateNoteRequest) (*types.NoteWithTags, error)
	Update(ctx context.Context, viewer *types.Identity, noteID uint64, req *types.CreateNoteRequest) error
	Delete(ctx context.Context, viewer *types.Identity, noteID uint64) error
	IncrementView(ctx context.Context, noteID uint64) error
	Stats(ctx context.Context) (*types.BlogStats, error)
}

// assemble 批量挂载作者与标签：两次 IN 查询，不做逐条回表
func (s *NoteService) assemble(ctx context.Context, notes []*models.Note) ([]*types.NoteWithTags, error) {
	result := make([]*types.NoteWithTags, 0, len(notes))
	if len(notes) == 0 {
		return result, nil
	}

	noteIDs := make([]uint64, 0, len(notes))
	userIDs := make([]uint64, 0, len(notes))
	for _, note := range notes {
		noteIDs = append(noteIDs, note.ID)
		userIDs = append(userIDs, note.UserID)
	}

	tagMap, err := s.NoteTagDAO.TagsForNotes(ctx, noteIDs)
	if err != nil {
		return nil, err
	}
	userMap, err := s.UsersDAO.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for _, note := range notes {
		item := &types.NoteWithTags{
			ID:         note.ID,
			UserID:     note.UserID,
			Title:      note.Title,
			Content:    note.Content,
			CoverImage: note.CoverImage,
			IsSlide:    note.IsSlide,
			SlideOrder: note.SlideOrder,
			Status:     note.Status,
			ViewCount:  note.ViewCount,
			CreatedAt:  note.CreatedAt,
			Tags:       make([]types.TagBrief, 0),
		}
		if tags, ok := tagMap[note.ID]; ok {
			item.Tags = tags
		}
		if user, ok := userMap[note.UserID]; ok {
			item.Username = user.Username
			item.Nickname = user.Nickname
			item.Author = user.DisplayName()
		}
		result = append(result, item)
	}
	return result, nil
}

// List 管理视图：管理员看全部，普通用户只看自己的笔记
func (s *NoteService) List(ctx context.Context, viewer *types.Identity) ([]*types.NoteWithTags, error) {
	notes, err := s.NoteDAO.FindForManagement(ctx, managementOwner(viewer))
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, notes)
}

func (s *NoteService) Published(ctx context.Context) ([]*types.NoteWithTags, error) {
	notes, err := s.NoteDAO.FindPublished(ctx)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, notes)
}

func (s *NoteService) Search(ctx context.Context, keyword, tag string) ([]*types.NoteWithTags, error) {
	notes, err := s.NoteDAO.Search(ctx, keyword, tag)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, notes)
}

// Slides 首页轮播，最多 10 条
func (s *NoteService) Slides(ctx context.Context) ([]*types.NoteWithTags, error) {
	notes, err := s.NoteDAO.FindSlides(ctx, types.SlideLimit)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, notes)
}

// SlidesAll 幻灯片管理列表，不设上限，归属过滤同管理视图
func (s *NoteService) SlidesAll(ctx context.Context, viewer *types.Identity) ([]*types.NoteWithTags, error) {
	notes, err := s.NoteDAO.FindSlidesForManagement(ctx, managementOwner(viewer))
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, notes)
}

func (s *NoteService) Recent(ctx context.Context, limit int) ([]*types.NoteWithTags, error) {
	if limit <= 0 {
		limit = types.DefaultRecentLimit
	}
	notes, err := s.NoteDAO.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, notes)
}

func (s *NoteService) Popular(ctx context.Context, limit int) ([]*types.NoteWithTags, error) {
	if limit <= 0 {
		limit = types.DefaultPopularLimit
	}
	notes, err := s.NoteDAO.FindPopular(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, notes)
}

func (s *NoteService) ByTag(ctx context.Context, tagID uint64) ([]*types.NoteWithTags, error) {
	notes, err := s.NoteDAO.FindPublishedByTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, notes)
}

// Get 单条笔记：已发布对所有人可见，草稿只对作者与管理员可见
func (s *NoteService) Get(ctx context.Context, noteID uint64, viewer *types.Identity) (*types.NoteWithTags, error) {
	note, err := s.NoteDAO.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, response.NewNotFound("笔记不存在")
	}
	if note.Status != types.NoteStatusPublished && !canModify(viewer, note.UserID) {
		return nil, response.NewNotFound("笔记不存在")
	}

	items, err := s.assemble(ctx, []*models.Note{note})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *NoteService) validate(req *types.CreateNoteRequest) error {
	if req.Title == "" {
		return response.NewValidation("标题必填")
	}
	if req.Status == "" {
		req.Status = types.NoteStatusDraft
	}
	if req.Status != types.NoteStatusDraft && req.Status != types.NoteStatusPublished {
		return response.NewValidation("笔记状态无效")
	}
	return nil
}

// checkTagIDs 校验标签全部存在，避免关联到幽灵标签
func (s *NoteService) checkTagIDs(ctx context.Context, tagIDs []uint64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	seen := make(map[uint64]struct{}, len(tagIDs))
	distinct := make([]uint64, 0, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	count, err := s.TagDAO.CountExisting(ctx, distinct)
	if err != nil {
		return err
	}
	if count != int64(len(distinct)) {
		return response.NewValidation("存在无效的标签")
	}
	return nil
}

// Create 创建笔记并关联标签，笔记与标签关联在同一事务内落库
func (s *NoteService) Create(ctx context.Context, viewer *types.Identity, req *types.CreateNoteRequest) (*types.NoteWithTags, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := s.checkTagIDs(ctx, req.TagIDs); err != nil {
		return nil, err
	}

	now := time.Now()
	note := &models.Note{
		ID:         snowflake.GenID(),
		UserID:     viewer.ID,
		Title:      req.Title,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		IsSlide:    req.IsSlide,
		SlideOrder: req.SlideOrder,
		Status:     req.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.NoteDAO.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(note).Error; err != nil {
			return err
		}
		return s.NoteTagDAO.ReplaceForNote(tx, note.ID, req.TagIDs)
	})
	if err != nil {
		return nil, err
	}

	items, err := s.assemble(ctx, []*models.Note{note})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// Update 整体替换笔记字段并重建标签关联，单事务保证不出现半更新
func (s *NoteService) Update(ctx context.Context, viewer *types.Identity, noteID uint64, req *types.CreateNoteRequest) error {
	note, err := s.NoteDAO.FindByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note == nil {
		return response.NewNotFound("笔记不存在")
	}
	if !canModify(viewer, note.UserID) {
		return response.NewForbidden("无权限修改此笔记")
	}
	if err := s.validate(req); err != nil {
		return err
	}
	if err := s.checkTagIDs(ctx, req.TagIDs); err != nil {
		return err
	}

	return s.NoteDAO.Transaction(ctx, func(tx *gorm.DB) error {
		updates := map[string]any{
			"title":       req.Title,
			"content":     req.Content,
			"cover_image": req.CoverImage,
			"is_slide":    req.IsSlide,
			"slide_order": req.SlideOrder,
			"status":      req.Status,
		}
		if err := tx.Model(&models.Note{}).Where("id = ?", noteID).Updates(updates).Error; err != nil {
			return err
		}
		return s.NoteTagDAO.ReplaceForNote(tx, noteID, req.TagIDs)
	})
}

// Delete 删除笔记及其标签关联，评论留存（外键策略见数据层）
func (s *NoteService) Delete(ctx context.Context, viewer *types.Identity, noteID uint64) error {
	note, err := s.NoteDAO.FindByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note == nil {
		return response.NewNotFound("笔记不存在")
	}
	if !canModify(viewer, note.UserID) {
		return response.NewForbidden("无权限删除此笔记")
	}

	return s.NoteDAO.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", noteID).Delete(&models.NoteTag{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", noteID).Delete(&models.Note{}).Error
	})
}

// IncrementView 阅读量 +1，匿名可调用
func (s *NoteService) IncrementView(ctx context.Context, noteID uint64) error {
	ok, err := s.NoteDAO.IncrementView(ctx, noteID)
	if err != nil {
		return err
	}
	if !ok {
		return response.NewNotFound("笔记不存在")
	}
	return nil
}

// Stats 博客统计，Redis 缓存 60 秒，缓存异常时直接落库查询
func (s *NoteService) Stats(ctx context.Context) (*types.BlogStats, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, BlogStatsKey).Bytes()
		if err == nil {
			var stats types.BlogStats
			if json.Unmarshal(cached, &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		payload, _ := json.Marshal(stats)
		if err := s.Redis.Set(ctx, BlogStatsKey, payload, StatsTTL).Err(); err != nil {
			log.L.Error("缓存统计信息失败", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *NoteService) computeStats(ctx context.Context) (*types.BlogStats, error) {
	stats := &types.BlogStats{}

	var err error
	if stats.Articles, err = s.NoteDAO.CountPublished(ctx); err != nil {
		return nil, err
	}
	if stats.Users, err = s.UsersDAO.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Tags, err = s.TagDAO.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Comments, err = s.CommentDAO.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Views, err = s.NoteDAO.SumPublishedViews(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
