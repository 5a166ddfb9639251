package service

import (
	"MoeMemo/dao"
	"MoeMemo/models"
	"MoeMemo/pkg/response"
	"MoeMemo/pkg/snowflake"
	"MoeMemo/types"
	"context"
	"strings"
)

var _ ITagService = (*TagService)(nil)

type TagService struct {
	TagDAO     *dao.Tag
	NoteTagDAO *dao.NoteTag
}

type ITagService interface {
	List(ctx context.Context, viewer *types.Identity) ([]*types.TagWithCount, error)
	Hot(ctx context.Context, limit int) ([]*types.TagWithCount, error)
	Get(ctx context.Context, tagID uint64) (*models.Tag, error)
	Create(ctx context.Context, req *types.TagRequest) (*models.Tag, error)
	Update(ctx context.Context, tagID uint64, req *types.TagRequest) (*models.Tag, error)
	Delete(ctx context.Context, tagID uint64) error
}

// List 管理端标签列表，带文章计数。管理员看全量，普通用户的计数
// 只统计自己的笔记。
func (s *TagService) List(ctx context.Context, viewer *types.Identity) ([]*types.TagWithCount, error) {
	return s.TagDAO.ListWithCounts(ctx, managementOwner(viewer))
}

// Hot 公开的热门标签，只含已发布文章的计数
func (s *TagService) Hot(ctx context.Context, limit int) ([]*types.TagWithCount, error) {
	if limit <= 0 {
		limit = types.DefaultPopularLimit
	}
	return s.TagDAO.HotTags(ctx, limit)
}

func (s *TagService) Get(ctx context.Context, tagID uint64) (*models.Tag, error) {
	tag, err := s.TagDAO.FindByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, response.NewNotFound("标签不存在")
	}
	return tag, nil
}

func (s *TagService) Create(ctx context.Context, req *types.TagRequest) (*models.Tag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidation("标签名不能为空")
	}
	existing, err := s.TagDAO.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, response.NewConflict("标签已存在")
	}

	tag := &models.Tag{ID: snowflake.GenID(), Name: name}
	if err := s.TagDAO.CreateTag(ctx, tag); err != nil {
		if isDuplicateKey(err) {
			return nil, response.NewConflict("标签已存在")
		}
		return nil, err
	}
	return tag, nil
}

func (s *TagService) Update(ctx context.Context, tagID uint64, req *types.TagRequest) (*models.Tag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidation("标签名不能为空")
	}
	tag, err := s.TagDAO.FindByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, response.NewNotFound("标签不存在")
	}

	existing, err := s.TagDAO.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != tagID {
		return nil, response.NewConflict("标签已存在")
	}

	if err := s.TagDAO.UpdateName(ctx, tagID, name); err != nil {
		if isDuplicateKey(err) {
			return nil, response.NewConflict("标签已存在")
		}
		return nil, err
	}
	tag.Name = name
	return tag, nil
}

// Delete 仍被文章引用的标签不允许删除
func (s *TagService) Delete(ctx context.Context, tagID uint64) error {
	tag, err := s.TagDAO.FindByID(ctx, tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return response.NewNotFound("标签不存在")
	}
	used, err := s.NoteTagDAO.CountByTag(ctx, tagID)
	if err != nil {
		return err
	}
	if used > 0 {
		return response.NewValidation("标签仍被文章使用，无法删除")
	}
	return s.TagDAO.DeleteTag(ctx, tagID)
}
