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

var _ IPageService = (*PageService)(nil)

type PageService struct {
	PageDAO *dao.PageDAO
}

type IPageService interface {
	ListPublished(ctx context.Context) ([]*models.Page, error)
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)
	ListAll(ctx context.Context, viewer *types.Identity) ([]*models.Page, error)
	Create(ctx context.Context, viewer *types.Identity, req *types.PageRequest) (*models.Page, error)
	Update(ctx context.Context, viewer *types.Identity, pageID uint64, req *types.PageRequest) (*models.Page, error)
	Delete(ctx context.Context, viewer *types.Identity, pageID uint64) error
}

func validPageStatus(status string) bool {
	switch status {
	case types.PageStatusDraft, types.PageStatusPublished, types.PageStatusHidden:
		return true
	}
	return false
}

// ListPublished 公开页面列表，按 sort_order 排序
func (s *PageService) ListPublished(ctx context.Context) ([]*models.Page, error) {
	return s.PageDAO.FindPublished(ctx)
}

// GetBySlug 公开读取单页，未发布视为不存在
func (s *PageService) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	page, err := s.PageDAO.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if page == nil || page.Status != types.PageStatusPublished {
		return nil, response.NewNotFound("页面不存在")
	}
	return page, nil
}

// ListAll 管理端列表：管理员全量，普通用户只看自己的
func (s *PageService) ListAll(ctx context.Context, viewer *types.Identity) ([]*models.Page, error) {
	return s.PageDAO.FindForManagement(ctx, managementOwner(viewer))
}

func (s *PageService) Create(ctx context.Context, viewer *types.Identity, req *types.PageRequest) (*models.Page, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return nil, response.NewValidation("slug 不能为空")
	}
	status := req.Status
	if status == "" {
		status = types.PageStatusDraft
	}
	if !validPageStatus(status) {
		return nil, response.NewValidation("无效的页面状态")
	}

	taken, err := s.PageDAO.IsExist(ctx, "slug = ?", slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, response.NewConflict("slug 已被使用")
	}

	page := &models.Page{
		ID:          snowflake.GenID(),
		UserID:      viewer.ID,
		Title:       req.Title,
		Slug:        slug,
		Content:     req.Content,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Status:      status,
		SortOrder:   req.SortOrder,
	}
	if err := s.PageDAO.Create(ctx, page); err != nil {
		if isDuplicateKey(err) {
			return nil, response.NewConflict("slug 已被使用")
		}
		return nil, err
	}
	return page, nil
}

func (s *PageService) Update(ctx context.Context, viewer *types.Identity, pageID uint64, req *types.PageRequest) (*models.Page, error) {
	page, err := s.PageDAO.FindByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, response.NewNotFound("页面不存在")
	}
	if !canModify(viewer, page.UserID) {
		return nil, response.NewForbidden("无权限修改此页面")
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return nil, response.NewValidation("slug 不能为空")
	}
	status := req.Status
	if status == "" {
		status = page.Status
	}
	if !validPageStatus(status) {
		return nil, response.NewValidation("无效的页面状态")
	}

	if slug != page.Slug {
		taken, err := s.PageDAO.IsExist(ctx, "slug = ?", slug)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, response.NewConflict("slug 已被使用")
		}
	}

	data := map[string]any{
		"title":       req.Title,
		"slug":        slug,
		"content":     req.Content,
		"description": req.Description,
		"cover_image": req.CoverImage,
		"status":      status,
		"sort_order":  req.SortOrder,
	}
	if err := s.PageDAO.Updates(ctx, pageID, data); err != nil {
		if isDuplicateKey(err) {
			return nil, response.NewConflict("slug 已被使用")
		}
		return nil, err
	}
	return s.PageDAO.FindByID(ctx, pageID)
}

func (s *PageService) Delete(ctx context.Context, viewer *types.Identity, pageID uint64) error {
	page, err := s.PageDAO.FindByID(ctx, pageID)
	if err != nil {
		return err
	}
	if page == nil {
		return response.NewNotFound("页面不存在")
	}
	if !canModify(viewer, page.UserID) {
		return response.NewForbidden("无权限删除此页面")
	}
	return s.PageDAO.Delete(ctx, pageID)
}
