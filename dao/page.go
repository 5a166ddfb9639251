package dao

import (
	"MoeMemo/models"
	"MoeMemo/types"
	"context"

	"gorm.io/gorm"
)

type PageDAO struct {
	Repo[models.Page]
}

func NewPageDAO(db *gorm.DB) *PageDAO {
	return &PageDAO{Repo: NewRepo[models.Page](db)}
}

// Create 创建页面
func (d *PageDAO) Create(ctx context.Context, page *models.Page) error {
	return d.Db.WithContext(ctx).Create(page).Error
}

// FindBySlug 按 slug 查询，不存在返回 nil
func (d *PageDAO) FindBySlug(ctx context.Context, slug string) (*models.Page, error) {
	return d.FindByWhere(ctx, "slug = ?", slug)
}

// FindForManagement 管理列表，ownerID 为 0 时不过滤归属
func (d *PageDAO) FindForManagement(ctx context.Context, ownerID uint64) ([]*models.Page, error) {
	var pages []*models.Page
	query := d.Db.WithContext(ctx)
	if ownerID > 0 {
		query = query.Where("user_id = ?", ownerID)
	}
	err := query.
		Order("sort_order ASC, created_at DESC").
		Find(&pages).Error
	return pages, err
}

// FindPublished 已发布页面，公开导航用
func (d *PageDAO) FindPublished(ctx context.Context) ([]*models.Page, error) {
	var pages []*models.Page
	err := d.Db.WithContext(ctx).
		Where("status = ?", types.PageStatusPublished).
		Order("sort_order ASC, created_at DESC").
		Find(&pages).Error
	return pages, err
}

// Updates 更新页面字段
func (d *PageDAO) Updates(ctx context.Context, pageID uint64, data map[string]any) error {
	return d.Db.WithContext(ctx).
		Model(&models.Page{}).
		Where("id = ?", pageID).
		Updates(data).Error
}

// Delete 删除页面
func (d *PageDAO) Delete(ctx context.Context, pageID uint64) error {
	return d.Db.WithContext(ctx).Where("id = ?", pageID).Delete(&models.Page{}).Error
}
