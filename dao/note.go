package dao

import (
	"MoeMemo/models"
	"MoeMemo/types"
	"context"

	"gorm.io/gorm"
)

type NoteDAO struct {
	Repo[models.Note]
}

func NewNoteDAO(db *gorm.DB) *NoteDAO {
	return &NoteDAO{Repo: NewRepo[models.Note](db)}
}

// Create 创建笔记
func (d *NoteDAO) Create(ctx context.Context, note *models.Note) error {
	return d.Db.WithContext(ctx).Create(note).Error
}

// FindForManagement 管理视图列表，ownerID 为 0 时不过滤归属（管理员）
func (d *NoteDAO) FindForManagement(ctx context.Context, ownerID uint64) ([]*models.Note, error) {
	var notes []*models.Note
	query := d.Db.WithContext(ctx)
	if ownerID > 0 {
		query = query.Where("user_id = ?", ownerID)
	}
	err := query.
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}

// FindPublished 已发布笔记，公开主页用
func (d *NoteDAO) FindPublished(ctx context.Context) ([]*models.Note, error) {
	var notes []*models.Note
	err := d.Db.WithContext(ctx).
		Where("status = ?", types.NoteStatusPublished).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}

// Search 公开搜索：标题/正文关键字 与 标签名 模糊匹配可叠加，只含已发布
func (d *NoteDAO) Search(ctx context.Context, keyword, tag string) ([]*models.Note, error) {
	var notes []*models.Note
	query := d.Db.WithContext(ctx).
		Model(&models.Note{}).
		Distinct("notes.*").
		Where("notes.status = ?", types.NoteStatusPublished)

	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("notes.title LIKE ? OR notes.content LIKE ?", like, like)
	}
	if tag != "" {
		query = query.
			Joins("LEFT JOIN note_tags ON notes.id = note_tags.note_id").
			Joins("LEFT JOIN tags ON note_tags.tag_id = tags.id").
			Where("tags.name LIKE ?", "%"+tag+"%")
	}

	err := query.
		Order("notes.created_at DESC").
		Find(&notes).Error
	return notes, err
}

// FindSlides 首页轮播：已发布的幻灯片笔记，按展示序排列
func (d *NoteDAO) FindSlides(ctx context.Context, limit int) ([]*models.Note, error) {
	var notes []*models.Note
	query := d.Db.WithContext(ctx).
		Where("is_slide = ? AND status = ?", true, types.NoteStatusPublished).
		Order("slide_order ASC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&notes).Error
	return notes, err
}

// FindSlidesForManagement 幻灯片管理列表，不限状态，ownerID 为 0 时不过滤
func (d *NoteDAO) FindSlidesForManagement(ctx context.Context, ownerID uint64) ([]*models.Note, error) {
	var notes []*models.Note
	query := d.Db.WithContext(ctx).Where("is_slide = ?", true)
	if ownerID > 0 {
		query = query.Where("user_id = ?", ownerID)
	}
	err := query.
		Order("slide_order ASC, created_at DESC").
		Find(&notes).Error
	return notes, err
}

// FindRecent 最新已发布笔记
func (d *NoteDAO) FindRecent(ctx context.Context, limit int) ([]*models.Note, error) {
	var notes []*models.Note
	err := d.Db.WithContext(ctx).
		Where("status = ?", types.NoteStatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Find(&notes).Error
	return notes, err
}

// FindPopular 热门已发布笔记，按阅读量排序
func (d *NoteDAO) FindPopular(ctx context.Context, limit int) ([]*models.Note, error) {
	var notes []*models.Note
	err := d.Db.WithContext(ctx).
		Where("status = ?", types.NoteStatusPublished).
		Order("view_count DESC, created_at DESC").
		Limit(limit).
		Find(&notes).Error
	return notes, err
}

// FindPublishedByTag 某标签下的已发布笔记
func (d *NoteDAO) FindPublishedByTag(ctx context.Context, tagID uint64) ([]*models.Note, error) {
	var notes []*models.Note
	err := d.Db.WithContext(ctx).
		Joins("JOIN note_tags ON notes.id = note_tags.note_id").
		Where("note_tags.tag_id = ? AND notes.status = ?", tagID, types.NoteStatusPublished).
		Order("notes.created_at DESC").
		Find(&notes).Error
	return notes, err
}

// IncrementView 阅读量 +1，返回是否命中
func (d *NoteDAO) IncrementView(ctx context.Context, noteID uint64) (bool, error) {
	result := d.Db.WithContext(ctx).
		Model(&models.Note{}).
		Where("id = ?", noteID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	return result.RowsAffected > 0, result.Error
}

// CountPublished 已发布笔记数
func (d *NoteDAO) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := d.Db.WithContext(ctx).
		Model(&models.Note{}).
		Where("status = ?", types.NoteStatusPublished).
		Count(&count).Error
	return count, err
}

// SumPublishedViews 已发布笔记的总阅读量
func (d *NoteDAO) SumPublishedViews(ctx context.Context) (int64, error) {
	var total int64
	err := d.Db.WithContext(ctx).
		Model(&models.Note{}).
		Where("status = ?", types.NoteStatusPublished).
		Select("COALESCE(SUM(view_count), 0)").
		Scan(&total).Error
	return total, err
}
