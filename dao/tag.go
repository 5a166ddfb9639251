package dao

import (
	"MoeMemo/models"
	"MoeMemo/types"
	"context"
	"time"

	"gorm.io/gorm"
)

type Tag struct {
	Repo[models.Tag]
}

type NoteTag struct {
	Repo[models.NoteTag]
}

func NewTag(db *gorm.DB) *Tag {
	return &Tag{
		Repo: NewRepo[models.Tag](db),
	}
}

func NewNoteTag(db *gorm.DB) *NoteTag {
	return &NoteTag{
		Repo: NewRepo[models.NoteTag](db),
	}
}

// CreateTag 创建标签
func (d *Tag) CreateTag(ctx context.Context, tag *models.Tag) error {
	return d.Db.WithContext(ctx).Create(tag).Error
}

// FindByName 按名称精确查询，不存在返回 nil
func (d *Tag) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	return d.FindByWhere(ctx, "name = ?", name)
}

// CountExisting 统计给定 ID 中真实存在的标签数，校验关联合法性用
func (d *Tag) CountExisting(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := d.Db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("id IN ?", ids).
		Count(&count).Error
	return count, err
}

// UpdateName 修改标签名
func (d *Tag) UpdateName(ctx context.Context, tagID uint64, name string) error {
	return d.Db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("id = ?", tagID).
		Update("name", name).Error
}

// DeleteTag 删除标签
func (d *Tag) DeleteTag(ctx context.Context, tagID uint64) error {
	return d.Db.WithContext(ctx).Where("id = ?", tagID).Delete(&models.Tag{}).Error
}

// Count 标签总数
func (d *Tag) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.Db.WithContext(ctx).Model(&models.Tag{}).Count(&count).Error
	return count, err
}

// ListWithCounts 标签及其关联文章数，ownerID 为 0 时统计全部笔记
func (d *Tag) ListWithCounts(ctx context.Context, ownerID uint64) ([]*types.TagWithCount, error) {
	var rows []*types.TagWithCount
	query := d.Db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.id, tags.name, COUNT(note_tags.note_id) AS article_count").
		Joins("LEFT JOIN note_tags ON tags.id = note_tags.tag_id")

	if ownerID > 0 {
		query = query.
			Joins("LEFT JOIN notes ON note_tags.note_id = notes.id").
			Where("notes.user_id = ? OR note_tags.note_id IS NULL", ownerID)
	}

	err := query.
		Group("tags.id, tags.name").
		Order("tags.id DESC").
		Scan(&rows).Error
	return rows, err
}

// HotTags 按关联文章数排序的热门标签，只含有文章的标签
func (d *Tag) HotTags(ctx context.Context, limit int) ([]*types.TagWithCount, error) {
	var rows []*types.TagWithCount
	err := d.Db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.id, tags.name, COUNT(note_tags.note_id) AS article_count").
		Joins("LEFT JOIN note_tags ON tags.id = note_tags.tag_id").
		Group("tags.id, tags.name").
		Having("COUNT(note_tags.note_id) > 0").
		Order("article_count DESC, tags.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// NoteTagRow 批量标签查询的行
type NoteTagRow struct {
	NoteID uint64
	TagID  uint64
	Name   string
}

// TagsForNotes 一次性取出一批笔记的全部标签
func (d *NoteTag) TagsForNotes(ctx context.Context, noteIDs []uint64) (map[uint64][]types.TagBrief, error) {
	result := make(map[uint64][]types.TagBrief)
	if len(noteIDs) == 0 {
		return result, nil
	}

	var rows []NoteTagRow
	err := d.Db.WithContext(ctx).
		Model(&models.NoteTag{}).
		Select("note_tags.note_id, tags.id AS tag_id, tags.name").
		Joins("JOIN tags ON note_tags.tag_id = tags.id").
		Where("note_tags.note_id IN ?", noteIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.NoteID] = append(result[row.NoteID], types.TagBrief{ID: row.TagID, Name: row.Name})
	}
	return result, nil
}

// ReplaceForNote 在给定事务内整体替换笔记的标签集合，先删后插，输入去重
func (d *NoteTag) ReplaceForNote(tx *gorm.DB, noteID uint64, tagIDs []uint64) error {
	if err := tx.Where("note_id = ?", noteID).Delete(&models.NoteTag{}).Error; err != nil {
		return err
	}

	seen := make(map[uint64]struct{}, len(tagIDs))
	rows := make([]*models.NoteTag, 0, len(tagIDs))
	now := time.Now()
	for _, tagID := range tagIDs {
		if _, ok := seen[tagID]; ok {
			continue
		}
		seen[tagID] = struct{}{}
		rows = append(rows, &models.NoteTag{NoteID: noteID, TagID: tagID, CreatedAt: now})
	}

	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// CountByTag 某标签的关联笔记数，删除保护用
func (d *NoteTag) CountByTag(ctx context.Context, tagID uint64) (int64, error) {
	var count int64
	err := d.Db.WithContext(ctx).
		Model(&models.NoteTag{}).
		Where("tag_id = ?", tagID).
		Count(&count).Error
	return count, err
}
