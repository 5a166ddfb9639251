package dao

import (
	"MoeMemo/models"
	"context"

	"gorm.io/gorm"
)

type Comment struct {
	Repo[models.Comment]
}

func NewComment(db *gorm.DB) *Comment {
	return &Comment{
		Repo: NewRepo[models.Comment](db),
	}
}

func (d *Comment) Create(ctx context.Context, comment *models.Comment) error {
	return d.Db.WithContext(ctx).Create(comment).Error
}

// FindByArticle 取出文章的全部评论，按发表时间正序
func (d *Comment) FindByArticle(ctx context.Context, articleID uint64) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := d.Db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// FindByParentIDs 取出一批评论的直接回复，按发表时间正序
func (d *Comment) FindByParentIDs(ctx context.Context, parentIDs []uint64) ([]*models.Comment, error) {
	if len(parentIDs) == 0 {
		return []*models.Comment{}, nil
	}
	var replies []*models.Comment
	err := d.Db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	return replies, err
}

// Count 评论总数
func (d *Comment) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.Db.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error
	return count, err
}

// FindByIDsList 按主键批量查询，返回 id → 评论
func (d *Comment) FindByIDsList(ctx context.Context, ids []uint64) (map[uint64]*models.Comment, error) {
	result := make(map[uint64]*models.Comment, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var comments []*models.Comment
	err := d.Db.WithContext(ctx).Where("id IN ?", ids).Find(&comments).Error
	if err != nil {
		return nil, err
	}
	for _, comment := range comments {
		result[comment.ID] = comment
	}
	return result, nil
}
