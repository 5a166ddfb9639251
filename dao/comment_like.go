package dao

import (
	"MoeMemo/models"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

type CommentLike struct {
	Repo[models.CommentLike]
}

func NewCommentLike(db *gorm.DB) *CommentLike {
	return &CommentLike{
		Repo: NewRepo[models.CommentLike](db),
	}
}

// BatchCheckExists 批量检查点赞状态
func (d *CommentLike) BatchCheckExists(ctx context.Context, commentIDs []uint64, userID uint64) (map[uint64]bool, error) {
	result := make(map[uint64]bool)
	if len(commentIDs) == 0 {
		return result, nil
	}

	var likes []*models.CommentLike
	err := d.Db.WithContext(ctx).
		Where("comment_id IN ? AND user_id = ?", commentIDs, userID).
		Find(&likes).Error

	if err != nil {
		return nil, err
	}

	for _, like := range likes {
		result[like.CommentID] = true
	}

	return result, nil
}

// likeCountRow 批量点赞数统计的行
type likeCountRow struct {
	CommentID uint64
	Likes     int64
}

// CountByComments 批量统计点赞数，一次 GROUP BY 查询
func (d *CommentLike) CountByComments(ctx context.Context, commentIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64)
	if len(commentIDs) == 0 {
		return result, nil
	}

	var rows []likeCountRow
	err := d.Db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Select("comment_id, COUNT(*) AS likes").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.CommentID] = row.Likes
	}
	return result, nil
}

// DeleteByComments 删除一批评论的全部点赞记录，事务内级联清理用
func (d *CommentLike) DeleteByComments(tx *gorm.DB, commentIDs []uint64) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentLike{}).Error
}
