package dao

import (
	"MoeMemo/models"
	"context"

	"gorm.io/gorm"
)

type Users struct {
	Repo[models.Users]
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{
		Repo: NewRepo[models.Users](db),
	}
}

// FindByIDs 批量查询用户，组装作者信息用
func (u *Users) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*models.Users, error) {
	result := make(map[uint64]*models.Users)
	if len(ids) == 0 {
		return result, nil
	}

	var users []*models.Users
	err := u.Db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		result[user.ID] = user
	}
	return result, nil
}

// Count 用户总数
func (u *Users) Count(ctx context.Context) (int64, error) {
	var count int64
	err := u.Db.WithContext(ctx).Model(&models.Users{}).Count(&count).Error
	return count, err
}
