package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repo 通用 DAO 基类，各实体 DAO 内嵌使用
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

// FindByID 按主键查询，不存在时返回 (nil, nil)
func (r Repo[T]) FindByID(ctx context.Context, id uint64) (*T, error) {
	var row T
	err := r.Db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByWhere 按条件查询单条
func (r Repo[T]) FindByWhere(ctx context.Context, query string, args ...any) (*T, error) {
	var row T
	err := r.Db.WithContext(ctx).Where(query, args...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// IsExist 按条件判断是否存在
func (r Repo[T]) IsExist(ctx context.Context, query string, args ...any) (bool, error) {
	var count int64
	err := r.Db.WithContext(ctx).Model(new(T)).Where(query, args...).Count(&count).Error
	return count > 0, err
}

// Transaction 事务
func (r Repo[T]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.Db.WithContext(ctx).Transaction(fn)
}
