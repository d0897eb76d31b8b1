// Package repository provides a small generic gorm store for simple
// model-per-table modules.
package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository is a minimal typed data-access contract over one gorm model.
type Repository[T any] interface {
	Find(ctx context.Context, conds ...any) ([]T, error)
	FindPage(ctx context.Context, order string, limit, offset int, conds ...any) ([]T, error)
	FindOne(ctx context.Context, conds ...any) (*T, error)
	Create(ctx context.Context, entity *T) error
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, conds ...any) error
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore builds a Repository backed by the given connection.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) Find(ctx context.Context, conds ...any) ([]T, error) {
	var out []T
	if err := s.db.WithContext(ctx).Find(&out, conds...).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *store[T]) FindPage(ctx context.Context, order string, limit, offset int, conds ...any) ([]T, error) {
	var out []T
	tx := s.db.WithContext(ctx).Order(order).Limit(limit).Offset(offset)
	if err := tx.Find(&out, conds...).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *store[T]) FindOne(ctx context.Context, conds ...any) (*T, error) {
	var out T
	err := s.db.WithContext(ctx).First(&out, conds...).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *store[T]) Create(ctx context.Context, entity *T) error {
	return s.db.WithContext(ctx).Create(entity).Error
}

func (s *store[T]) Save(ctx context.Context, entity *T) error {
	return s.db.WithContext(ctx).Save(entity).Error
}

func (s *store[T]) Delete(ctx context.Context, conds ...any) error {
	var model T
	return s.db.WithContext(ctx).Delete(&model, conds...).Error
}
