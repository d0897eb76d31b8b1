package repository

import (
	"context"

	"github.com/smallbiznis/loanhub/internal/audit/domain"
	"gorm.io/gorm"
)

const defaultListLimit = 50

type repositoryImpl struct{}

// Provide constructs the gorm-backed audit repository.
func Provide() domain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.AuditLog, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	q := db.WithContext(ctx).Model(&domain.AuditLog{})
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		q = q.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != "" {
		q = q.Where("target_id = ?", filter.TargetID)
	}
	if filter.ActorType != "" {
		q = q.Where("actor_type = ?", filter.ActorType)
	}
	if filter.StartAt != nil {
		q = q.Where("created_at >= ?", *filter.StartAt)
	}
	if filter.EndAt != nil {
		q = q.Where("created_at < ?", *filter.EndAt)
	}
	if filter.Cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", filter.Cursor.CreatedAt, filter.Cursor.ID)
	}

	var entries []*domain.AuditLog
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
