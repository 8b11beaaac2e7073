// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"newsdesk/internal/models"

	"gorm.io/gorm"
)

// ErrVersionConflict is returned when a conditional write misses because the
// row's version changed since the caller's read.
var ErrVersionConflict = errors.New("version conflict")

// NewsFilter narrows List queries. When Now is set, status filtering uses the
// effective status: a published filter includes scheduled rows whose publish
// time has elapsed, and a scheduled filter excludes them.
type NewsFilter struct {
	Status   models.NewsStatus // empty means all
	AuthorID uint              // 0 means all
	Now      time.Time
	Limit    int
	Offset   int
}

// NewsRepository defines interface for news operations
type NewsRepository interface {
	Create(ctx context.Context, news *models.News) error
	GetByID(ctx context.Context, id uint) (*models.News, error)
	List(ctx context.Context, filter NewsFilter) ([]*models.News, error)
	// UpdateFields applies updates only if the stored version still equals
	// version, bumping the counter as part of the same write. Returns
	// ErrVersionConflict when the conditional write misses.
	UpdateFields(ctx context.Context, id uint, version int64, updates map[string]any) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	// SweepScheduled publishes every scheduled row whose publish time has
	// elapsed and returns the number of rows written. Idempotent.
	SweepScheduled(ctx context.Context, now time.Time) (int64, error)
}

type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository creates a new NewsRepository
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) Create(ctx context.Context, news *models.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

func (r *newsRepository) GetByID(ctx context.Context, id uint) (*models.News, error) {
	var news models.News
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Editor").
		Preload("Category").
		Preload("City").
		Preload("Source").
		First(&news, id).Error
	if err != nil {
		return nil, err
	}
	return &news, nil
}

func (r *newsRepository) List(ctx context.Context, filter NewsFilter) ([]*models.News, error) {
	q := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Order("created_at desc")

	switch {
	case filter.Status == "":
	case filter.Status == models.NewsStatusPublished && !filter.Now.IsZero():
		q = q.Where("status = ? OR (status = ? AND publish_at IS NOT NULL AND publish_at <= ?)",
			models.NewsStatusPublished, models.NewsStatusScheduled, filter.Now)
	case filter.Status == models.NewsStatusScheduled && !filter.Now.IsZero():
		q = q.Where("status = ? AND (publish_at IS NULL OR publish_at > ?)",
			models.NewsStatusScheduled, filter.Now)
	default:
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AuthorID != 0 {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var rows []*models.News
	err := q.Find(&rows).Error
	return rows, err
}

func (r *newsRepository) UpdateFields(ctx context.Context, id uint, version int64, updates map[string]any) error {
	patch := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		patch[k] = v
	}
	patch["version"] = version + 1

	res := r.db.WithContext(ctx).
		Model(&models.News{}).
		Where("id = ? AND version = ?", id, version).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.News{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (r *newsRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.News{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *newsRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.News{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *newsRepository) SweepScheduled(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.News{}).
		Where("status = ? AND publish_at IS NOT NULL AND publish_at <= ?", models.NewsStatusScheduled, now).
		Updates(map[string]any{
			"status":  models.NewsStatusPublished,
			"version": gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}
