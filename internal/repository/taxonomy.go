package repository

import (
	"context"

	"gorm.io/gorm"
)

// TaxonomyRepository provides CRUD over a flat reference entity (Category,
// City, Source). The type parameter keeps one implementation for all three.
type TaxonomyRepository[T any] interface {
	Create(ctx context.Context, row *T) error
	GetByID(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context) ([]*T, error)
	Update(ctx context.Context, row *T) error
	Delete(ctx context.Context, id uint) error
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
}

type taxonomyRepository[T any] struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a TaxonomyRepository for the given model type.
func NewTaxonomyRepository[T any](db *gorm.DB) TaxonomyRepository[T] {
	return &taxonomyRepository[T]{db: db}
}

func (r *taxonomyRepository[T]) Create(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *taxonomyRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *taxonomyRepository[T]) List(ctx context.Context) ([]*T, error) {
	var rows []*T
	err := r.db.WithContext(ctx).Order("name asc").Find(&rows).Error
	return rows, err
}

func (r *taxonomyRepository[T]) Update(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *taxonomyRepository[T]) Delete(ctx context.Context, id uint) error {
	var row T
	res := r.db.WithContext(ctx).Delete(&row, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taxonomyRepository[T]) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	var row T
	q := r.db.WithContext(ctx).Model(&row).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
