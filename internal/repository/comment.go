package repository

import (
	"context"

	"newsdesk/internal/models"

	"gorm.io/gorm"
)

// CommentFilter narrows moderation-queue queries.
type CommentFilter struct {
	Status models.CommentStatus // empty means all
	NewsID uint                 // 0 means all
	Limit  int
	Offset int
}

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	// List returns comments oldest-first so the moderation queue is FIFO.
	List(ctx context.Context, filter CommentFilter) ([]*models.Comment, error)
	// UpdateStatus applies a moderation decision conditional on version.
	UpdateStatus(ctx context.Context, id uint, version int64, status models.CommentStatus) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context, filter CommentFilter) ([]*models.Comment, error) {
	q := r.db.WithContext(ctx).Order("created_at asc")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.NewsID != 0 {
		q = q.Where("news_id = ?", filter.NewsID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var comments []*models.Comment
	err := q.Find(&comments).Error
	return comments, err
}

func (r *commentRepository) UpdateStatus(ctx context.Context, id uint, version int64, status models.CommentStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]any{
			"status":  status,
			"version": version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrVersionConflict
	}
	return nil
}
