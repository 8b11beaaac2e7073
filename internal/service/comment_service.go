package service

import (
	"context"
	"errors"
	"strings"

	"newsdesk/internal/cache"
	"newsdesk/internal/models"
	"newsdesk/internal/observability"
	"newsdesk/internal/repository"
	"newsdesk/internal/workflow"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

// CommentService owns reader comments: public submission and the moderation
// workflow.
type CommentService struct {
	commentRepo repository.CommentRepository
	newsRepo    repository.NewsRepository
	wfLog       *observability.WorkflowLogger
}

// CreateCommentInput carries a public comment submission.
type CreateCommentInput struct {
	NewsID     uint
	AuthorName string
	Content    string
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, newsRepo repository.NewsRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		newsRepo:    newsRepo,
		wfLog:       observability.NewWorkflowLogger("comment"),
	}
}

func mapCommentError(err error, id uint) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError("Comment", id)
	case errors.Is(err, repository.ErrVersionConflict):
		return models.NewConflictError("Comment", id)
	}
	return err
}

// CreateComment stores a new reader comment. Every comment starts pending;
// there is no way to create one in any other state.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.newsRepo.GetByID(ctx, in.NewsID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("News", in.NewsID)
		}
		return nil, err
	}

	if strings.TrimSpace(in.AuthorName) == "" {
		return nil, models.NewValidationError("Author name is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		AuthorName: in.AuthorName,
		Content:    in.Content,
		NewsID:     in.NewsID,
		Status:     models.CommentStatusPending,
		Version:    1,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	cache.InvalidateComments(ctx, in.NewsID)
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// Queue returns the moderation queue, oldest-first. The unpaginated
// whole-status view is cached; paginated or per-article views go straight to
// the store.
func (s *CommentService) Queue(ctx context.Context, filter repository.CommentFilter) ([]*models.Comment, error) {
	cacheable := filter.NewsID == 0 && filter.Offset == 0 && filter.Limit == 0
	if !cacheable {
		return s.commentRepo.List(ctx, filter)
	}

	status := "all"
	if filter.Status != "" {
		status = string(filter.Status)
	}
	var comments []*models.Comment
	err := cache.CacheAside(ctx, cache.CommentQueueKey(status), &comments, cache.QueueTTL, func() error {
		rows, err := s.commentRepo.List(ctx, filter)
		if err != nil {
			return err
		}
		comments = rows
		return nil
	})
	return comments, err
}

// ListVisible returns the approved comments shown under a published article.
func (s *CommentService) ListVisible(ctx context.Context, newsID uint) ([]*models.Comment, error) {
	if _, err := s.newsRepo.GetByID(ctx, newsID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("News", newsID)
		}
		return nil, err
	}
	return s.commentRepo.List(ctx, repository.CommentFilter{
		NewsID: newsID,
		Status: models.CommentStatusApproved,
	})
}

// Moderate applies a moderation decision. The workflow engine enforces the
// legal edges and the staff-only rule; the write is conditional on the
// loaded version.
func (s *CommentService) Moderate(ctx context.Context, sess workflow.Session, id uint, target models.CommentStatus) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCommentError(err, id)
	}

	if err := workflow.ValidateCommentTransition(sess, comment, target); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			observability.RecordTransition("comment", appErr.Code)
			s.wfLog.LogRejected(ctx, id, string(target), appErr.Code, sess.UserID)
		}
		return nil, err
	}

	if err := s.commentRepo.UpdateStatus(ctx, id, comment.Version, target); err != nil {
		return nil, mapCommentError(err, id)
	}

	observability.RecordTransition("comment", "accepted")
	s.wfLog.LogTransition(ctx, id, string(comment.Status), string(target), sess.UserID)

	cache.InvalidateComments(ctx, comment.NewsID)
	return s.commentRepo.GetByID(ctx, id)
}
