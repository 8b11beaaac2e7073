// Package service contains the application's business logic, orchestrating the
// workflow engine, repositories, and cache invalidation.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/models"
	"newsdesk/internal/observability"
	"newsdesk/internal/repository"
	"newsdesk/internal/workflow"

	"gorm.io/gorm"
)

// NewsService owns the article lifecycle: creation, field updates, workflow
// transitions, the read-time status projection, and the eager sweep.
type NewsService struct {
	newsRepo repository.NewsRepository
	now      func() time.Time
	wfLog    *observability.WorkflowLogger
}

// CreateNewsInput carries the fields for a new draft.
type CreateNewsInput struct {
	Title         string
	Summary       string
	Content       string
	FeaturedImage string
	VideoURL      string
	CategoryID    uint
	CityID        *uint
	SourceID      *uint
}

// UpdateNewsInput carries a partial field update. Nil pointers leave the
// stored value untouched. Status changes go through Transition, never here.
type UpdateNewsInput struct {
	Title         *string
	Summary       *string
	Content       *string
	FeaturedImage *string
	VideoURL      *string
	CategoryID    *uint
	CityID        *uint
	SourceID      *uint
}

// NewNewsService creates a new NewsService. now may be nil, defaulting to
// time.Now; tests inject a fixed clock.
func NewNewsService(newsRepo repository.NewsRepository, now func() time.Time) *NewsService {
	if now == nil {
		now = time.Now
	}
	return &NewsService{
		newsRepo: newsRepo,
		now:      now,
		wfLog:    observability.NewWorkflowLogger("news"),
	}
}

func mapNewsError(err error, id uint) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError("News", id)
	case errors.Is(err, repository.ErrVersionConflict):
		return models.NewConflictError("News", id)
	}
	return err
}

// CreateNews creates a draft authored by the session user.
func (s *NewsService) CreateNews(ctx context.Context, sess workflow.Session, in CreateNewsInput) (*models.News, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.CategoryID == 0 {
		return nil, models.NewValidationError("Category is required")
	}

	news := &models.News{
		Title:         in.Title,
		Summary:       in.Summary,
		Content:       in.Content,
		FeaturedImage: in.FeaturedImage,
		VideoURL:      in.VideoURL,
		Status:        models.NewsStatusDraft,
		AuthorID:      sess.UserID,
		CategoryID:    in.CategoryID,
		CityID:        in.CityID,
		SourceID:      in.SourceID,
		Version:       1,
	}
	if err := s.newsRepo.Create(ctx, news); err != nil {
		return nil, err
	}

	cache.InvalidateNews(ctx, news.ID)
	return s.GetNews(ctx, news.ID, false)
}

// GetNews returns a single article with its effective status projected.
// trackView bumps the view counter (a plain read used by the dashboard does
// not).
func (s *NewsService) GetNews(ctx context.Context, id uint, trackView bool) (*models.News, error) {
	var news models.News
	err := cache.CacheAside(ctx, cache.NewsKey(id), &news, cache.NewsTTL, func() error {
		row, err := s.newsRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		news = *row
		return nil
	})
	if err != nil {
		return nil, mapNewsError(err, id)
	}

	if trackView {
		_ = s.newsRepo.IncrementViews(ctx, id)
		news.ViewCount++
	}

	// The projection is applied after the cache read: it depends on the
	// current time, so the cached row stays raw.
	news.Status = workflow.EffectiveStatus(&news, s.now())
	return &news, nil
}

// ListNews returns articles matching the filter, each with its effective
// status projected.
func (s *NewsService) ListNews(ctx context.Context, filter repository.NewsFilter) ([]*models.News, error) {
	filter.Now = s.now()
	rows, err := s.newsRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, n := range rows {
		n.Status = workflow.EffectiveStatus(n, filter.Now)
	}
	return rows, nil
}

// UpdateNews applies a partial field update. Writers may only touch their own
// articles; editors and admins may touch any.
func (s *NewsService) UpdateNews(ctx context.Context, sess workflow.Session, id uint, in UpdateNewsInput) (*models.News, error) {
	news, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNewsError(err, id)
	}
	if !sess.IsStaff() && news.AuthorID != sess.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own articles")
	}

	updates := map[string]any{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		updates["title"] = *in.Title
	}
	if in.Summary != nil {
		updates["summary"] = *in.Summary
	}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	if in.FeaturedImage != nil {
		updates["featured_image"] = *in.FeaturedImage
	}
	if in.VideoURL != nil {
		updates["video_url"] = *in.VideoURL
	}
	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			return nil, models.NewValidationError("Category is required")
		}
		updates["category_id"] = *in.CategoryID
	}
	if in.CityID != nil {
		updates["city_id"] = *in.CityID
	}
	if in.SourceID != nil {
		updates["source_id"] = *in.SourceID
	}
	if len(updates) == 0 {
		return nil, models.NewValidationError("No fields to update")
	}

	if err := s.newsRepo.UpdateFields(ctx, id, news.Version, updates); err != nil {
		return nil, mapNewsError(err, id)
	}

	cache.InvalidateNews(ctx, id)
	return s.GetNews(ctx, id, false)
}

// Transition validates and applies a status change. The workflow engine
// decides acceptance; the write is conditional on the version the row was
// loaded with, so a concurrent transition surfaces as a conflict instead of
// silently winning.
func (s *NewsService) Transition(ctx context.Context, sess workflow.Session, id uint, req workflow.NewsTransition) (*models.News, error) {
	news, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNewsError(err, id)
	}

	change, err := workflow.ValidateNewsTransition(sess, news, req, s.now())
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			observability.RecordTransition("news", appErr.Code)
			s.wfLog.LogRejected(ctx, id, string(req.Target), appErr.Code, sess.UserID)
		}
		return nil, err
	}

	updates := map[string]any{
		"status":     change.Status,
		"publish_at": change.PublishAt,
		"editor_id":  change.EditorID,
	}
	if err := s.newsRepo.UpdateFields(ctx, id, news.Version, updates); err != nil {
		return nil, mapNewsError(err, id)
	}

	observability.RecordTransition("news", "accepted")
	s.wfLog.LogTransition(ctx, id, string(news.Status), string(change.Status), sess.UserID)

	cache.InvalidateNews(ctx, id)
	return s.GetNews(ctx, id, false)
}

// DeleteNews removes an article. Terminal; editor or admin only.
func (s *NewsService) DeleteNews(ctx context.Context, sess workflow.Session, id uint) error {
	if !sess.IsStaff() {
		return models.NewUnauthorizedError("Only editors and admins can delete articles")
	}
	if err := s.newsRepo.Delete(ctx, id); err != nil {
		return mapNewsError(err, id)
	}
	cache.InvalidateNews(ctx, id)
	return nil
}

// SweepScheduled persists the published status for every scheduled article
// whose publish time has elapsed. Idempotent: re-running over the same rows
// writes nothing. Invoked by the cron sweeper and the admin endpoint.
func (s *NewsService) SweepScheduled(ctx context.Context) (int64, error) {
	swept, err := s.newsRepo.SweepScheduled(ctx, s.now())
	if err != nil {
		return 0, err
	}

	observability.SweepRunsTotal.Inc()
	if swept > 0 {
		observability.SweepPublishedTotal.Add(float64(swept))
		cache.InvalidateNewsFamily(ctx)
		observability.GlobalLogger.InfoContext(ctx, "scheduled publication sweep",
			"published", swept)
	}
	return swept, nil
}
