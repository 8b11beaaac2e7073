package service

import (
	"context"

	"newsdesk/internal/cache"
	"newsdesk/internal/models"

	"gorm.io/gorm"
)

// Stats is the derived dashboard snapshot. It is never persisted; every
// value is recomputed from current store contents on demand.
type Stats struct {
	TotalNews       int64 `json:"total_news"`
	ActiveWriters   int64 `json:"active_writers"`
	PendingComments int64 `json:"pending_comments"`
	TodayViews      int64 `json:"today_views"`
}

// ViewsProvider supplies the external analytics counter. The real provider
// lives outside this service's scope.
type ViewsProvider interface {
	TodayViews(ctx context.Context) (int64, error)
}

type noViews struct{}

func (noViews) TodayViews(context.Context) (int64, error) { return 0, nil }

// StatsService computes the aggregation snapshot directly over the store.
type StatsService struct {
	db    *gorm.DB
	views ViewsProvider
}

// NewStatsService returns a new StatsService. views may be nil; the counter
// then reads zero.
func NewStatsService(db *gorm.DB, views ViewsProvider) *StatsService {
	if views == nil {
		views = noViews{}
	}
	return &StatsService{db: db, views: views}
}

// Snapshot recomputes the stats. The result sits behind the generic cache
// and is dropped by every news or comment mutation, so a read after a
// workflow transition always reflects the new counts.
func (s *StatsService) Snapshot(ctx context.Context) (*Stats, error) {
	var stats Stats
	err := cache.CacheAside(ctx, cache.StatsKey, &stats, cache.StatsTTL, func() error {
		return s.compute(ctx, &stats)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *StatsService) compute(ctx context.Context, stats *Stats) error {
	if err := s.db.WithContext(ctx).
		Model(&models.News{}).
		Count(&stats.TotalNews).Error; err != nil {
		return err
	}

	// Distinct active writers/editors who authored at least one article.
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN news ON news.author_id = users.id AND news.deleted_at IS NULL").
		Where("users.is_active = ? AND users.role IN ?", true, []models.Role{models.RoleWriter, models.RoleEditor}).
		Distinct("users.id").
		Count(&stats.ActiveWriters).Error; err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("status = ?", models.CommentStatusPending).
		Count(&stats.PendingComments).Error; err != nil {
		return err
	}

	views, err := s.views.TodayViews(ctx)
	if err != nil {
		// Analytics being down must not break the dashboard.
		views = 0
	}
	stats.TodayViews = views

	return nil
}
