package service

import (
	"context"
	"testing"
	"time"

	"newsdesk/internal/database"
	"newsdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func statsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

type fixedViews int64

func (v fixedViews) TodayViews(context.Context) (int64, error) { return int64(v), nil }

func TestStatsService_Snapshot(t *testing.T) {
	db := statsTestDB(t)
	ctx := context.Background()

	writer := models.User{Username: "w", Email: "w@x", Password: "p", Role: models.RoleWriter, IsActive: true}
	idleWriter := models.User{Username: "idle", Email: "i@x", Password: "p", Role: models.RoleWriter, IsActive: true}
	inactiveEditor := models.User{Username: "gone", Email: "g@x", Password: "p", Role: models.RoleEditor, IsActive: false}
	adminUser := models.User{Username: "a", Email: "a@x", Password: "p", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&writer).Error)
	require.NoError(t, db.Create(&idleWriter).Error)
	require.NoError(t, db.Create(&inactiveEditor).Error)
	require.NoError(t, db.Create(&adminUser).Error)

	cat := models.Category{Name: "World", Slug: "world"}
	require.NoError(t, db.Create(&cat).Error)

	mkNews := func(author uint) models.News {
		return models.News{Title: "t", Content: "c", Status: models.NewsStatusDraft, AuthorID: author, CategoryID: cat.ID, Version: 1}
	}
	n1 := mkNews(writer.ID)
	n2 := mkNews(inactiveEditor.ID)
	n3 := mkNews(adminUser.ID)
	require.NoError(t, db.Create(&n1).Error)
	require.NoError(t, db.Create(&n2).Error)
	require.NoError(t, db.Create(&n3).Error)

	for _, st := range []models.CommentStatus{models.CommentStatusPending, models.CommentStatusPending, models.CommentStatusApproved} {
		c := models.Comment{AuthorName: "r", Content: "c", NewsID: n1.ID, Status: st, Version: 1, CreatedAt: time.Now()}
		require.NoError(t, db.Create(&c).Error)
	}

	svc := NewStatsService(db, fixedViews(123))
	stats, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalNews)
	// Only the active writer counts: the idle writer authored nothing, the
	// editor is deactivated, and admins are excluded by role.
	assert.Equal(t, int64(1), stats.ActiveWriters)
	assert.Equal(t, int64(2), stats.PendingComments)
	assert.Equal(t, int64(123), stats.TodayViews)
}

func TestStatsService_PendingCountTracksModeration(t *testing.T) {
	db := statsTestDB(t)
	ctx := context.Background()

	writer := models.User{Username: "w", Email: "w@x", Password: "p", Role: models.RoleWriter, IsActive: true}
	require.NoError(t, db.Create(&writer).Error)
	cat := models.Category{Name: "World", Slug: "world"}
	require.NoError(t, db.Create(&cat).Error)
	n := models.News{Title: "t", Content: "c", Status: models.NewsStatusDraft, AuthorID: writer.ID, CategoryID: cat.ID, Version: 1}
	require.NoError(t, db.Create(&n).Error)
	c := models.Comment{AuthorName: "r", Content: "c", NewsID: n.ID, Status: models.CommentStatusPending, Version: 1}
	require.NoError(t, db.Create(&c).Error)

	svc := NewStatsService(db, nil)
	stats, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PendingComments)

	require.NoError(t, db.Model(&models.Comment{}).Where("id = ?", c.ID).Update("status", models.CommentStatusApproved).Error)

	// No redis client in these tests, so every snapshot recomputes.
	stats, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.PendingComments)
	assert.Equal(t, int64(0), stats.TodayViews)
}
