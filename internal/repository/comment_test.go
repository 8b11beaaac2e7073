package repository

import (
	"context"
	"testing"
	"time"

	"newsdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNewsWithComments(t *testing.T) (CommentRepository, uint) {
	t.Helper()
	db := setupTestDB(t)
	author, cat := seedAuthorAndCategory(t, db)
	n := newDraft(author, cat)
	require.NoError(t, db.Create(n).Error)

	repo := NewCommentRepository(db)
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"first", "second", "third"} {
		c := &models.Comment{
			AuthorName: name,
			Content:    "comment " + name,
			NewsID:     n.ID,
			Status:     models.CommentStatusPending,
			Version:    1,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(c).Error)
	}
	return repo, n.ID
}

func TestCommentRepository_QueueIsOldestFirst(t *testing.T) {
	repo, newsID := seedNewsWithComments(t)
	ctx := context.Background()

	queue, err := repo.List(ctx, CommentFilter{Status: models.CommentStatusPending, NewsID: newsID})
	require.NoError(t, err)
	require.Len(t, queue, 3)
	assert.Equal(t, "first", queue[0].AuthorName)
	assert.Equal(t, "third", queue[2].AuthorName)
	assert.True(t, queue[0].CreatedAt.Before(queue[1].CreatedAt))
}

func TestCommentRepository_UpdateStatus(t *testing.T) {
	repo, newsID := seedNewsWithComments(t)
	ctx := context.Background()

	queue, err := repo.List(ctx, CommentFilter{NewsID: newsID})
	require.NoError(t, err)
	target := queue[0]

	require.NoError(t, repo.UpdateStatus(ctx, target.ID, target.Version, models.CommentStatusApproved))

	got, err := repo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusApproved, got.Status)
	assert.Equal(t, target.Version+1, got.Version)

	t.Run("stale version conflicts", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, target.ID, target.Version, models.CommentStatusRejected)
		assert.ErrorIs(t, err, ErrVersionConflict)

		unchanged, err := repo.GetByID(ctx, target.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CommentStatusApproved, unchanged.Status)
	})

	t.Run("status filter excludes moderated comment", func(t *testing.T) {
		pending, err := repo.List(ctx, CommentFilter{Status: models.CommentStatusPending, NewsID: newsID})
		require.NoError(t, err)
		assert.Len(t, pending, 2)
	})
}
