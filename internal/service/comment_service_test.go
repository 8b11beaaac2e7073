package service

import (
	"context"
	"strings"
	"testing"

	"newsdesk/internal/models"
	"newsdesk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	listFn         func(context.Context, repository.CommentFilter) ([]*models.Comment, error)
	updateStatusFn func(context.Context, uint, int64, models.CommentStatus) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) List(ctx context.Context, f repository.CommentFilter) ([]*models.Comment, error) {
	return s.listFn(ctx, f)
}
func (s *commentRepoStub) UpdateStatus(ctx context.Context, id uint, version int64, status models.CommentStatus) error {
	return s.updateStatusFn(ctx, id, version, status)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error { c.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, Status: models.CommentStatusPending, Version: 1}, nil
		},
		listFn:         func(_ context.Context, _ repository.CommentFilter) ([]*models.Comment, error) { return nil, nil },
		updateStatusFn: func(_ context.Context, _ uint, _ int64, _ models.CommentStatus) error { return nil },
	}
}

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("always starts pending", func(t *testing.T) {
		t.Parallel()
		var stored *models.Comment
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 10
			stored = c
			return nil
		}
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) { return stored, nil }

		svc := NewCommentService(commentRepo, noopNewsRepo())
		got, err := svc.CreateComment(ctx, CreateCommentInput{NewsID: 1, AuthorName: "reader", Content: "nice"})
		require.NoError(t, err)
		assert.Equal(t, models.CommentStatusPending, got.Status)
	})

	t.Run("empty author name", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopNewsRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{NewsID: 1, Content: "hi"})
		assertAppErrCode(t, err, models.CodeValidation)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopNewsRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{NewsID: 1, AuthorName: "reader"})
		assertAppErrCode(t, err, models.CodeValidation)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopNewsRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			NewsID:     1,
			AuthorName: "reader",
			Content:    strings.Repeat("x", maxCommentLen+1),
		})
		assertAppErrCode(t, err, models.CodeValidation)
	})
}

func TestCommentService_Moderate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("moderation decision is written conditionally", func(t *testing.T) {
		t.Parallel()
		var gotVersion int64
		var gotStatus models.CommentStatus
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, Status: models.CommentStatusPending, Version: 2}, nil
		}
		commentRepo.updateStatusFn = func(_ context.Context, _ uint, version int64, status models.CommentStatus) error {
			gotVersion = version
			gotStatus = status
			return nil
		}

		svc := NewCommentService(commentRepo, noopNewsRepo())
		_, err := svc.Moderate(ctx, editorSess, 1, models.CommentStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, int64(2), gotVersion)
		assert.Equal(t, models.CommentStatusApproved, gotStatus)
	})

	t.Run("writer role never reaches the store", func(t *testing.T) {
		t.Parallel()
		writes := 0
		commentRepo := noopCommentRepo()
		commentRepo.updateStatusFn = func(_ context.Context, _ uint, _ int64, _ models.CommentStatus) error {
			writes++
			return nil
		}

		svc := NewCommentService(commentRepo, noopNewsRepo())
		_, err := svc.Moderate(ctx, writerSess, 1, models.CommentStatusApproved)
		assertAppErrCode(t, err, models.CodeForbiddenTransition)
		assert.Zero(t, writes)
	})

	t.Run("approved back to pending rejected", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, Status: models.CommentStatusApproved, Version: 1}, nil
		}
		svc := NewCommentService(commentRepo, noopNewsRepo())
		_, err := svc.Moderate(ctx, editorSess, 1, models.CommentStatusPending)
		assertAppErrCode(t, err, models.CodeInvalidTransition)
	})

	t.Run("reversal is allowed", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, Status: models.CommentStatusApproved, Version: 1}, nil
		}
		svc := NewCommentService(commentRepo, noopNewsRepo())
		_, err := svc.Moderate(ctx, editorSess, 1, models.CommentStatusRejected)
		assert.NoError(t, err)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.updateStatusFn = func(_ context.Context, _ uint, _ int64, _ models.CommentStatus) error {
			return repository.ErrVersionConflict
		}
		svc := NewCommentService(commentRepo, noopNewsRepo())
		_, err := svc.Moderate(ctx, editorSess, 1, models.CommentStatusApproved)
		assertAppErrCode(t, err, models.CodeConflict)
	})
}

func TestCommentService_Queue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("paginated queue bypasses the cache and hits the store", func(t *testing.T) {
		t.Parallel()
		var gotFilter repository.CommentFilter
		commentRepo := noopCommentRepo()
		commentRepo.listFn = func(_ context.Context, f repository.CommentFilter) ([]*models.Comment, error) {
			gotFilter = f
			return []*models.Comment{{ID: 1}}, nil
		}

		svc := NewCommentService(commentRepo, noopNewsRepo())
		rows, err := svc.Queue(ctx, repository.CommentFilter{Status: models.CommentStatusPending, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, models.CommentStatusPending, gotFilter.Status)
	})
}
