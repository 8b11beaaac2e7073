package server

import (
	"net/http"
	"testing"
	"time"

	"newsdesk/internal/models"
	"newsdesk/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerSweepPublishesElapsed(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	cat := seedCategory(t, db, "politics")

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	elapsed := seedNews(t, db, writer.ID, cat.ID, models.NewsStatusScheduled)
	require.NoError(t, db.Model(elapsed).Update("publish_at", past).Error)
	pending := seedNews(t, db, writer.ID, cat.ID, models.NewsStatusScheduled)
	require.NoError(t, db.Model(pending).Update("publish_at", future).Error)

	app := fiber.New()
	app.Post("/admin/sweep", withSession(workflow.Session{UserID: admin.ID, Role: admin.Role}), s.TriggerSweep)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/admin/sweep", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Published int64 `json:"published"`
	}
	decodeBody(t, resp, &result)
	assert.EqualValues(t, 1, result.Published)

	var stored models.News
	require.NoError(t, db.First(&stored, elapsed.ID).Error)
	assert.Equal(t, models.NewsStatusPublished, stored.Status)

	require.NoError(t, db.First(&stored, pending.ID).Error)
	assert.Equal(t, models.NewsStatusScheduled, stored.Status)

	// Re-running over the same rows publishes nothing.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/admin/sweep", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	assert.EqualValues(t, 0, result.Published)
}

func TestSetUserActive(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	writer := seedUser(t, db, "writer", models.RoleWriter)

	app := fiber.New()
	app.Patch("/admin/users/:id/active", withSession(workflow.Session{UserID: admin.ID, Role: admin.Role}), s.SetUserActive)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/admin/users/2/active", fiber.Map{
		"active": false,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.User
	require.NoError(t, db.First(&stored, writer.ID).Error)
	assert.False(t, stored.IsActive)

	// Admins cannot deactivate themselves.
	resp, err = app.Test(jsonRequest(t, http.MethodPatch, "/admin/users/1/active", fiber.Map{
		"active": false,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListUsersAdminOnly(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	editor := seedUser(t, db, "editor", models.RoleEditor)

	adminApp := fiber.New()
	adminApp.Get("/admin/users", withSession(workflow.Session{UserID: admin.ID, Role: admin.Role}), s.ListUsers)
	editorApp := fiber.New()
	editorApp.Get("/admin/users", withSession(workflow.Session{UserID: editor.ID, Role: editor.Role}), s.ListUsers)

	resp, err := adminApp.Test(httptestGet("/admin/users"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []models.User
	decodeBody(t, resp, &rows)
	assert.Len(t, rows, 2)

	resp, err = editorApp.Test(httptestGet("/admin/users"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetStatsSnapshot(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	cat := seedCategory(t, db, "politics")
	news := seedNews(t, db, writer.ID, cat.ID, models.NewsStatusPublished)
	seedComment(t, db, news.ID, models.CommentStatusPending, time.Now())

	app := fiber.New()
	app.Get("/stats", withSession(workflow.Session{UserID: writer.ID, Role: writer.Role}), s.GetStats)

	resp, err := app.Test(httptestGet("/stats"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		TotalNews       int64 `json:"total_news"`
		ActiveWriters   int64 `json:"active_writers"`
		PendingComments int64 `json:"pending_comments"`
	}
	decodeBody(t, resp, &stats)
	assert.EqualValues(t, 1, stats.TotalNews)
	assert.EqualValues(t, 1, stats.ActiveWriters)
	assert.EqualValues(t, 1, stats.PendingComments)
}
