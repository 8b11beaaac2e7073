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

func TestCreateNewsStartsDraft(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	cat := seedCategory(t, db, "politics")

	app := fiber.New()
	app.Post("/news", withSession(workflow.Session{UserID: writer.ID, Role: writer.Role}), s.CreateNews)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/news", fiber.Map{
		"title":       "Breaking",
		"content":     "Something happened",
		"category_id": cat.ID,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.News
	decodeBody(t, resp, &created)
	assert.Equal(t, models.NewsStatusDraft, created.Status)
	assert.Equal(t, writer.ID, created.AuthorID)
	assert.EqualValues(t, 1, created.Version)
}

func TestCreateNewsRejectsMissingTitle(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	cat := seedCategory(t, db, "politics")

	app := fiber.New()
	app.Post("/news", withSession(workflow.Session{UserID: writer.ID, Role: writer.Role}), s.CreateNews)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/news", fiber.Map{
		"content":     "No title",
		"category_id": cat.ID,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPatchNewsTransitionFlow(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	editor := seedUser(t, db, "editor", models.RoleEditor)
	cat := seedCategory(t, db, "politics")
	news := seedNews(t, db, writer.ID, cat.ID, models.NewsStatusDraft)

	writerApp := fiber.New()
	writerApp.Patch("/news/:id", withSession(workflow.Session{UserID: writer.ID, Role: writer.Role}), s.PatchNews)
	editorApp := fiber.New()
	editorApp.Patch("/news/:id", withSession(workflow.Session{UserID: editor.ID, Role: editor.Role}), s.PatchNews)

	// Writer submits their own draft for review.
	resp, err := writerApp.Test(jsonRequest(t, http.MethodPatch, "/news/1", fiber.Map{
		"status": "review",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Writer may not publish.
	resp, err = writerApp.Test(jsonRequest(t, http.MethodPatch, "/news/1", fiber.Map{
		"status": "published",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Editor publishes and is recorded as the editor.
	resp, err = editorApp.Test(jsonRequest(t, http.MethodPatch, "/news/1", fiber.Map{
		"status": "published",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.News
	require.NoError(t, db.First(&stored, news.ID).Error)
	assert.Equal(t, models.NewsStatusPublished, stored.Status)
	require.NotNil(t, stored.EditorID)
	assert.Equal(t, editor.ID, *stored.EditorID)
	assert.EqualValues(t, 3, stored.Version)
}

func TestPatchNewsRejectsMixedBody(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	cat := seedCategory(t, db, "politics")
	seedNews(t, db, writer.ID, cat.ID, models.NewsStatusDraft)

	app := fiber.New()
	app.Patch("/news/:id", withSession(workflow.Session{UserID: writer.ID, Role: writer.Role}), s.PatchNews)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/news/1", fiber.Map{
		"status": "review",
		"title":  "New title",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPatchNewsFieldUpdate(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	other := seedUser(t, db, "other", models.RoleWriter)
	cat := seedCategory(t, db, "politics")
	seedNews(t, db, writer.ID, cat.ID, models.NewsStatusDraft)

	ownerApp := fiber.New()
	ownerApp.Patch("/news/:id", withSession(workflow.Session{UserID: writer.ID, Role: writer.Role}), s.PatchNews)
	otherApp := fiber.New()
	otherApp.Patch("/news/:id", withSession(workflow.Session{UserID: other.ID, Role: other.Role}), s.PatchNews)

	// Another writer may not touch the article.
	resp, err := otherApp.Test(jsonRequest(t, http.MethodPatch, "/news/1", fiber.Map{
		"title": "Hijacked",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = ownerApp.Test(jsonRequest(t, http.MethodPatch, "/news/1", fiber.Map{
		"title":   "Updated title",
		"summary": "Short summary",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.News
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Updated title", updated.Title)
	assert.EqualValues(t, 2, updated.Version)
}

func TestGetNewsHidesUnpublished(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	cat := seedCategory(t, db, "politics")
	seedNews(t, db, writer.ID, cat.ID, models.NewsStatusDraft)

	anonApp := fiber.New()
	anonApp.Get("/news/:id", s.GetNews)
	authorApp := fiber.New()
	authorApp.Get("/news/:id", withSession(workflow.Session{UserID: writer.ID, Role: writer.Role}), s.GetNews)

	resp, err := anonApp.Test(httptestGet("/news/1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = authorApp.Test(httptestGet("/news/1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetNewsCountsPublishedView(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	cat := seedCategory(t, db, "politics")
	news := seedNews(t, db, writer.ID, cat.ID, models.NewsStatusPublished)

	app := fiber.New()
	app.Get("/news/:id", s.GetNews)

	resp, err := app.Test(httptestGet("/news/1"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.News
	require.NoError(t, db.First(&stored, news.ID).Error)
	assert.EqualValues(t, 1, stored.ViewCount)
	// View tracking is not an edit.
	assert.EqualValues(t, 1, stored.Version)
}

func TestGetNewsProjectsElapsedSchedule(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	cat := seedCategory(t, db, "politics")
	past := time.Now().Add(-time.Hour)
	news := seedNews(t, db, writer.ID, cat.ID, models.NewsStatusScheduled)
	require.NoError(t, db.Model(news).Update("publish_at", past).Error)

	app := fiber.New()
	app.Get("/news/:id", s.GetNews)

	resp, err := app.Test(httptestGet("/news/1"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.News
	decodeBody(t, resp, &got)
	assert.Equal(t, models.NewsStatusPublished, got.Status)

	// The read served the published view without persisting it.
	var stored models.News
	require.NoError(t, db.First(&stored, news.ID).Error)
	assert.Equal(t, models.NewsStatusScheduled, stored.Status)
}

func TestListNewsPublicSeesOnlyPublished(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	cat := seedCategory(t, db, "politics")
	seedNews(t, db, writer.ID, cat.ID, models.NewsStatusDraft)
	seedNews(t, db, writer.ID, cat.ID, models.NewsStatusPublished)

	app := fiber.New()
	app.Get("/news", s.ListNews)

	resp, err := app.Test(httptestGet("/news"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []models.News
	decodeBody(t, resp, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NewsStatusPublished, rows[0].Status)
}

func TestListNewsStaffStatusFilter(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	editor := seedUser(t, db, "editor", models.RoleEditor)
	cat := seedCategory(t, db, "politics")
	seedNews(t, db, writer.ID, cat.ID, models.NewsStatusReview)

	app := fiber.New()
	app.Get("/news", withSession(workflow.Session{UserID: editor.ID, Role: editor.Role}), s.ListNews)

	resp, err := app.Test(httptestGet("/news?status=review"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []models.News
	decodeBody(t, resp, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NewsStatusReview, rows[0].Status)
}

func TestDeleteNewsStaffOnly(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	writer := seedUser(t, db, "writer", models.RoleWriter)
	editor := seedUser(t, db, "editor", models.RoleEditor)
	cat := seedCategory(t, db, "politics")
	seedNews(t, db, writer.ID, cat.ID, models.NewsStatusDraft)

	writerApp := fiber.New()
	writerApp.Delete("/news/:id", withSession(workflow.Session{UserID: writer.ID, Role: writer.Role}), s.DeleteNews)
	editorApp := fiber.New()
	editorApp.Delete("/news/:id", withSession(workflow.Session{UserID: editor.ID, Role: editor.Role}), s.DeleteNews)

	resp, err := writerApp.Test(jsonRequest(t, http.MethodDelete, "/news/1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = editorApp.Test(jsonRequest(t, http.MethodDelete, "/news/1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.News{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
