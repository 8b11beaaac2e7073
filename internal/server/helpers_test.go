package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsdesk/internal/config"
	"newsdesk/internal/database"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	cfg := &config.Config{
		Env:       "test",
		JWTSecret: "test-secret",
	}
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	return s, db
}

// withSession injects a session the way the auth middleware would, so
// handlers can be exercised without minting tokens.
func withSession(sess workflow.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.SessionKey, sess)
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func httptestGet(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest))
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()

	cat := &models.Category{Name: slug, Slug: slug}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func seedNews(t *testing.T, db *gorm.DB, authorID, categoryID uint, status models.NewsStatus) *models.News {
	t.Helper()

	news := &models.News{
		Title:      "Test article",
		Content:    "Body",
		Status:     status,
		AuthorID:   authorID,
		CategoryID: categoryID,
		Version:    1,
	}
	require.NoError(t, db.Create(news).Error)
	return news
}
