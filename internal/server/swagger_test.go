package server

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocListsRoutes(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/api/swagger/*", swagger.HandlerDefault)

	resp, err := app.Test(httptestGet("/api/swagger/doc.json"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	doc := string(raw)
	for _, path := range []string{
		`"/auth/login"`,
		`"/news"`,
		`"/news/{id}"`,
		`"/news/{id}/comments"`,
		`"/comments"`,
		`"/categories"`,
		`"/stats"`,
		`"/admin/sweep"`,
	} {
		assert.Contains(t, doc, path)
	}
	assert.Contains(t, doc, `"models.News"`)
	assert.Contains(t, doc, `"models.ErrorResponse"`)
}
