package server

import (
	"time"

	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/repository"
	"newsdesk/internal/service"
	"newsdesk/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

type createNewsRequest struct {
	Title         string `json:"title" validate:"required"`
	Summary       string `json:"summary"`
	Content       string `json:"content"`
	FeaturedImage string `json:"featured_image" validate:"omitempty,url"`
	VideoURL      string `json:"video_url" validate:"omitempty,url"`
	CategoryID    uint   `json:"category_id" validate:"required"`
	CityID        *uint  `json:"city_id"`
	SourceID      *uint  `json:"source_id"`
}

// patchNewsRequest carries either a partial field update or, when Status is
// set, a workflow transition. Mixing both in one request is rejected.
type patchNewsRequest struct {
	Title         *string `json:"title"`
	Summary       *string `json:"summary"`
	Content       *string `json:"content"`
	FeaturedImage *string `json:"featured_image"`
	VideoURL      *string `json:"video_url"`
	CategoryID    *uint   `json:"category_id"`
	CityID        *uint   `json:"city_id"`
	SourceID      *uint   `json:"source_id"`

	Status    *string    `json:"status"`
	PublishAt *time.Time `json:"publish_at"`
	Force     bool       `json:"force"`
}

func (r *patchNewsRequest) hasFieldUpdate() bool {
	return r.Title != nil || r.Summary != nil || r.Content != nil ||
		r.FeaturedImage != nil || r.VideoURL != nil ||
		r.CategoryID != nil || r.CityID != nil || r.SourceID != nil
}

// ListNews handles GET /api/news
//
// Anonymous readers see effectively published articles. Staff may filter by
// any status; writers additionally see their own drafts via author=me.
// @Summary List news
// @Description List published articles; authenticated users may filter by status and author=me
// @Tags news
// @Produce json
// @Param status query string false "Status filter (authenticated only)"
// @Param author query string false "Set to 'me' to list own articles"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.News
// @Failure 400 {object} models.ErrorResponse
// @Router /news [get]
func (s *Server) ListNews(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	sess, authed := middleware.OptionalSession(c)

	filter := repository.NewsFilter{
		Status: models.NewsStatusPublished,
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	if authed {
		if status := c.Query("status"); status != "" {
			st := models.NewsStatus(status)
			if !st.Valid() {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationError("Unknown status filter"))
			}
			filter.Status = st
		}
		if c.Query("author") == "me" {
			filter.AuthorID = sess.UserID
		}
		// Non-staff may only browse beyond the published view within
		// their own articles.
		if !sess.IsStaff() && filter.Status != models.NewsStatusPublished {
			filter.AuthorID = sess.UserID
		}
	}

	rows, err := s.newsService.ListNews(ctx, filter)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(rows)
}

// GetNews handles GET /api/news/:id
// @Summary Get news article
// @Description Fetch a single article; published reads count a view, unpublished articles 404 for readers
// @Tags news
// @Produce json
// @Param id path int true "News ID"
// @Success 200 {object} models.News
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /news/{id} [get]
func (s *Server) GetNews(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	sess, authed := middleware.OptionalSession(c)

	news, err := s.newsService.GetNews(ctx, id, false)
	if err != nil {
		return respondAppError(c, err)
	}

	// Unpublished articles are invisible to readers without a claim on them.
	if news.Status != models.NewsStatusPublished {
		if !authed || (!sess.IsStaff() && news.AuthorID != sess.UserID) {
			return respondAppError(c, models.NewNotFoundError("News", id))
		}
		return c.JSON(news)
	}

	// Published read: count the view.
	news, err = s.newsService.GetNews(ctx, id, true)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(news)
}

// CreateNews handles POST /api/news
// @Summary Create news article
// @Description Create a new article in draft status owned by the caller
// @Tags news
// @Accept json
// @Produce json
// @Param request body createNewsRequest true "Article fields"
// @Success 201 {object} models.News
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /news [post]
func (s *Server) CreateNews(c *fiber.Ctx) error {
	ctx := c.Context()
	sess, err := s.session(c)
	if err != nil {
		return nil
	}

	var req createNewsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	news, err := s.newsService.CreateNews(ctx, sess, service.CreateNewsInput{
		Title:         req.Title,
		Summary:       req.Summary,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		VideoURL:      req.VideoURL,
		CategoryID:    req.CategoryID,
		CityID:        req.CityID,
		SourceID:      req.SourceID,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(news)
}

// PatchNews handles PATCH /api/news/:id
// @Summary Update or transition news article
// @Description Apply a partial field update, or a lifecycle transition when status is set; the two cannot be combined
// @Tags news
// @Accept json
// @Produce json
// @Param id path int true "News ID"
// @Param request body patchNewsRequest true "Field updates or transition"
// @Success 200 {object} models.News
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /news/{id} [patch]
func (s *Server) PatchNews(c *fiber.Ctx) error {
	ctx := c.Context()
	sess, err := s.session(c)
	if err != nil {
		return nil
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req patchNewsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Status != nil {
		if req.hasFieldUpdate() {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Cannot combine a status change with field updates"))
		}
		news, err := s.newsService.Transition(ctx, sess, id, workflow.NewsTransition{
			Target:    models.NewsStatus(*req.Status),
			PublishAt: req.PublishAt,
			Force:     req.Force,
		})
		if err != nil {
			return respondAppError(c, err)
		}
		return c.JSON(news)
	}

	news, err := s.newsService.UpdateNews(ctx, sess, id, service.UpdateNewsInput{
		Title:         req.Title,
		Summary:       req.Summary,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		VideoURL:      req.VideoURL,
		CategoryID:    req.CategoryID,
		CityID:        req.CityID,
		SourceID:      req.SourceID,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(news)
}

// DeleteNews handles DELETE /api/news/:id
// @Summary Delete news article
// @Description Soft-delete an article; staff only
// @Tags news
// @Param id path int true "News ID"
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /news/{id} [delete]
func (s *Server) DeleteNews(c *fiber.Ctx) error {
	ctx := c.Context()
	sess, err := s.session(c)
	if err != nil {
		return nil
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.newsService.DeleteNews(ctx, sess, id); err != nil {
		return respondAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
