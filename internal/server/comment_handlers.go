package server

import (
	"newsdesk/internal/models"
	"newsdesk/internal/repository"
	"newsdesk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	AuthorName string `json:"author_name" validate:"required,max=120"`
	Content    string `json:"content" validate:"required"`
}

type moderateCommentRequest struct {
	Status string `json:"status" validate:"required"`
}

// GetComments handles GET /api/news/:id/comments
//
// Public view: only approved comments, oldest first.
// @Summary List article comments
// @Description List approved comments on an article, oldest first
// @Tags comments
// @Produce json
// @Param id path int true "News ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /news/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListVisible(ctx, id)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(comments)
}

// CreateComment handles POST /api/news/:id/comments
//
// Anyone may comment; every comment enters the queue pending.
// @Summary Submit comment
// @Description Submit a reader comment; it enters the moderation queue as pending
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "News ID"
// @Param request body createCommentRequest true "Comment fields"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /news/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Author name and content are required"))
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		NewsID:     id,
		AuthorName: req.AuthorName,
		Content:    req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetModerationQueue handles GET /api/comments?status=pending
// @Summary Moderation queue
// @Description List comments by moderation status, oldest first; defaults to pending, status=all spans every state
// @Tags comments
// @Produce json
// @Param status query string false "Status filter (pending, approved, rejected, all)"
// @Param news_id query int false "Restrict to one article"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments [get]
func (s *Server) GetModerationQueue(c *fiber.Ctx) error {
	ctx := c.Context()

	filter := repository.CommentFilter{
		Status: models.CommentStatusPending,
	}
	if status := c.Query("status"); status != "" {
		if status == "all" {
			filter.Status = ""
		} else {
			st := models.CommentStatus(status)
			if !st.Valid() {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationError("Unknown status filter"))
			}
			filter.Status = st
		}
	}
	if newsID := c.QueryInt("news_id", 0); newsID > 0 {
		filter.NewsID = uint(newsID)
	}
	if c.Query("limit") != "" || c.Query("offset") != "" {
		page := parsePagination(c, 50)
		filter.Limit = page.Limit
		filter.Offset = page.Offset
	}

	comments, err := s.commentService.Queue(ctx, filter)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(comments)
}

// ModerateComment handles PATCH /api/comments/:id
// @Summary Moderate comment
// @Description Approve, reject, or reopen a comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Comment ID"
// @Param request body object{status=string} true "Target status"
// @Success 200 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{id} [patch]
func (s *Server) ModerateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	sess, err := s.session(c)
	if err != nil {
		return nil
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req moderateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Status == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Status is required"))
	}

	comment, err := s.commentService.Moderate(ctx, sess, id, models.CommentStatus(req.Status))
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(comment)
}
