package server

import (
	"newsdesk/internal/models"

	"github.com/gofiber/fiber/v2"
)

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// TriggerSweep handles POST /api/admin/sweep
//
// Manual counterpart of the cron sweeper: persists the published status for
// every scheduled article whose publish time has elapsed.
// @Summary Publish elapsed scheduled articles
// @Description Persist the published status for every scheduled article whose publish time has passed
// @Tags admin
// @Produce json
// @Success 200 {object} object{published=int}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/sweep [post]
func (s *Server) TriggerSweep(c *fiber.Ctx) error {
	swept, err := s.newsService.SweepScheduled(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"published": swept,
	})
}

// ListUsers handles GET /api/admin/users
// @Summary List users
// @Description List accounts with pagination
// @Tags admin
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.User
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	users, err := s.userService.ListUsers(c.Context(), sess, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(users)
}

// SetUserActive handles PATCH /api/admin/users/:id/active
// @Summary Activate or deactivate user
// @Description Toggle whether an account may authenticate; admins cannot deactivate themselves
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{active=bool} true "Active flag"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/active [patch]
func (s *Server) SetUserActive(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return nil
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req setActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Active == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Active flag is required"))
	}

	user, err := s.userService.SetUserActive(c.Context(), sess, id, *req.Active)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(user)
}
