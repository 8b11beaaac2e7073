package server

import (
	"time"

	"newsdesk/internal/middleware"
	"newsdesk/internal/models"

	"github.com/gofiber/fiber/v2"
)

const tokenTTL = 24 * time.Hour

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login
// @Summary Staff login
// @Description Authenticate a staff user and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.Context()

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}

	user, err := s.userService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return respondAppError(c, err)
	}

	token, err := middleware.IssueToken(user, tokenTTL)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Description Return the authenticated user for the presented token
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.Context(), sess.UserID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(user)
}
