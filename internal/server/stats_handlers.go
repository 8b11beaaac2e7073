package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetStats handles GET /api/stats
//
// The snapshot is derived entirely from the store and the analytics
// collaborator; any authenticated staff member or writer may read it.
// @Summary Dashboard stats
// @Description Derived counters: total news, active writers, pending comments, today's views
// @Tags stats
// @Produce json
// @Success 200 {object} service.Stats
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /stats [get]
func (s *Server) GetStats(c *fiber.Ctx) error {
	if _, err := s.session(c); err != nil {
		return nil
	}

	stats, err := s.statsService.Snapshot(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(stats)
}
