package server

import (
	"flashdeck/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SyncMe handles POST /api/users/me
// @Summary Sync current user
// @Description Resolve the bearer token's identity to a local user, creating or refreshing it
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [post]
func (s *Server) SyncMe(c *fiber.Ctx) error {
	user, ok := c.Locals(localUser).(*models.User)
	if !ok {
		return respondError(c, models.NewUnauthorizedError("Authorization required"))
	}
	return c.JSON(user)
}

// GetMe handles GET /api/users/me
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.identityService.GetUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetFeatureFlags handles GET /api/features
// @Summary Feature flags
// @Description Evaluated feature flags for the caller
// @Tags features
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /features [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	if s.featureFlags == nil {
		return c.JSON(map[string]bool{})
	}
	return c.JSON(s.featureFlags.Snapshot(currentUserID(c)))
}
