package server

import (
	"flashdeck/internal/auth"
	"flashdeck/internal/middleware"
	"flashdeck/internal/models"

	"github.com/gofiber/fiber/v2"
)

const localUser = "user"

// authenticate verifies the bearer token and resolves it to the local user.
func (s *Server) authenticate(c *fiber.Ctx) (*models.User, error) {
	token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return nil, models.NewUnauthorizedError("Authorization required")
	}

	identity, err := s.verifier.Verify(c.UserContext(), token)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	return s.identityService.Resolve(c.UserContext(), *identity)
}

func setUser(c *fiber.Ctx, user *models.User) {
	c.Locals(middleware.LocalUserID, user.ID)
	c.Locals(localUser, user)
	c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))
}

// AuthRequired rejects requests without a valid bearer token. Every authenticated
// request resolves its identity, so the user row is created on first contact.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.authenticate(c)
		if err != nil {
			return respondError(c, err)
		}
		setUser(c, user)
		return c.Next()
	}
}

// OptionalAuth resolves the caller when a valid bearer token is present and otherwise
// continues anonymously.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		user, err := s.authenticate(c)
		switch {
		case err == nil:
			setUser(c, user)
		case !models.IsCode(err, models.CodeUnauthorized):
			return respondError(c, err)
		}
		return c.Next()
	}
}

func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(middleware.LocalUserID).(uint)
	return id
}

// viewerID returns the caller's user id, or nil for anonymous requests.
func viewerID(c *fiber.Ctx) *uint {
	id, ok := c.Locals(middleware.LocalUserID).(uint)
	if !ok {
		return nil
	}
	return &id
}
