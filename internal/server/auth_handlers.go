package server

import (
	"errors"
	"log/slog"
	"time"

	"flashdeck/internal/auth"
	"flashdeck/internal/cache"
	"flashdeck/internal/featureflags"
	"flashdeck/internal/middleware"
	"flashdeck/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LoginResponse is returned after a successful federated login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func (s *Server) githubLoginAvailable() bool {
	return s.github != nil && s.featureFlags.On(featureflags.GitHubLogin)
}

// GitHubLogin handles GET /api/auth/github/login
// @Summary Start GitHub login
// @Description Redirects to GitHub to approve the login
// @Tags auth
// @Success 307
// @Failure 503 {object} models.ErrorResponse
// @Router /auth/github/login [get]
func (s *Server) GitHubLogin(c *fiber.Ctx) error {
	if !s.githubLoginAvailable() {
		return respondError(c, models.NewUnavailableError("GitHub login is not configured"))
	}

	state := auth.NewState()
	if err := cache.SaveOAuthState(c.UserContext(), state); err != nil {
		if errors.Is(err, cache.ErrCacheUnavailable) {
			return respondError(c, models.NewUnavailableError("GitHub login requires Redis"))
		}
		return respondError(c, models.NewInternalError(err))
	}

	return c.Redirect(s.github.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// GitHubCallback handles GET /api/auth/github/callback
// @Summary Finish GitHub login
// @Description Exchanges the authorization code, resolves the user and issues an access token
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "OAuth state"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/github/callback [get]
func (s *Server) GitHubCallback(c *fiber.Ctx) error {
	if !s.githubLoginAvailable() {
		return respondError(c, models.NewUnavailableError("GitHub login is not configured"))
	}

	code, state := c.Query("code"), c.Query("state")
	if code == "" || state == "" {
		return respondError(c, models.NewValidationError("code and state are required"))
	}

	ctx := c.UserContext()
	valid, err := cache.ConsumeOAuthState(ctx, state)
	if err != nil {
		if errors.Is(err, cache.ErrCacheUnavailable) {
			return respondError(c, models.NewUnavailableError("GitHub login requires Redis"))
		}
		return respondError(c, models.NewInternalError(err))
	}
	if !valid {
		return respondError(c, models.NewValidationError("Invalid or expired OAuth state"))
	}

	identity, err := s.github.Exchange(ctx, code)
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.identityService.Resolve(ctx, *identity)
	if err != nil {
		return respondError(c, err)
	}

	token, expiresAt, err := s.tokens.Issue(*identity)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(ctx, "github login", slog.Uint64("user_id", uint64(user.ID)))
	return c.JSON(LoginResponse{Token: token, ExpiresAt: expiresAt, User: user})
}
