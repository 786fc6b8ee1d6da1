package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"flashdeck/internal/config"
	"flashdeck/internal/models"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubUserURL = "https://api.github.com/user"

// GitHubProvider runs the OAuth authorization code flow against GitHub.
type GitHubProvider struct {
	oauth   *oauth2.Config
	userURL string
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func NewGitHubProvider(cfg *config.Config) *GitHubProvider {
	return &GitHubProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubCallbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		userURL: githubUserURL,
	}
}

// NewState returns a fresh, unguessable OAuth state value.
func NewState() string {
	return uuid.NewString()
}

// AuthCodeURL is where the browser is sent to approve the login.
func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for the GitHub profile of the approving user.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*models.ExternalIdentity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, models.NewUnauthorizedError("GitHub rejected the authorization code")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, models.NewUpstreamError("GitHub profile request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, models.NewUpstreamError("GitHub profile request failed", fmt.Errorf("status %d", resp.StatusCode))
	}

	var user githubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, models.NewUpstreamError("GitHub profile could not be read", err)
	}
	if user.ID == 0 {
		return nil, models.NewUnauthorizedError("GitHub profile has no id")
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}
	return &models.ExternalIdentity{
		Subject:     "github|" + strconv.FormatInt(user.ID, 10),
		Email:       optional(user.Email),
		DisplayName: optional(name),
		AvatarURL:   optional(user.AvatarURL),
	}, nil
}
