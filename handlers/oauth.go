package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/services/account"
	"github.com/codetube-labs/codetube/services/jwt"
	"github.com/codetube-labs/codetube/services/logging"
	"github.com/codetube-labs/codetube/services/oauth"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type OAuthHandler struct {
	oauthService *oauth.Service
	users        *account.Store
	jwtService   *jwt.Service
	frontendURL  string
	logger       *logging.Service
}

func NewOAuthHandler(oauthService *oauth.Service, users *account.Store, jwtService *jwt.Service, cfg *config.Config, logger *logging.Service) *OAuthHandler {
	return &OAuthHandler{
		oauthService: oauthService,
		users:        users,
		jwtService:   jwtService,
		frontendURL:  cfg.App.FrontendURL,
		logger:       logger,
	}
}

// Begin handles GET /api/auth/:provider and redirects to the provider's
// consent page.
func (h *OAuthHandler) Begin(c echo.Context) error {
	provider := c.Param("provider")

	authURL, err := h.oauthService.AuthURL(provider)
	if err != nil {
		if errors.Is(err, oauth.ErrUnknownProvider) {
			return echo.NewHTTPError(http.StatusNotFound, "Unknown provider")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start login")
	}

	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// Callback handles GET /api/auth/:provider/callback. Failures redirect back
// to the frontend with an error tag rather than rendering JSON; the browser,
// not an API client, is on the other end of this request.
func (h *OAuthHandler) Callback(c echo.Context) error {
	provider := c.Param("provider")
	state := c.QueryParam("state")
	code := c.QueryParam("code")

	if state == "" || code == "" {
		return h.redirectError(c, "missing_params")
	}

	if err := h.oauthService.ConsumeState(state); err != nil {
		return h.redirectError(c, "invalid_state")
	}

	ctx := c.Request().Context()

	token, err := h.oauthService.Exchange(ctx, provider, code)
	if err != nil {
		h.logger.Warn("oauth code exchange failed",
			zap.String("provider", provider), zap.Error(err))
		return h.redirectError(c, "exchange_failed")
	}

	identity, err := h.oauthService.FetchIdentity(ctx, provider, token)
	if err != nil {
		h.logger.Warn("oauth identity fetch failed",
			zap.String("provider", provider), zap.Error(err))
		return h.redirectError(c, "identity_failed")
	}

	user, err := h.upsertUser(identity)
	if err != nil {
		h.logger.Error("failed to upsert oauth user", zap.Error(err))
		return h.redirectError(c, "server_error")
	}

	jwtToken, err := h.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.logger.Error("failed to generate JWT", zap.Error(err))
		return h.redirectError(c, "server_error")
	}

	redirect := h.frontendURL + "/auth/callback?token=" + url.QueryEscape(jwtToken)
	return c.Redirect(http.StatusTemporaryRedirect, redirect)
}

// upsertUser finds or creates the account for an OAuth identity and links
// the provider. Linked accounts come out verified either way.
func (h *OAuthHandler) upsertUser(identity *oauth.Identity) (*account.User, error) {
	user, err := h.users.FindByEmail(identity.Email)
	if errors.Is(err, account.ErrUserNotFound) {
		user = &account.User{
			Name:  identity.Name,
			Email: identity.Email,
		}
		if err := h.users.Create(user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := h.users.LinkProvider(user, identity.Provider, identity.ExternalID); err != nil {
		return nil, err
	}

	return user, nil
}

func (h *OAuthHandler) redirectError(c echo.Context, reason string) error {
	return c.Redirect(http.StatusTemporaryRedirect,
		h.frontendURL+"/auth/callback?error="+url.QueryEscape(reason))
}
