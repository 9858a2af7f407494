package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/services/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

var (
	ErrUnknownProvider = errors.New("unknown oauth provider")
	ErrInvalidState    = errors.New("invalid oauth state")
	ErrNoEmail         = errors.New("oauth provider returned no email")
)

const (
	ProviderGoogle = "google"
	ProviderGithub = "github"
)

// Identity is what a provider tells us about the authenticated user. The
// provider is trusted to have verified the email already.
type Identity struct {
	Provider   string
	ExternalID string
	Email      string
	Name       string
}

type Service struct {
	cfg     *config.OAuthConfig
	logger  *logging.Service
	configs map[string]*oauth2.Config

	mu     sync.Mutex
	states map[string]time.Time

	// overridable in tests
	userInfoURL map[string]string
	httpClient  *http.Client
}

func NewService(cfg *config.OAuthConfig, appURL string, logger *logging.Service) *Service {
	configs := map[string]*oauth2.Config{
		ProviderGoogle: {
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  appURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		ProviderGithub: {
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubClientSecret,
			RedirectURL:  appURL + "/api/auth/github/callback",
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}

	return &Service{
		cfg:     cfg,
		logger:  logger,
		configs: configs,
		states:  make(map[string]time.Time),
		userInfoURL: map[string]string{
			ProviderGoogle: "https://www.googleapis.com/oauth2/v2/userinfo",
			ProviderGithub: "https://api.github.com/user",
		},
		httpClient: http.DefaultClient,
	}
}

// AuthURL returns the provider redirect URL with a fresh single-use state.
func (s *Service) AuthURL(provider string) (string, error) {
	conf, ok := s.configs[provider]
	if !ok {
		return "", ErrUnknownProvider
	}

	state := uuid.New().String()

	s.mu.Lock()
	s.states[state] = time.Now().Add(s.cfg.StateTTL)
	s.pruneLocked()
	s.mu.Unlock()

	return conf.AuthCodeURL(state), nil
}

// ConsumeState validates and invalidates a state token in one step.
func (s *Service) ConsumeState(state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.states[state]
	if !ok {
		return ErrInvalidState
	}
	delete(s.states, state)

	if time.Now().After(expiry) {
		return ErrInvalidState
	}
	return nil
}

func (s *Service) pruneLocked() {
	now := time.Now()
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
		}
	}
}

func (s *Service) Exchange(ctx context.Context, provider, code string) (*oauth2.Token, error) {
	conf, ok := s.configs[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("oauth token exchange failed",
			zap.String("provider", provider), zap.Error(err))
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return token, nil
}

// FetchIdentity asks the provider's userinfo endpoint who the token belongs to.
func (s *Service) FetchIdentity(ctx context.Context, provider string, token *oauth2.Token) (*Identity, error) {
	url, ok := s.userInfoURL[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("userinfo request failed: status %d", resp.StatusCode)
	}

	switch provider {
	case ProviderGoogle:
		var payload struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("failed to decode userinfo: %w", err)
		}
		if payload.Email == "" {
			return nil, ErrNoEmail
		}
		return &Identity{
			Provider:   ProviderGoogle,
			ExternalID: payload.ID,
			Email:      payload.Email,
			Name:       payload.Name,
		}, nil
	case ProviderGithub:
		var payload struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
			Login string `json:"login"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("failed to decode userinfo: %w", err)
		}
		if payload.Email == "" {
			return nil, ErrNoEmail
		}
		name := payload.Name
		if name == "" {
			name = payload.Login
		}
		return &Identity{
			Provider:   ProviderGithub,
			ExternalID: fmt.Sprintf("%d", payload.ID),
			Email:      payload.Email,
			Name:       name,
		}, nil
	default:
		return nil, ErrUnknownProvider
	}
}
