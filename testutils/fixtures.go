package testutils

import (
	"time"

	"github.com/codetube-labs/codetube/config"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "CodeTube Test",
			URL:         "http://localhost:8080",
			FrontendURL: "http://localhost:5173",
		},
		Server: config.ServerConfig{
			Host: "localhost",
			Port: "0",
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
		JWT: config.JWTConfig{
			SecretKey:    "test-secret-key-32-chars-long!!",
			Issuer:       "codetube-test",
			AccessExpiry: 7 * 24 * time.Hour,
		},
		Verification: config.VerificationConfig{
			TTL:         15 * time.Minute,
			MaxAttempts: 3,
		},
		RefreshToken: config.RefreshTokenConfig{
			Expiry:      30 * 24 * time.Hour,
			TokenLength: 32,
		},
		OAuth: config.OAuthConfig{
			GoogleClientID:     "test-google-client",
			GoogleClientSecret: "test-google-secret",
			GithubClientID:     "test-github-client",
			GithubClientSecret: "test-github-secret",
			StateTTL:           10 * time.Minute,
		},
		YouTube: config.YouTubeConfig{
			APIKey: "test-api-key",
		},
		RateLimit: config.RateLimitConfig{
			SendCodeRate:   5,
			SendCodePeriod: time.Minute,
		},
	}
}
