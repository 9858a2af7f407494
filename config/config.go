package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig          `envPrefix:"CODETUBE_APP_"`
	Server       ServerConfig       `envPrefix:"CODETUBE_SERVER_"`
	Log          LogConfig          `envPrefix:"CODETUBE_LOG_"`
	Database     DatabaseConfig     `envPrefix:"CODETUBE_DB_"`
	Mail         MailConfig         `envPrefix:"CODETUBE_MAIL_"`
	JWT          JWTConfig          `envPrefix:"CODETUBE_JWT_"`
	Verification VerificationConfig `envPrefix:"CODETUBE_VERIFICATION_"`
	RefreshToken RefreshTokenConfig `envPrefix:"CODETUBE_REFRESH_"`
	OAuth        OAuthConfig        `envPrefix:"CODETUBE_OAUTH_"`
	YouTube      YouTubeConfig      `envPrefix:"CODETUBE_YOUTUBE_"`
	RateLimit    RateLimitConfig    `envPrefix:"CODETUBE_RATELIMIT_"`
}

type AppConfig struct {
	Name        string `env:"NAME" envDefault:"CodeTube"`
	URL         string `env:"URL" envDefault:"http://localhost:8080"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"codetube.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type MailConfig struct {
	Host         string `env:"HOST"`
	Port         int    `env:"PORT" envDefault:"587"`
	Username     string `env:"USERNAME"`
	Password     string `env:"PASSWORD"`
	Encryption   string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress  string `env:"FROM_ADDRESS"`
	FromName     string `env:"FROM_NAME" envDefault:"CodeTube"`
	TemplatesDir string `env:"TEMPLATES_DIR"`
	QueueSize    int    `env:"QUEUE_SIZE" envDefault:"64"`
}

type JWTConfig struct {
	SecretKey    string        `env:"SECRET"`
	Issuer       string        `env:"ISSUER" envDefault:"codetube"`
	AccessExpiry time.Duration `env:"ACCESS_EXPIRY" envDefault:"168h"`
}

type VerificationConfig struct {
	TTL         time.Duration `env:"TTL" envDefault:"15m"`
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
}

type RefreshTokenConfig struct {
	Expiry      time.Duration `env:"EXPIRY" envDefault:"720h"`
	TokenLength int           `env:"TOKEN_LENGTH" envDefault:"32"`
}

type OAuthConfig struct {
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	GithubClientID     string        `env:"GITHUB_CLIENT_ID"`
	GithubClientSecret string        `env:"GITHUB_CLIENT_SECRET"`
	StateTTL           time.Duration `env:"STATE_TTL" envDefault:"10m"`
}

type YouTubeConfig struct {
	APIKey    string `env:"API_KEY"`
	APIURL    string `env:"API_URL" envDefault:"https://www.googleapis.com/youtube/v3"`
	OEmbedURL string `env:"OEMBED_URL" envDefault:"https://www.youtube.com/oembed"`
}

type RateLimitConfig struct {
	SendCodeRate   int           `env:"SEND_CODE_RATE" envDefault:"5"`
	SendCodePeriod time.Duration `env:"SEND_CODE_PERIOD" envDefault:"1m"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	return env.Parse(cfg)
}
