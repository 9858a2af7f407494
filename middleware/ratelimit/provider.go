package ratelimit

import (
	"github.com/codetube-labs/codetube/config"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SendCodeLimiter throttles verification code requests per client IP.
func SendCodeLimiter(cfg *config.Config, store Store) echo.MiddlewareFunc {
	return Middleware(&Config{
		Store:  store,
		Rate:   cfg.RateLimit.SendCodeRate,
		Period: cfg.RateLimit.SendCodePeriod,
	})
}

func ProvideStore() Store {
	return NewMemoryStore()
}

var Module = fx.Options(
	fx.Provide(ProvideStore),
)
