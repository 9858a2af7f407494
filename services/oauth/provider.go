package oauth

import (
	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/services/logging"
	"go.uber.org/fx"
)

func ProvideOAuthService(cfg *config.Config, logger *logging.Service) *Service {
	return NewService(&cfg.OAuth, cfg.App.URL, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideOAuthService),
)
