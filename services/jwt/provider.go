package jwt

import (
	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/services/logging"
	"go.uber.org/fx"
)

func ProvideJWTService(cfg *config.Config, logger *logging.Service) *Service {
	return NewService(&cfg.JWT, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideJWTService),
)
