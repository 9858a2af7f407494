package catalog

import (
	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/services/logging"
	"go.uber.org/fx"
)

func ProvideCatalogService(cfg *config.Config, logger *logging.Service) *Service {
	return NewService(&cfg.YouTube, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideCatalogService),
)
