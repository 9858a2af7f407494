package refreshtoken

import (
	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideRefreshTokenService(db *gorm.DB, cfg *config.Config, logger *logging.Service) *Service {
	return NewService(db, &cfg.RefreshToken, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideRefreshTokenService),
)
