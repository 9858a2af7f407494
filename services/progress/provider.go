package progress

import (
	"github.com/codetube-labs/codetube/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideProgressService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideProgressService),
)
