package account

import (
	"github.com/codetube-labs/codetube/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideAccountStore(db *gorm.DB, logger *logging.Service) *Store {
	return NewStore(db, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideAccountStore),
)
