package verification

import (
	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideVerificationService(cfg *config.Config, db *gorm.DB, logger *logging.Service) *Service {
	return NewService(&cfg.Verification, db, logger)
}

type OptionalNotifier struct {
	fx.In
	Notifier Notifier `optional:"true"`
}

func WireNotifier(svc *Service, opt OptionalNotifier) {
	if opt.Notifier != nil {
		svc.SetNotifier(opt.Notifier)
	}
}

var Module = fx.Options(
	fx.Provide(ProvideVerificationService),
	fx.Invoke(WireNotifier),
)
