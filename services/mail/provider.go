package mail

import (
	"context"

	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/services/logging"
	"github.com/codetube-labs/codetube/services/verification"
	"go.uber.org/fx"
)

// ProvideMailService returns a nil service when no from-address is
// configured; delivery is then disabled but issuance keeps working.
func ProvideMailService(cfg *config.Config, logger *logging.Service) (*Service, error) {
	if cfg.Mail.FromAddress == "" {
		logger.Warn("mail delivery disabled: CODETUBE_MAIL_FROM_ADDRESS is not set")
		return nil, nil
	}
	return NewService(&cfg.Mail, logger)
}

func ProvideDispatcher(svc *Service, cfg *config.Config, logger *logging.Service) *Dispatcher {
	var sender Sender
	if svc != nil {
		sender = svc
	}
	return NewDispatcher(sender, logger, cfg.App.Name, cfg.Mail.QueueSize)
}

func ProvideNotifier(d *Dispatcher) verification.Notifier {
	return d
}

func registerLifecycle(lc fx.Lifecycle, d *Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return d.Stop(ctx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(ProvideMailService),
	fx.Provide(ProvideDispatcher),
	fx.Provide(ProvideNotifier),
	fx.Invoke(registerLifecycle),
)
