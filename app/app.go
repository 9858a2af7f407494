package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/database"
	"github.com/codetube-labs/codetube/handlers"
	"github.com/codetube-labs/codetube/middleware/ratelimit"
	"github.com/codetube-labs/codetube/server"
	"github.com/codetube-labs/codetube/services/account"
	"github.com/codetube-labs/codetube/services/catalog"
	"github.com/codetube-labs/codetube/services/jwt"
	"github.com/codetube-labs/codetube/services/logging"
	"github.com/codetube-labs/codetube/services/mail"
	"github.com/codetube-labs/codetube/services/oauth"
	"github.com/codetube-labs/codetube/services/progress"
	"github.com/codetube-labs/codetube/services/refreshtoken"
	"github.com/codetube-labs/codetube/services/verification"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type App struct {
	fx     *fx.App
	config *config.Config
	logger *logging.Service
	db     *gorm.DB
	server *server.Server
}

// New assembles the full application. Pass a nil config to load it from the
// environment.
func New(customConfig *config.Config) *App {
	a := &App{}

	a.fx = fx.New(
		config.NewProvider(customConfig),
		logging.Module,
		fx.Supply(database.WithModels(
			&account.User{},
			&verification.VerificationCode{},
			&refreshtoken.RefreshToken{},
			&progress.WatchProgress{},
			&progress.Bookmark{},
			&progress.WishlistItem{},
		)),
		database.Module,
		server.Module,
		ratelimit.Module,
		account.Module,
		verification.Module,
		mail.Module,
		jwt.Module,
		refreshtoken.Module,
		oauth.Module,
		catalog.Module,
		progress.Module,
		handlers.Module,
		fx.Invoke(attachRequestLogger),
		fx.Populate(&a.config, &a.logger, &a.db, &a.server),
		fx.NopLogger,
	)

	return a
}

func attachRequestLogger(srv *server.Server, logger *logging.Service) {
	srv.Use(logging.RequestLogger(logger))
}

func (a *App) Start() error {
	return a.fx.Start(context.Background())
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.fx.Stop(ctx); err != nil {
		if a.logger != nil {
			a.logger.Errorf("failed to stop application gracefully: %v", err)
		} else {
			log.Printf("failed to stop application gracefully: %v", err)
		}
	}
}

// Run starts the app and blocks until SIGINT or SIGTERM.
func (a *App) Run() {
	if err := a.Start(); err != nil {
		log.Fatalf("failed to start application: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if a.logger != nil {
		a.logger.Info("received shutdown signal, stopping gracefully")
	}

	a.Stop()
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Logger() *logging.Service {
	return a.logger
}

func (a *App) DB() *gorm.DB {
	return a.db
}

func (a *App) Server() *server.Server {
	return a.server
}
