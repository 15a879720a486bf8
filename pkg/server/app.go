package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SharkScan/pkg/config"
	xhttp "SharkScan/pkg/http"
	applogger "SharkScan/pkg/logger"
)

// App owns the HTTP server lifecycle. Infrastructure clients are released
// by the cleanup function returned from the injector.
type App struct {
	cfg    *config.Config
	logger *applogger.Logger
	server *xhttp.Server
}

func New(cfg *config.Config, logger *applogger.Logger, server *xhttp.Server) *App {
	return &App{cfg: cfg, logger: logger, server: server}
}

// Run serves until SIGINT/SIGTERM or a listener failure, then shuts down.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("sharkscan starting",
		applogger.String("env", a.cfg.Environment),
		applogger.String("provider", a.cfg.Provider.Type),
		applogger.Bool("cache", a.cfg.Cache.Enabled),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
	)

	errCh := a.server.Start()
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			a.logger.Error("http server failed", applogger.Error(err))
			return err
		}
	}
	return a.shutdown()
}

func (a *App) shutdown() error {
	if err := a.server.Stop(context.Background()); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.logger.Info("shutdown complete")
	return nil
}
