// @title           Todo API
// @version         1.0
// @description     Todo items with status lifecycle and partial updates.
// @host            localhost:8080
// @BasePath        /api
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/Jaco-Potgieter/todo/internal/app"
	"github.com/Jaco-Potgieter/todo/internal/config"
	"github.com/Jaco-Potgieter/todo/internal/logging"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)
	logger.Info("config loaded, connecting to storage", "driver", cfg.Storage.Driver, "cache", cfg.Redis.Enabled())

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("app init failed", "error", err)
		os.Exit(1)
	}
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	go func() {
		logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.HTTP.ShutdownTimeout.Duration(),
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				if err := server.Shutdown(ctx); err != nil {
					return err
				}
				return application.Close(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info("application exited", "code", exitCode)
	os.Exit(exitCode)
}
