package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ojuansoares/dolse-vitta/cmd/storefront-api/app"
	"github.com/ojuansoares/dolse-vitta/configs"
	"github.com/ojuansoares/dolse-vitta/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV") // dev | staging | prod
	if env == "" {
		env = "dev"
	}
	dir := os.Getenv("STOREFRONT_CONFIG_DIR")
	if dir == "" {
		dir = "configs"
	}

	cfg, err := configs.Load(dir, env)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := app.InitWithConfig(ctx, cfg)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	logger.Info("storefront-api starting", "env", env, "http_addr", cfg.App.HTTPAddr, "grpc_addr", cfg.App.GRPCAddr)
	if err := a.Run(ctx); err != nil {
		logger.Error("server stopped", "err", err)
		cleanup()
		os.Exit(1)
	}
	logger.Info("storefront-api stopped")
}
