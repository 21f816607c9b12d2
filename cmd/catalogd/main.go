package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/bazaarhq/storefront-client/internal/stubcatalog"
	"github.com/bazaarhq/storefront-client/pkg/config"
	"github.com/bazaarhq/storefront-client/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "catalogd"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "catalogd",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	server := stubcatalog.New(cfg.Auth, cfg.Stub.Seed, logg)

	addr := ":" + cfg.Stub.Port
	ctx := logg.WithField(context.Background(), "addr", addr)
	logg.Info(ctx, "catalog stub listening")

	if err := http.ListenAndServe(addr, server.Handler()); err != nil {
		logg.Error(ctx, "server stopped", err)
		os.Exit(1)
	}
}
