// Package main VHNSNC Indoor Stadium API
//
// @title           VHNSNC Indoor Stadium API
// @version         1.0.0
// @description     Вход участников и администраторов клуба, регистрация и состояние членства.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/stadium-auth/internal/app/stadiumapi"
	"github.com/magabrotheeeer/stadium-auth/internal/config"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/logger"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env, os.Stdout)
	log.Info("starting stadium-api", slog.String("env", cfg.Env))
	log.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := stadiumapi.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("stadium-api stopped gracefully")
}
