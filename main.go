// payment-reminder/main.go

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/hehemohit/payment-reminder/config"
	"github.com/hehemohit/payment-reminder/internal/billing"
	"github.com/hehemohit/payment-reminder/internal/handlers"
	"github.com/hehemohit/payment-reminder/internal/mailer"
	"github.com/hehemohit/payment-reminder/internal/routes"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := config.OpenDB(cfg.DBURL)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	rdb, err := config.OpenRedis(context.Background(), cfg.RedisAddr)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	sync := billing.NewSynchronizer(db, logger)
	mail := mailer.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass, logger)

	r := gin.Default()
	routes.SetupRoutes(r, routes.Handlers{
		Clients:   handlers.NewClientHandler(db, sync, rdb),
		Payments:  handlers.NewPaymentHandler(db, sync, rdb),
		Email:     handlers.NewEmailHandler(db, mail),
		Dashboard: handlers.NewDashboardHandler(db, rdb),
	})

	slog.Info("starting server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
