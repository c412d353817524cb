package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/digkill/adboard/internal/config"
	"github.com/digkill/adboard/internal/database"
	"github.com/digkill/adboard/internal/realtime"
	"github.com/digkill/adboard/internal/repository"
	"github.com/digkill/adboard/internal/scheduler"
	"github.com/digkill/adboard/internal/server"
	"github.com/digkill/adboard/internal/service"
	"github.com/digkill/adboard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logr := logger.New(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	adRepo := repository.NewAdRepository(db)
	permRepo := repository.NewPermanentAdRepository(db)
	promoRepo := repository.NewPromoRepository(db)

	hub := realtime.NewHub(logr)

	promoService := service.NewPromoService(promoRepo, logr)
	submissionService := service.NewSubmissionService(adRepo, promoService, hub, logr, cfg.PhotoMaxBytes)
	moderationService := service.NewModerationService(adRepo, permRepo, hub, logr)
	resets := scheduler.NewReset(adRepo, permRepo, hub, logr, cfg.ResetInterval)

	hub.Handlers = server.NewRealtimeHandlers(submissionService, moderationService, resets, logr, cfg.SnapshotLimit)

	go hub.Run(ctx)
	go resets.Run(ctx)

	srv := server.New(cfg, logr, promoService, moderationService, hub, func(ctx context.Context) (map[string]bool, error) {
		return database.SchemaTables(ctx, db)
	})

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logr.Error("server stopped", "err", err)
	}
}
