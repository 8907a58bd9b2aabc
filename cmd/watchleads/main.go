// watchleads follows the users collection's change stream and re-syncs each
// changed document into the CRM as it happens. It runs until SIGINT/SIGTERM,
// then closes the change stream and the MongoDB connection, in that order.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"rapid-steno/crm-sync/config"
	"rapid-steno/crm-sync/crm"
	"rapid-steno/crm-sync/db"
	"rapid-steno/crm-sync/logger"
	"rapid-steno/crm-sync/models"
	"rapid-steno/crm-sync/mongodb"
	"rapid-steno/crm-sync/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.Development, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Get().Error("watcher failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := cfg.RequireMongo(); err != nil {
		return err
	}
	if err := cfg.RequireTarget(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := mongodb.Connect(cfg)
	if err != nil {
		return err
	}
	// Watch closes the stream before returning, so this runs strictly after.
	defer source.Close(context.Background())

	target, closeTarget, err := buildTarget(cfg)
	if err != nil {
		return err
	}
	defer closeTarget()

	p := pipeline.New(source, target, cfg.BatchSize, cfg.BatchDelay)

	err = source.Watch(ctx, func(ctx context.Context, user *models.SourceUser) error {
		summary, err := p.SyncUser(ctx, user)
		if err != nil {
			return err
		}
		logger.Get().Info("synced changed user",
			zap.Int("synced", summary.Synced),
			zap.Int("skipped", summary.Skipped),
			zap.Int("activities_synced", summary.ActivitiesSynced),
			zap.Int("activities_skipped", summary.ActivitiesSkipped))
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Info("shutting down")
	return nil
}

func buildTarget(cfg *config.Config) (pipeline.Target, func(), error) {
	if cfg.SyncTarget == "postgres" {
		store, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return crm.NewClient(cfg.CRMBaseURL, cfg.CRMToken), func() {}, nil
}
