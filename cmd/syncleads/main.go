// syncleads runs one batch sync from the MongoDB users collection into the
// CRM and exits. SYNC_SINCE_HOURS limits the run to recently created users;
// SYNC_TARGET picks the ingest API or the direct Postgres store.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"rapid-steno/crm-sync/config"
	"rapid-steno/crm-sync/crm"
	"rapid-steno/crm-sync/db"
	"rapid-steno/crm-sync/logger"
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
		logger.Get().Error("sync failed", zap.Error(err))
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

	source, err := mongodb.Connect(cfg)
	if err != nil {
		return err
	}
	defer source.Close(context.Background())

	target, closeTarget, err := buildTarget(cfg)
	if err != nil {
		return err
	}
	defer closeTarget()

	var since *time.Time
	if cfg.SinceHours > 0 {
		t := time.Now().Add(-time.Duration(cfg.SinceHours) * time.Hour)
		since = &t
		logger.Get().Info("incremental sync", zap.Time("since", t))
	}

	p := pipeline.New(source, target, cfg.BatchSize, cfg.BatchDelay)
	summary, err := p.Run(context.Background(), since)
	if err != nil {
		return err
	}

	for _, line := range summary.Errors {
		logger.Get().Error("record failed", zap.String("detail", line))
	}
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
