// crmapi serves the CRM's ingest endpoints: lead upserts and activity
// inserts, bearer-token authenticated, backed by the Postgres schema in
// db/schema.sql.
package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rapid-steno/crm-sync/config"
	"rapid-steno/crm-sync/db"
	"rapid-steno/crm-sync/handlers"
	"rapid-steno/crm-sync/logger"
	"rapid-steno/crm-sync/middleware"
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
		logger.Get().Error("server failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := cfg.RequireServer(); err != nil {
		return err
	}

	store, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	h := handlers.NewHandler(store)

	router := gin.Default()
	router.GET("/health", h.Health)

	api := router.Group("/api")
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		api.POST("/leads", h.UpsertLead)
		api.POST("/activities", h.CreateActivity)
	}

	logger.Get().Info("server starting", zap.String("port", cfg.Port))
	return router.Run(":" + cfg.Port)
}
