package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"courseware/internal/bootstrap"
	"courseware/internal/config"
	"courseware/internal/db"
	"courseware/internal/kafka"
	"courseware/internal/logger"
	"courseware/internal/workers"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	l, err := logger.Init("courseware", cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer l.Sync()

	// ------------------------
	// Postgres
	// ------------------------
	sqlDB := db.ConnectPostgres(cfg)
	defer sqlDB.Close()
	if err := db.Migrate(context.Background(), sqlDB); err != nil {
		zap.S().Fatalf("Migration failed: %v", err)
	}

	// ------------------------
	// Redis
	// ------------------------
	redisClient := db.ConnectRedis(cfg)
	cache := db.NewRedisCache(redisClient)

	// ------------------------
	// Kafka
	// ------------------------
	kafkaBundle, err := kafka.InitKafka(cfg)
	if err != nil {
		zap.S().Fatalf("Kafka init failed: %v", err)
	}
	workers.StartAllSyncers(cache, kafkaBundle)
	zap.S().Info("✅ Kafka producers and syncers started")

	// ------------------------
	// HTTP
	// ------------------------
	app := bootstrap.InitBootstrap(sqlDB, cache, kafkaBundle)
	r := bootstrap.InitRoutes(app.Handlers, cache)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	bootstrap.GracefulShutdown(srv, redisClient, kafkaBundle)

	zap.S().Infof("🚀 Server started on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.S().Fatalf("Server error: %v", err)
	}
}
