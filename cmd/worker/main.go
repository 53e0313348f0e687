package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"antiscam/internal/config"
	"antiscam/internal/db"
	"antiscam/internal/logger"
	"antiscam/internal/pkg/report"
	"antiscam/internal/pkg/storage"
	"antiscam/internal/repository"
	"antiscam/internal/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, !cfg.IsRelease())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx := context.Background()

	conn := db.NewConnector(cfg.MongoURL, cfg.MongoDatabase, logg)
	cases := repository.NewCaseRepository(conn, logg)

	uploader, err := storage.NewUploader(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("failed to configure storage", zap.Error(err))
	}

	generator := report.NewGenerator(report.NewChromeRenderer(cfg.ChromePath, logg), uploader, logg)

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logg.Fatal("failed to parse redis url", zap.Error(err))
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				"default": 3,
			},
			// each report job starts its own headless Chrome
			Concurrency: 4,
			Logger:      logg.Sugar(),
		},
	)

	taskProcessor := tasks.NewTaskProcessor(cases, generator, logg)

	go func() {
		logg.Info("starting asynq worker server")
		if err := srv.Run(taskProcessor.NewServeMux()); err != nil {
			logg.Fatal("could not run asynq worker server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logg.Info("shutdown signal received, shutting down gracefully")

	srv.Shutdown()
	logg.Info("asynq worker server shut down")

	if err := conn.Close(ctx); err != nil {
		logg.Error("failed to close database", zap.Error(err))
	}

	logg.Info("worker process shut down complete")
}
