package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"antiscam/internal/config"
	"antiscam/internal/db"
	"antiscam/internal/ingest"
	"antiscam/internal/logger"
	"antiscam/internal/pkg/azure"
	"antiscam/internal/pkg/langflow"
	aiclient "antiscam/internal/pkg/openai"
	"antiscam/internal/pkg/report"
	"antiscam/internal/pkg/retell"
	"antiscam/internal/pkg/storage"
	"antiscam/internal/pkg/urlscan"
	"antiscam/internal/repository"
	"antiscam/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	logg, err := logger.New(cfg.LogLevel, !cfg.IsRelease())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if err := cfg.Validate(); err != nil {
		logg.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	conn := db.NewConnector(cfg.MongoURL, cfg.MongoDatabase, logg)
	cases := repository.NewCaseRepository(conn, logg)
	stations := repository.NewStationRepository(conn)

	uploader, err := storage.NewUploader(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("failed to configure storage", zap.Error(err))
	}

	ocr, err := azure.New(cfg.AzureEndpoint, cfg.AzureAPIKey, logg)
	if err != nil {
		logg.Fatal("failed to configure ocr", zap.Error(err))
	}

	openaiClient, err := aiclient.NewClient(cfg.OpenAIAPIKey)
	if err != nil {
		logg.Fatal("failed to configure openai", zap.Error(err))
	}

	caller, err := retell.New(cfg.RetellAPIKey, cfg.RetellFromNumber, cfg.RetellToNumber, logg)
	if err != nil {
		logg.Fatal("failed to configure retell", zap.Error(err))
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logg.Fatal("failed to parse redis url", zap.Error(err))
	}
	queue := asynq.NewClient(redisOpt)
	defer queue.Close()

	orchestrator := ingest.NewOrchestrator(
		uploader,
		ocr,
		aiclient.NewTranscriber(openaiClient, logg),
		aiclient.NewSummarizer(openaiClient, logg),
		cases,
		logg,
	)

	deps := routes.Dependencies{
		Submitter: orchestrator,
		Analyzer:  orchestrator,
		Cases:     cases,
		Stations:  stations,
		Scanner:   urlscan.New(cfg.URLScanAPIKey, logg),
		Caller:    caller,
		Reports:   report.NewGenerator(report.NewChromeRenderer(cfg.ChromePath, logg), uploader, logg),
		Queue:     queue,
	}

	if cfg.LangflowURL != "" {
		predictor, err := langflow.New(cfg.LangflowURL, cfg.LangflowAPIToken, logg)
		if err != nil {
			logg.Fatal("failed to configure langflow", zap.Error(err))
		}
		deps.Predictor = predictor
	} else {
		logg.Warn("LANGFLOW_URL not set, /api/prediction is disabled")
	}

	router := routes.SetupRouter(deps, cfg, logg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("starting server", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutdown signal received, shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server shutdown failed", zap.Error(err))
	}
	if err := conn.Close(shutdownCtx); err != nil {
		logg.Error("failed to close database", zap.Error(err))
	}

	logg.Info("server shut down")
}
