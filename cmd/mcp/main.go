package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"antiscam/internal/logger"
	"antiscam/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	// stdout carries the protocol; zap writes to stderr.
	logg, err := logger.New(getEnv("LOG_LEVEL", "info"), false)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	baseURL := getEnv("ANTISCAM_BASE_URL", "http://localhost:8080")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logg.Info("mcp shim starting", zap.String("upstream", baseURL))
	server := mcp.NewServer(baseURL, version, logg)
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logg.Fatal("mcp server failed", zap.Error(err))
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
